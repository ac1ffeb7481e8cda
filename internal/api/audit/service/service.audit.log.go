// Package auditsvc - service bản ghi audit (AuditLog).
package auditsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	models "access_governance/internal/api/audit/models"
	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/common"
	"access_governance/internal/global"
	"access_governance/internal/logger"
)

// AuditLogService là cấu trúc chứa các phương thức liên quan đến bản ghi audit
type AuditLogService struct {
	*basesvc.BaseServiceMongoImpl[models.AuditLog]
}

// NewAuditLogService tạo mới AuditLogService
func NewAuditLogService() (*AuditLogService, error) {
	auditCollection, exist := global.RegistryCollections.Get(global.ColNames.AuditLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get audit_logs collection: %v", common.ErrNotFound)
	}

	return &AuditLogService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.AuditLog](auditCollection),
	}, nil
}

// RecordInput dữ liệu ghi một bản audit
type RecordInput struct {
	Action              string
	ActorID             primitive.ObjectID
	ActorEmail          string
	TargetType          string
	TargetID            string
	Before              map[string]interface{}
	After               map[string]interface{}
	Details             map[string]interface{}
	OwnerOrganizationID primitive.ObjectID
}

// Record ghi một bản audit vào collection.
// Lỗi ghi audit chỉ được log, không làm fail thao tác nghiệp vụ gốc.
func (s *AuditLogService) Record(ctx context.Context, input RecordInput) {
	entry := models.AuditLog{
		Action:              input.Action,
		ActorID:             input.ActorID,
		ActorEmail:          input.ActorEmail,
		TargetType:          input.TargetType,
		TargetID:            input.TargetID,
		Before:              input.Before,
		After:               input.After,
		Details:             input.Details,
		OwnerOrganizationID: input.OwnerOrganizationID,
	}

	if _, err := s.BaseServiceMongoImpl.InsertOne(ctx, entry); err != nil {
		logger.GetAuditLogger().WithError(err).WithField("action", input.Action).Error("Không thể ghi audit log vào database")
	}
}
