// Package requestsvc - service yêu cầu truy cập (AccessRequest).
package requestsvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "access_governance/internal/api/base/service"
	models "access_governance/internal/api/request/models"
	"access_governance/internal/common"
	"access_governance/internal/global"
)

// AccessRequestService là cấu trúc chứa các phương thức liên quan đến yêu cầu truy cập
type AccessRequestService struct {
	*basesvc.BaseServiceMongoImpl[models.AccessRequest]
}

// NewAccessRequestService tạo mới AccessRequestService
func NewAccessRequestService() (*AccessRequestService, error) {
	requestCollection, exist := global.RegistryCollections.Get(global.ColNames.AccessRequests)
	if !exist {
		return nil, fmt.Errorf("failed to get access_requests collection: %v", common.ErrNotFound)
	}

	return &AccessRequestService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.AccessRequest](requestCollection),
	}, nil
}

// InsertOne override để yêu cầu mới luôn bắt đầu ở trạng thái PENDING
func (s *AccessRequestService) InsertOne(ctx context.Context, data models.AccessRequest) (models.AccessRequest, error) {
	data.Status = models.AccessRequestStatusPending
	data.DeciderID = primitive.NilObjectID
	data.DecisionComment = ""
	data.DecidedAt = 0
	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}

// UpdateById override để chặn sửa yêu cầu đã được quyết định
func (s *AccessRequestService) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (models.AccessRequest, error) {
	var zero models.AccessRequest

	request, err := s.BaseServiceMongoImpl.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	if request.Status != models.AccessRequestStatusPending {
		return zero, common.NewStateConflictError(
			fmt.Sprintf("Yêu cầu đã ở trạng thái %s, không thể chỉnh sửa", request.Status),
		)
	}

	return s.BaseServiceMongoImpl.UpdateById(ctx, id, data)
}

// Decide duyệt hoặc từ chối một yêu cầu truy cập đang PENDING
func (s *AccessRequestService) Decide(ctx context.Context, id primitive.ObjectID, deciderID primitive.ObjectID, approve bool, comment string) (models.AccessRequest, error) {
	var zero models.AccessRequest

	request, err := s.BaseServiceMongoImpl.FindOneById(ctx, id)
	if err != nil {
		return zero, err
	}
	if request.Status != models.AccessRequestStatusPending {
		return zero, common.NewStateConflictError(
			fmt.Sprintf("Yêu cầu đã ở trạng thái %s, không thể quyết định lại", request.Status),
		)
	}

	status := models.AccessRequestStatusRejected
	if approve {
		status = models.AccessRequestStatusApproved
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":          status,
			"deciderId":       deciderID,
			"decisionComment": comment,
			"decidedAt":       time.Now().UnixMilli(),
		},
	}
	return s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
}
