// Package authsvc - service tổ chức (Organization).
package authsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "access_governance/internal/api/auth/models"
	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/common"
	"access_governance/internal/global"
)

// OrganizationService là cấu trúc chứa các phương thức liên quan đến tổ chức
type OrganizationService struct {
	*basesvc.BaseServiceMongoImpl[models.Organization]
}

// NewOrganizationService tạo mới OrganizationService
func NewOrganizationService() (*OrganizationService, error) {
	orgCollection, exist := global.RegistryCollections.Get(global.ColNames.Organizations)
	if !exist {
		return nil, fmt.Errorf("failed to get organizations collection: %v", common.ErrNotFound)
	}

	return &OrganizationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Organization](orgCollection),
	}, nil
}

// InsertOne override để tính Path và Level theo tổ chức cha
func (s *OrganizationService) InsertOne(ctx context.Context, data models.Organization) (models.Organization, error) {
	var zero models.Organization

	if data.ParentID != nil && !data.ParentID.IsZero() {
		parent, err := s.BaseServiceMongoImpl.FindOneById(ctx, *data.ParentID)
		if err != nil {
			return zero, common.NewError(common.ErrCodeValidationInput, "Tổ chức cha không tồn tại", common.StatusBadRequest, err)
		}
		data.Path = parent.Path + "/" + data.Code
		data.Level = parent.Level + 1
	} else {
		data.Path = "/" + data.Code
		data.Level = 0
	}

	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}

// validateBeforeDelete chặn xóa tổ chức hệ thống hoặc còn tổ chức con
func (s *OrganizationService) validateBeforeDelete(ctx context.Context, orgID primitive.ObjectID) error {
	org, err := s.BaseServiceMongoImpl.FindOneById(ctx, orgID)
	if err != nil {
		return err
	}

	if org.IsSystem {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			"Không thể xóa tổ chức hệ thống.",
			common.StatusForbidden,
			nil,
		)
	}

	childCount, err := s.BaseServiceMongoImpl.CountDocuments(ctx, bson.M{"parentId": orgID})
	if err != nil {
		return err
	}
	if childCount > 0 {
		return common.NewError(
			common.ErrCodeBusinessOperation,
			fmt.Sprintf("Không thể xóa tổ chức vì còn %d tổ chức con trực thuộc.", childCount),
			common.StatusConflict,
			nil,
		)
	}

	return nil
}

// DeleteById override để kiểm tra trước khi xóa
func (s *OrganizationService) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	if err := s.validateBeforeDelete(ctx, id); err != nil {
		return err
	}
	return s.BaseServiceMongoImpl.DeleteById(ctx, id)
}
