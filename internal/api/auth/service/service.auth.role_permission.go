// Package authsvc - service quyền vai trò (RolePermission).
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

// RolePermissionService là cấu trúc chứa các phương thức liên quan đến quyền vai trò
type RolePermissionService struct {
	*basesvc.BaseServiceMongoImpl[models.RolePermission]
	roleService       *basesvc.BaseServiceMongoImpl[models.Role]
	permissionService *basesvc.BaseServiceMongoImpl[models.Permission]
}

// NewRolePermissionService tạo mới RolePermissionService
func NewRolePermissionService() (*RolePermissionService, error) {
	rolePermissionCollection, exist := global.RegistryCollections.Get(global.ColNames.RolePermissions)
	if !exist {
		return nil, fmt.Errorf("failed to get role_permissions collection: %v", common.ErrNotFound)
	}
	roleCollection, exist := global.RegistryCollections.Get(global.ColNames.Roles)
	if !exist {
		return nil, fmt.Errorf("failed to get roles collection: %v", common.ErrNotFound)
	}
	permissionCollection, exist := global.RegistryCollections.Get(global.ColNames.Permissions)
	if !exist {
		return nil, fmt.Errorf("failed to get permissions collection: %v", common.ErrNotFound)
	}

	return &RolePermissionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.RolePermission](rolePermissionCollection),
		roleService:          basesvc.NewBaseServiceMongo[models.Role](roleCollection),
		permissionService:    basesvc.NewBaseServiceMongo[models.Permission](permissionCollection),
	}, nil
}

// InsertOne override để kiểm tra role và permission tồn tại trước khi gán
func (s *RolePermissionService) InsertOne(ctx context.Context, data models.RolePermission) (models.RolePermission, error) {
	var zero models.RolePermission

	if _, err := s.roleService.FindOneById(ctx, data.RoleID); err != nil {
		return zero, common.NewError(common.ErrCodeValidationInput, "Role không tồn tại", common.StatusBadRequest, err)
	}
	if _, err := s.permissionService.FindOneById(ctx, data.PermissionID); err != nil {
		return zero, common.NewError(common.ErrCodeValidationInput, "Permission không tồn tại", common.StatusBadRequest, err)
	}

	exists, err := s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{
		"roleId":       data.RoleID,
		"permissionId": data.PermissionID,
	})
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.ErrDuplicate
	}

	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}

// FindByRole trả về danh sách quyền của một vai trò
func (s *RolePermissionService) FindByRole(ctx context.Context, roleID primitive.ObjectID) ([]models.RolePermission, error) {
	return s.BaseServiceMongoImpl.Find(ctx, bson.M{"roleId": roleID}, nil)
}
