// Package authsvc - service vai trò người dùng (UserRole).
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

// UserRoleService là cấu trúc chứa các phương thức liên quan đến vai trò người dùng
type UserRoleService struct {
	*basesvc.BaseServiceMongoImpl[models.UserRole]
	userService *basesvc.BaseServiceMongoImpl[models.User]
	roleService *basesvc.BaseServiceMongoImpl[models.Role]
}

// NewUserRoleService tạo mới UserRoleService
func NewUserRoleService() (*UserRoleService, error) {
	userRoleCollection, exist := global.RegistryCollections.Get(global.ColNames.UserRoles)
	if !exist {
		return nil, fmt.Errorf("failed to get user_roles collection: %v", common.ErrNotFound)
	}
	userCollection, exist := global.RegistryCollections.Get(global.ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}
	roleCollection, exist := global.RegistryCollections.Get(global.ColNames.Roles)
	if !exist {
		return nil, fmt.Errorf("failed to get roles collection: %v", common.ErrNotFound)
	}

	return &UserRoleService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.UserRole](userRoleCollection),
		userService:          basesvc.NewBaseServiceMongo[models.User](userCollection),
		roleService:          basesvc.NewBaseServiceMongo[models.Role](roleCollection),
	}, nil
}

// InsertOne override để kiểm tra user và role tồn tại trước khi gán
func (s *UserRoleService) InsertOne(ctx context.Context, data models.UserRole) (models.UserRole, error) {
	var zero models.UserRole

	if _, err := s.userService.FindOneById(ctx, data.UserID); err != nil {
		return zero, common.NewError(common.ErrCodeValidationInput, "User không tồn tại", common.StatusBadRequest, err)
	}
	if _, err := s.roleService.FindOneById(ctx, data.RoleID); err != nil {
		return zero, common.NewError(common.ErrCodeValidationInput, "Role không tồn tại", common.StatusBadRequest, err)
	}

	exists, err := s.IsExist(ctx, data.UserID, data.RoleID)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, common.ErrDuplicate
	}

	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}

// IsExist kiểm tra user đã có role này chưa
func (s *UserRoleService) IsExist(ctx context.Context, userID, roleID primitive.ObjectID) (bool, error) {
	return s.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{
		"userId": userID,
		"roleId": roleID,
	})
}
