// Package initsvc khởi tạo dữ liệu ban đầu cho hệ thống:
// quyền mặc định, tổ chức gốc, vai trò Administrator và người quản trị đầu tiên.
package initsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authmodels "access_governance/internal/api/auth/models"
	authsvc "access_governance/internal/api/auth/service"
	"access_governance/internal/common"
	"access_governance/internal/logger"
)

// InitialPermissions danh sách quyền mặc định của hệ thống.
// Mỗi collection có bộ quyền Insert/Read/Update/Delete,
// domain review có thêm các quyền theo nghiệp vụ chiến dịch.
var InitialPermissions = buildInitialPermissions()

func buildInitialPermissions() []authmodels.Permission {
	permissions := make([]authmodels.Permission, 0)

	crudGroups := map[string]string{
		"User":           "auth",
		"Role":           "auth",
		"Permission":     "auth",
		"RolePermission": "auth",
		"UserRole":       "auth",
		"Organization":   "auth",
		"ApiKey":         "auth",
		"AccessRequest":  "request",
		"AuditLog":       "audit",
		"ReviewCampaign": "review",
	}
	for name, group := range crudGroups {
		for _, action := range []string{"Insert", "Read", "Update", "Delete"} {
			permissions = append(permissions, authmodels.Permission{
				Name:     name + "." + action,
				Describe: fmt.Sprintf("Quyền %s trên %s", action, name),
				Category: "crud",
				Group:    group,
			})
		}
	}

	// Quyền nghiệp vụ riêng của domain review
	for _, action := range []string{"Decide", "Submit", "Approve", "BulkDecision", "Remediate", "Complete"} {
		permissions = append(permissions, authmodels.Permission{
			Name:     "ReviewCampaign." + action,
			Describe: fmt.Sprintf("Quyền %s trên chiến dịch rà soát", action),
			Category: "workflow",
			Group:    "review",
		})
	}

	// Quyền quản trị người dùng
	permissions = append(permissions,
		authmodels.Permission{Name: "User.Block", Describe: "Quyền khóa/mở khóa người dùng", Category: "admin", Group: "auth"},
		authmodels.Permission{Name: "AccessRequest.Approve", Describe: "Quyền duyệt yêu cầu truy cập", Category: "workflow", Group: "request"},
		authmodels.Permission{Name: "Init.SetAdmin", Describe: "Quyền gán Administrator", Category: "admin", Group: "auth"},
	)

	return permissions
}

// InitService là cấu trúc chứa các phương thức khởi tạo dữ liệu ban đầu cho hệ thống
type InitService struct {
	userService           *authsvc.UserService
	roleService           *authsvc.RoleService
	permissionService     *authsvc.PermissionService
	rolePermissionService *authsvc.RolePermissionService
	userRoleService       *authsvc.UserRoleService
	organizationService   *authsvc.OrganizationService
}

// NewInitService tạo mới một đối tượng InitService
func NewInitService() (*InitService, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	roleService, err := authsvc.NewRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create role service: %v", err)
	}
	permissionService, err := authsvc.NewPermissionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create permission service: %v", err)
	}
	rolePermissionService, err := authsvc.NewRolePermissionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create role permission service: %v", err)
	}
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user role service: %v", err)
	}
	organizationService, err := authsvc.NewOrganizationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create organization service: %v", err)
	}

	return &InitService{
		userService:           userService,
		roleService:           roleService,
		permissionService:     permissionService,
		rolePermissionService: rolePermissionService,
		userRoleService:       userRoleService,
		organizationService:   organizationService,
	}, nil
}

// InitPermission khởi tạo danh sách quyền mặc định, bỏ qua quyền đã tồn tại
func (h *InitService) InitPermission() error {
	for _, permission := range InitialPermissions {
		filter := bson.M{"name": permission.Name}
		_, err := h.permissionService.BaseServiceMongoImpl.FindOne(context.TODO(), filter, nil)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			continue
		}

		if errors.Is(err, common.ErrNotFound) {
			permission.IsSystem = true
			_, err = h.permissionService.BaseServiceMongoImpl.InsertOne(context.TODO(), permission)
			if err != nil {
				return fmt.Errorf("failed to insert permission %s: %v", permission.Name, err)
			}
		}
	}
	return nil
}

// InitRootOrganization khởi tạo Organization System (Level -1).
// System organization là tổ chức cấp cao nhất, không có parent, không thể xóa.
func (h *InitService) InitRootOrganization() error {
	log := logger.GetAppLogger()

	systemFilter := bson.M{
		"type":  authmodels.OrganizationTypeSystem,
		"level": -1,
		"code":  "SYSTEM",
	}

	_, err := h.organizationService.BaseServiceMongoImpl.FindOne(context.TODO(), systemFilter, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check system organization: %v", err)
	}
	if err == nil {
		log.Info("System Organization đã tồn tại, bỏ qua")
		return nil
	}

	systemOrgModel := authmodels.Organization{
		Name:     "Hệ Thống",
		Code:     "SYSTEM",
		Type:     authmodels.OrganizationTypeSystem,
		ParentID: nil,
		Path:     "/system",
		Level:    -1,
		IsActive: true,
		IsSystem: true,
	}

	_, err = h.organizationService.BaseServiceMongoImpl.InsertOne(context.TODO(), systemOrgModel)
	if err != nil {
		return fmt.Errorf("failed to insert system organization: %v", err)
	}
	log.Info("Đã tạo System Organization")
	return nil
}

// GetRootOrganization trả về System Organization
func (h *InitService) GetRootOrganization() (*authmodels.Organization, error) {
	org, err := h.organizationService.BaseServiceMongoImpl.FindOne(context.TODO(), bson.M{
		"type": authmodels.OrganizationTypeSystem,
		"code": "SYSTEM",
	}, nil)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// InitRole khởi tạo vai trò Administrator thuộc System Organization
// và gán toàn bộ quyền hệ thống cho vai trò này
func (h *InitService) InitRole() error {
	systemOrg, err := h.GetRootOrganization()
	if err != nil {
		return fmt.Errorf("failed to get system organization: %v", err)
	}

	adminFilter := bson.M{"name": "Administrator", "ownerOrganizationId": systemOrg.ID}
	adminRole, err := h.roleService.BaseServiceMongoImpl.FindOne(context.TODO(), adminFilter, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check administrator role: %v", err)
	}

	if errors.Is(err, common.ErrNotFound) {
		adminRole, err = h.roleService.BaseServiceMongoImpl.InsertOne(context.TODO(), authmodels.Role{
			Name:                "Administrator",
			Describe:            "Vai trò quản trị toàn hệ thống",
			OwnerOrganizationID: systemOrg.ID,
			IsSystem:            true,
		})
		if err != nil {
			return fmt.Errorf("failed to insert administrator role: %v", err)
		}
	}

	return h.syncAdministratorPermissions(adminRole.ID)
}

// syncAdministratorPermissions đảm bảo Administrator có đủ mọi quyền trong hệ thống
func (h *InitService) syncAdministratorPermissions(adminRoleID primitive.ObjectID) error {
	permissions, err := h.permissionService.BaseServiceMongoImpl.Find(context.TODO(), bson.M{}, nil)
	if err != nil {
		return fmt.Errorf("failed to list permissions: %v", err)
	}

	for _, permission := range permissions {
		exists, err := h.rolePermissionService.BaseServiceMongoImpl.DocumentExists(context.TODO(), bson.M{
			"roleId":       adminRoleID,
			"permissionId": permission.ID,
		})
		if err != nil || exists {
			continue
		}
		_, err = h.rolePermissionService.BaseServiceMongoImpl.InsertOne(context.TODO(), authmodels.RolePermission{
			RoleID:       adminRoleID,
			PermissionID: permission.ID,
			Scope:        0,
		})
		if err != nil {
			return fmt.Errorf("failed to grant permission %s: %v", permission.Name, err)
		}
	}
	return nil
}

// SetAdministrator gán vai trò Administrator cho một người dùng
func (h *InitService) SetAdministrator(userID primitive.ObjectID) (interface{}, error) {
	systemOrg, err := h.GetRootOrganization()
	if err != nil {
		return nil, err
	}

	adminRole, err := h.roleService.BaseServiceMongoImpl.FindOne(context.TODO(), bson.M{
		"name":                "Administrator",
		"ownerOrganizationId": systemOrg.ID,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("administrator role not found: %v", err)
	}

	if _, err := h.userService.BaseServiceMongoImpl.FindOneById(context.TODO(), userID); err != nil {
		return nil, err
	}

	exists, err := h.userRoleService.IsExist(context.TODO(), userID, adminRole.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicate
	}

	return h.userRoleService.BaseServiceMongoImpl.InsertOne(context.TODO(), authmodels.UserRole{
		UserID: userID,
		RoleID: adminRole.ID,
	})
}

// HasAnyAdministrator kiểm tra hệ thống đã có người dùng Administrator chưa
func (h *InitService) HasAnyAdministrator() (bool, error) {
	systemOrg, err := h.GetRootOrganization()
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	adminRole, err := h.roleService.BaseServiceMongoImpl.FindOne(context.TODO(), bson.M{
		"name":                "Administrator",
		"ownerOrganizationId": systemOrg.ID,
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	count, err := h.userRoleService.BaseServiceMongoImpl.CountDocuments(context.TODO(), bson.M{"roleId": adminRole.ID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InitAllData chạy toàn bộ quy trình khởi tạo dữ liệu hệ thống
func (h *InitService) InitAllData() error {
	if err := h.InitPermission(); err != nil {
		return err
	}
	if err := h.InitRootOrganization(); err != nil {
		return err
	}
	return h.InitRole()
}
