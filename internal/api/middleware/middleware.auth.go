package middleware

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	models "access_governance/internal/api/auth/models"
	authsvc "access_governance/internal/api/auth/service"
	"access_governance/internal/common"
	"access_governance/internal/logger"
	"access_governance/internal/utility"
)

// AuthManager quản lý xác thực và phân quyền người dùng
type AuthManager struct {
	UserCRUD           *authsvc.UserService
	RoleCRUD           *authsvc.RoleService
	PermissionCRUD     *authsvc.PermissionService
	RolePermissionCRUD *authsvc.RolePermissionService
	UserRoleCRUD       *authsvc.UserRoleService
	Cache              *utility.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
)

// GetAuthManager trả về instance duy nhất của AuthManager (singleton pattern)
func GetAuthManager() *AuthManager {
	authManagerOnce.Do(func() {
		var err error
		authManagerInstance, err = newAuthManager()
		if err != nil {
			panic(err)
		}
	})
	return authManagerInstance
}

// newAuthManager khởi tạo một instance mới của AuthManager
func newAuthManager() (*AuthManager, error) {
	newManager := new(AuthManager)

	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	newManager.UserCRUD = userService

	roleService, err := authsvc.NewRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create role service: %v", err)
	}
	newManager.RoleCRUD = roleService

	permissionService, err := authsvc.NewPermissionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create permission service: %v", err)
	}
	newManager.PermissionCRUD = permissionService

	rolePermissionService, err := authsvc.NewRolePermissionService()
	if err != nil {
		return nil, fmt.Errorf("failed to create role permission service: %v", err)
	}
	newManager.RolePermissionCRUD = rolePermissionService

	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user role service: %v", err)
	}
	newManager.UserRoleCRUD = userRoleService

	// Cache permission với thời gian sống 5 phút, dọn dẹp mỗi 10 phút
	newManager.Cache = utility.NewCache(5*time.Minute, 10*time.Minute)

	return newManager, nil
}

// getUserPermissions lấy danh sách permissions của user trong role context từ cache hoặc database
func (am *AuthManager) getUserPermissions(userID string, activeRoleID primitive.ObjectID) (map[string]byte, error) {
	cacheKey := fmt.Sprintf("user_permissions:%s:role:%s", userID, activeRoleID.Hex())

	if cached, found := am.Cache.Get(cacheKey); found {
		return cached.(map[string]byte), nil
	}

	permissions := make(map[string]byte)

	// Validate user có role này không
	_, err := am.UserRoleCRUD.BaseServiceMongoImpl.FindOne(context.TODO(), bson.M{
		"userId": utility.String2ObjectID(userID),
		"roleId": activeRoleID,
	}, nil)
	if err != nil {
		am.Cache.Set(cacheKey, permissions)
		return permissions, nil
	}

	findRolePermissions, err := am.RolePermissionCRUD.BaseServiceMongoImpl.Find(context.TODO(), bson.M{"roleId": activeRoleID}, nil)
	if err != nil {
		am.Cache.Set(cacheKey, permissions)
		return permissions, nil
	}

	for _, rolePermission := range findRolePermissions {
		permission, err := am.PermissionCRUD.FindOneById(context.TODO(), rolePermission.PermissionID)
		if err != nil {
			continue
		}
		permissions[permission.Name] = rolePermission.Scope
	}

	am.Cache.Set(cacheKey, permissions)
	return permissions, nil
}

// AuthMiddleware middleware xác thực cho Fiber.
// requirePermission rỗng nghĩa là chỉ cần đăng nhập, không yêu cầu permission cụ thể.
func AuthMiddleware(requirePermission string) fiber.Handler {
	authManager := GetAuthManager()

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("Thiếu Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		token := parts[1]

		// Tìm user theo token mới nhất (được cập nhật mỗi lần login)
		var user models.User
		user, err := authManager.UserCRUD.BaseServiceMongoImpl.FindOne(context.Background(), bson.M{"token": token}, nil)
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("Token không tồn tại trong database")
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthCredentials,
				"Tài khoản đã bị khóa: "+user.BlockNote,
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		c.Locals("user_id", user.ID.Hex())
		c.Locals("user_email", user.Email)
		c.Locals("user", user)

		// Endpoint chỉ cần đăng nhập (vd: /auth/roles) thì cho qua luôn
		if requirePermission == "" {
			return c.Next()
		}

		// Route yêu cầu permission thì PHẢI có header X-Active-Role-ID chỉ định role context
		activeRoleIDStr := c.Get("X-Active-Role-ID")
		if activeRoleIDStr == "" {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":    user.ID.Hex(),
				"path":       c.Path(),
				"permission": requirePermission,
			}).Warn("Thiếu header X-Active-Role-ID")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Thiếu header X-Active-Role-ID. Vui lòng chọn role để làm việc.",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		roleID, err := primitive.ObjectIDFromHex(activeRoleIDStr)
		if err != nil {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeValidationFormat,
				"X-Active-Role-ID không đúng định dạng",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		userRoles, err := authManager.UserRoleCRUD.BaseServiceMongoImpl.Find(context.Background(), bson.M{"userId": user.ID}, nil)
		if err != nil {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Không thể kiểm tra quyền truy cập",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		if len(userRoles) == 0 {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Người dùng chưa được gán vai trò. Vui lòng liên hệ quản trị viên.",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		hasRole := false
		for _, userRole := range userRoles {
			if userRole.RoleID.Hex() == roleID.Hex() {
				hasRole = true
				break
			}
		}

		if !hasRole {
			validRoleIDs := make([]string, 0, len(userRoles))
			for _, userRole := range userRoles {
				validRoleIDs = append(validRoleIDs, userRole.RoleID.Hex())
			}

			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":        user.ID.Hex(),
				"active_role_id": roleID.Hex(),
				"valid_role_ids": validRoleIDs,
				"path":           c.Path(),
			}).Warn("User không có role này, từ chối request")

			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Người dùng không có quyền sử dụng role này. Vui lòng chọn role khác.",
				common.StatusForbidden,
				map[string]interface{}{
					"invalidRoleId": roleID.Hex(),
					"validRoleIds":  validRoleIDs,
					"errorCode":     "ROLE_CONTEXT_INVALID",
				},
			))
			return nil
		}

		permissions, err := authManager.getUserPermissions(user.ID.Hex(), roleID)
		if err != nil {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Không thể lấy thông tin quyền",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		scope, hasPermission := permissions[requirePermission]
		if !hasPermission {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"user_id":             user.ID.Hex(),
				"active_role_id":      roleID.Hex(),
				"required_permission": requirePermission,
				"path":                c.Path(),
			}).Warn("User không có permission yêu cầu")
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Không có quyền truy cập. Vui lòng kiểm tra lại role context hoặc liên hệ quản trị viên.",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		// Lưu scope tối thiểu và permission name vào context để handler sử dụng
		c.Locals("minScope", scope)
		c.Locals("permission_name", requirePermission)
		return c.Next()
	}
}
