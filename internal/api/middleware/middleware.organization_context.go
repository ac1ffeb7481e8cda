package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authsvc "access_governance/internal/api/auth/service"
	"access_governance/internal/common"
)

// OrganizationContextMiddleware quản lý organization context.
// Context làm việc là ROLE, không phải organization:
// - Đọc X-Active-Role-ID từ header, validate user có role này không
// - Từ role, suy ra organization ID tương ứng
// - Lưu active_role_id (PRIMARY) và active_organization_id (DERIVED) vào context
func OrganizationContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok || userIDStr == "" {
			// Route không cần auth, không set organization context
			return c.Next()
		}

		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			return c.Next()
		}

		activeRoleIDStr := c.Get("X-Active-Role-ID")
		var activeRoleID primitive.ObjectID

		if activeRoleIDStr != "" {
			activeRoleID, err = primitive.ObjectIDFromHex(activeRoleIDStr)
			if err != nil {
				activeRoleID, err = getFirstUserRoleID(context.Background(), userID)
				if err != nil {
					return c.Next()
				}
			} else {
				hasRole, err := validateUserHasRole(context.Background(), userID, activeRoleID)
				if err != nil || !hasRole {
					activeRoleID, err = getFirstUserRoleID(context.Background(), userID)
					if err != nil {
						return c.Next()
					}
				}
			}
		} else {
			activeRoleID, err = getFirstUserRoleID(context.Background(), userID)
			if err != nil {
				return c.Next()
			}
		}

		roleService, err := authsvc.NewRoleService()
		if err != nil {
			return c.Next()
		}

		role, err := roleService.BaseServiceMongoImpl.FindOneById(context.Background(), activeRoleID)
		if err != nil {
			return c.Next()
		}

		c.Locals("active_role_id", activeRoleID.Hex())
		c.Locals("active_organization_id", role.OwnerOrganizationID.Hex())

		return c.Next()
	}
}

// validateUserHasRole kiểm tra user có role này không
func validateUserHasRole(ctx context.Context, userID, roleID primitive.ObjectID) (bool, error) {
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return false, err
	}

	return userRoleService.BaseServiceMongoImpl.DocumentExists(ctx, bson.M{
		"userId": userID,
		"roleId": roleID,
	})
}

// getFirstUserRoleID lấy role ID đầu tiên của user
func getFirstUserRoleID(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return primitive.NilObjectID, err
	}

	userRoles, err := userRoleService.BaseServiceMongoImpl.Find(ctx, bson.M{"userId": userID}, nil)
	if err != nil {
		return primitive.NilObjectID, err
	}

	if len(userRoles) == 0 {
		return primitive.NilObjectID, common.ErrNotFound
	}

	return userRoles[0].RoleID, nil
}
