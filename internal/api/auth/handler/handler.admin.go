package authhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	authdto "access_governance/internal/api/auth/dto"
	models "access_governance/internal/api/auth/models"
	authsvc "access_governance/internal/api/auth/service"
	basehdl "access_governance/internal/api/base/handler"
	basesvc "access_governance/internal/api/base/service"
	"access_governance/internal/logger"
)

// AdminHandler xử lý các request quản trị người dùng (khóa, mở khóa)
type AdminHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	userService *authsvc.UserService
}

// NewAdminHandler tạo instance mới của AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %v", err)
	}
	return &AdminHandler{
		BaseHandler: basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService),
		userService: userService,
	}, nil
}

// HandleBlockUser khóa người dùng theo email, xóa token hiện tại
func (h *AdminHandler) HandleBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.BlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		updateData := &basesvc.UpdateData{
			Set: map[string]interface{}{
				"isBlock":   true,
				"blockNote": input.Note,
				"token":     "",
			},
		}
		user, err := h.userService.BaseServiceMongoImpl.UpdateOne(c.Context(), bson.M{"email": input.Email}, updateData)
		if err == nil {
			logger.LogAction("user_block", c, "User", user.ID.Hex(), map[string]interface{}{"note": input.Note})
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUnBlockUser mở khóa người dùng theo email
func (h *AdminHandler) HandleUnBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UnBlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		updateData := &basesvc.UpdateData{
			Set: map[string]interface{}{
				"isBlock":   false,
				"blockNote": "",
			},
		}
		user, err := h.userService.BaseServiceMongoImpl.UpdateOne(c.Context(), bson.M{"email": input.Email}, updateData)
		if err == nil {
			logger.LogAction("user_unblock", c, "User", user.ID.Hex(), nil)
		}
		h.HandleResponse(c, user, err)
		return nil
	})
}
