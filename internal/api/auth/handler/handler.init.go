package authhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authdto "access_governance/internal/api/auth/dto"
	models "access_governance/internal/api/auth/models"
	basehdl "access_governance/internal/api/base/handler"
	"access_governance/internal/api/initsvc"
	"access_governance/internal/common"
)

// InitHandler xử lý các route khởi tạo hệ thống.
// Các route này chỉ mở khi hệ thống chưa có Administrator.
type InitHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	initService *initsvc.InitService
}

// NewInitHandler tạo instance mới của InitHandler
func NewInitHandler() (*InitHandler, error) {
	initService, err := initsvc.NewInitService()
	if err != nil {
		return nil, fmt.Errorf("failed to create init service: %v", err)
	}
	return &InitHandler{
		BaseHandler: &basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]{},
		initService: initService,
	}, nil
}

// HandleInitAll chạy toàn bộ quy trình khởi tạo dữ liệu hệ thống
func (h *InitHandler) HandleInitAll(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		err := h.initService.InitAllData()
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleSetAdministrator gán vai trò Administrator cho người dùng theo ID
func (h *InitHandler) HandleSetAdministrator(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}
		userID, _ := primitive.ObjectIDFromHex(id)

		result, err := h.initService.SetAdministrator(userID)
		h.HandleResponse(c, result, err)
		return nil
	})
}
