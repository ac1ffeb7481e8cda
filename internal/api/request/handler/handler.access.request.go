package requesthdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "access_governance/internal/api/base/handler"
	requestdto "access_governance/internal/api/request/dto"
	models "access_governance/internal/api/request/models"
	requestsvc "access_governance/internal/api/request/service"
	"access_governance/internal/common"
	"access_governance/internal/logger"
)

// AccessRequestHandler xử lý các request quản lý yêu cầu truy cập
type AccessRequestHandler struct {
	*basehdl.BaseHandler[models.AccessRequest, requestdto.AccessRequestCreateInput, requestdto.AccessRequestUpdateInput]
	requestService *requestsvc.AccessRequestService
}

// NewAccessRequestHandler tạo instance mới của AccessRequestHandler
func NewAccessRequestHandler() (*AccessRequestHandler, error) {
	requestService, err := requestsvc.NewAccessRequestService()
	if err != nil {
		return nil, fmt.Errorf("failed to create access request service: %v", err)
	}
	return &AccessRequestHandler{
		BaseHandler:    basehdl.NewBaseHandler[models.AccessRequest, requestdto.AccessRequestCreateInput, requestdto.AccessRequestUpdateInput](requestService),
		requestService: requestService,
	}, nil
}

// HandleDecide duyệt hoặc từ chối một yêu cầu truy cập
func (h *AccessRequestHandler) HandleDecide(c fiber.Ctx) error {
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
		requestID, _ := primitive.ObjectIDFromHex(id)

		var input requestdto.AccessRequestDecisionInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		deciderIDStr, _ := c.Locals("user_id").(string)
		deciderID, err := primitive.ObjectIDFromHex(deciderIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		request, err := h.requestService.Decide(c.Context(), requestID, deciderID, input.Approve, input.Comment)
		if err == nil {
			logger.LogAction("access_request_decide", c, "AccessRequest", request.ID.Hex(), map[string]interface{}{
				"approve": input.Approve,
				"status":  request.Status,
			})
		}
		h.HandleResponse(c, request, err)
		return nil
	})
}
