// Package reviewhdl - handler HTTP cho chiến dịch rà soát quyền truy cập
package reviewhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "access_governance/internal/api/base/handler"
	reviewdto "access_governance/internal/api/review/dto"
	models "access_governance/internal/api/review/models"
	reviewsvc "access_governance/internal/api/review/service"
	"access_governance/internal/common"
	"access_governance/internal/logger"
)

// ReviewCampaignHandler xử lý các request trên chiến dịch rà soát
type ReviewCampaignHandler struct {
	*basehdl.BaseHandler[models.Campaign, reviewdto.CampaignCreateInput, reviewdto.CampaignUpdateInput]
	campaignService *reviewsvc.CampaignService
}

// NewReviewCampaignHandler tạo instance mới của ReviewCampaignHandler
func NewReviewCampaignHandler() (*ReviewCampaignHandler, error) {
	campaignService, err := reviewsvc.NewCampaignService()
	if err != nil {
		return nil, fmt.Errorf("failed to create review campaign service: %v", err)
	}
	return &ReviewCampaignHandler{
		BaseHandler:     basehdl.NewBaseHandler[models.Campaign, reviewdto.CampaignCreateInput, reviewdto.CampaignUpdateInput](campaignService),
		campaignService: campaignService,
	}, nil
}

// currentActor lấy thông tin người thực hiện từ context xác thực
func currentActor(c fiber.Ctx) (reviewsvc.Actor, error) {
	idStr, _ := c.Locals("user_id").(string)
	actorID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return reviewsvc.Actor{}, common.ErrTokenInvalid
	}
	email, _ := c.Locals("user_email").(string)
	return reviewsvc.Actor{ID: actorID, Email: email}, nil
}

// campaignIDParam lấy ObjectID của chiến dịch từ URI params
func campaignIDParam(c fiber.Ctx) (primitive.ObjectID, error) {
	id := c.Params("id")
	if !primitive.IsValidObjectID(id) {
		return primitive.NilObjectID, common.NewError(
			common.ErrCodeValidationFormat,
			fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID", id),
			common.StatusBadRequest,
			nil,
		)
	}
	return primitive.ObjectIDFromHex(id)
}

// InsertOne tạo chiến dịch mới. Ghi đè handler CRUD mặc định vì dữ liệu
// tạo chiến dịch cần validate nghiệp vụ và dựng workflow thay vì map thẳng
// sang model.
func (h *ReviewCampaignHandler) InsertOne(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input reviewdto.CampaignCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor, err := currentActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		orgID, ok := c.Locals("active_organization_id").(primitive.ObjectID)
		if !ok {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeAuthRole,
				"Không xác định được tổ chức đang thao tác",
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		campaign, err := h.campaignService.Create(c.Context(), &input, orgID, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_create", c, campaign.ID.Hex(), map[string]interface{}{
				"name": campaign.Name,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// UpdateById chỉnh sửa chiến dịch. Ghi đè handler CRUD mặc định để bản
// audit mang thông tin người thực hiện.
func (h *ReviewCampaignHandler) UpdateById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.CampaignUpdateInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.Update(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_update", c, campaign.ID.Hex(), map[string]interface{}{
				"name": campaign.Name,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// DeleteById xóa mềm chiến dịch. Ghi đè handler CRUD mặc định để bản
// audit mang thông tin người thực hiện.
func (h *ReviewCampaignHandler) DeleteById(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, err := campaignIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		actor, err := currentActor(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.campaignService.Delete(c.Context(), campaignID, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_delete", c, campaignID.Hex(), nil)
		}
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// mutationInput gom phần parse chung của các thao tác theo id + body
func mutationInput[I any](h *ReviewCampaignHandler, c fiber.Ctx) (primitive.ObjectID, *I, reviewsvc.Actor, error) {
	campaignID, err := campaignIDParam(c)
	if err != nil {
		return primitive.NilObjectID, nil, reviewsvc.Actor{}, err
	}
	var input I
	if err := h.ParseRequestBody(c, &input); err != nil {
		return primitive.NilObjectID, nil, reviewsvc.Actor{}, err
	}
	actor, err := currentActor(c)
	if err != nil {
		return primitive.NilObjectID, nil, reviewsvc.Actor{}, err
	}
	return campaignID, &input, actor, nil
}

// HandleItemDecision ghi quyết định của reviewer cho một item
func (h *ReviewCampaignHandler) HandleItemDecision(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.ItemDecisionInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.RecordItemDecision(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_item_decide", c, campaign.ID.Hex(), map[string]interface{}{
				"itemId":       input.ItemID,
				"decisionType": input.DecisionType,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// HandleSubmit nộp chiến dịch để phê duyệt
func (h *ReviewCampaignHandler) HandleSubmit(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.SubmitInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.Submit(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_submit", c, campaign.ID.Hex(), map[string]interface{}{
				"secondLevelRequired": campaign.Approvals.SecondLevelRequired,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// HandleApprove ghi kết quả phê duyệt cấp hai
func (h *ReviewCampaignHandler) HandleApprove(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.ApprovalInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.RecordApproval(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_second_level_approval", c, campaign.ID.Hex(), map[string]interface{}{
				"decision": input.Decision,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// HandleBulkDecision áp một quyết định lên tập item đích
func (h *ReviewCampaignHandler) HandleBulkDecision(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.BulkDecisionInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		report, campaign, err := h.campaignService.ApplyBulk(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_bulk_decision", c, campaign.ID.Hex(), map[string]interface{}{
				"targetType": input.TargetType,
				"successful": report.Successful,
				"skipped":    report.Skipped,
				"failed":     report.Failed,
			})
		}
		h.HandleResponse(c, report, err)
		return nil
	})
}

// HandleRemediation cập nhật trạng thái ticket remediation
func (h *ReviewCampaignHandler) HandleRemediation(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.RemediationInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.RecordRemediation(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_remediation", c, campaign.ID.Hex(), map[string]interface{}{
				"ticketId": input.TicketID,
				"status":   input.Status,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// HandleComplete đóng chiến dịch sau khi xác minh
func (h *ReviewCampaignHandler) HandleComplete(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, input, actor, err := mutationInput[reviewdto.CompleteInput](h, c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.Complete(c.Context(), campaignID, input, actor)
		if err == nil {
			logger.LogCampaignAction("campaign_complete", c, campaign.ID.Hex(), map[string]interface{}{
				"verifiedBy": input.VerifiedBy,
			})
		}
		h.HandleResponse(c, campaign, err)
		return nil
	})
}

// HandleSubmissionCheck chạy cổng kiểm tra nộp mà không thay đổi dữ liệu,
// cho phép UI hiển thị danh sách lỗi trước khi reviewer bấm nộp
func (h *ReviewCampaignHandler) HandleSubmissionCheck(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		campaignID, err := campaignIDParam(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		campaign, err := h.campaignService.FindOneById(c.Context(), campaignID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		check := reviewsvc.ValidateForSubmission(&campaign)
		h.HandleResponse(c, check, nil)
		return nil
	})
}
