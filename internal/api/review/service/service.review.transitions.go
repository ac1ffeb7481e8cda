package reviewsvc

import (
	"fmt"
	"strings"

	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
)

// Các hàm trong file này là transition thuần trên giá trị Campaign
// đã nạp vào bộ nhớ. Tầng service gói chúng trong cập nhật CAS,
// nên tại đây không có side effect ngoài việc sửa struct.

// ApplyItemDecision ghi quyết định của reviewer lên một item.
// Chỉ hợp lệ khi chiến dịch còn ở trạng thái chỉnh sửa được.
func ApplyItemDecision(campaign *models.Campaign, input *dto.ItemDecisionInput, now int64) error {
	if !campaign.IsEditable() {
		return common.NewStateConflictError(fmt.Sprintf("không thể chỉnh sửa chiến dịch ở trạng thái %s", campaign.Status))
	}
	item := campaign.FindItem(input.ItemID)
	if item == nil {
		return common.NewError(common.ErrCodeDatabaseQuery, fmt.Sprintf("không tìm thấy item %s", input.ItemID), common.StatusNotFound, nil)
	}

	candidate := models.Decision{
		DecisionType:     input.DecisionType,
		ReasonCode:       input.ReasonCode,
		Comments:         input.Comments,
		EffectiveDate:    input.EffectiveDate,
		RequestedChange:  input.RequestedChange,
		EvidenceProvided: input.EvidenceProvided,
		EvidenceLink:     input.EvidenceLink,
	}
	probe := *item
	probe.Decision = candidate
	if errs := ValidateItemDecision(&probe); len(errs) > 0 {
		return common.NewValidationError(errs)
	}

	item.Decision = candidate
	if candidate.EffectiveDate == 0 {
		item.Decision.EffectiveDate = now
	}
	return nil
}

// SubmitCampaign chuyển chiến dịch từ DRAFT/IN_REVIEW sang SUBMITTED.
// Bắt buộc qua cổng kiểm tra nộp và reviewer phải chứng thực.
func SubmitCampaign(campaign *models.Campaign, input *dto.SubmitInput, now int64) error {
	if !campaign.IsEditable() {
		return common.NewStateConflictError(fmt.Sprintf("không thể nộp chiến dịch ở trạng thái %s", campaign.Status))
	}
	if !input.ReviewerAttestation {
		return common.NewStateConflictError("reviewer chưa chứng thực kết quả rà soát")
	}
	check := ValidateForSubmission(campaign)
	if !check.Valid {
		return common.NewValidationError(check.Errors)
	}

	campaign.Status = models.CampaignStatusSubmitted
	campaign.Approvals.ReviewerName = input.ReviewerName
	campaign.Approvals.ReviewerEmail = input.ReviewerEmail
	campaign.Approvals.ReviewerAttestation = true
	campaign.Approvals.ReviewerAttestedAt = now
	campaign.Approvals.SecondLevelRequired = RequiresSecondLevel(campaign)

	// Nộp lại sau một lần bị từ chối mở ra vòng phê duyệt cấp hai mới
	campaign.Approvals.SecondApproverName = ""
	campaign.Approvals.SecondApproverEmail = ""
	campaign.Approvals.SecondDecision = ""
	campaign.Approvals.SecondDecisionNotes = ""
	campaign.Approvals.SecondDecidedAt = 0
	return nil
}

// RecordApprovalOn ghi kết quả phê duyệt cấp hai.
// Gọi lại khi secondDecision đã có bị từ chối (không cho ghi đè).
// Khi bị REJECTED, chiến dịch quay về IN_REVIEW để rà soát lại.
func RecordApprovalOn(campaign *models.Campaign, input *dto.ApprovalInput, now int64) error {
	if campaign.Status != models.CampaignStatusSubmitted {
		return common.NewStateConflictError(fmt.Sprintf("không thể phê duyệt chiến dịch ở trạng thái %s", campaign.Status))
	}
	if campaign.Approvals.SecondDecision != "" {
		return common.NewStateConflictError("chiến dịch đã có kết quả phê duyệt cấp hai")
	}

	campaign.Approvals.SecondApproverName = input.ApproverName
	campaign.Approvals.SecondApproverEmail = input.ApproverEmail
	campaign.Approvals.SecondDecision = input.Decision
	campaign.Approvals.SecondDecisionNotes = input.Notes
	campaign.Approvals.SecondDecidedAt = now

	if input.Decision == models.SecondDecisionRejected {
		campaign.Status = models.CampaignStatusInReview
	}
	return nil
}

// remediationCompletedStatuses các trạng thái ticket được coi là hoàn tất
var remediationCompletedStatuses = map[string]bool{
	"COMPLETED": true,
	"DONE":      true,
	"RESOLVED":  true,
	"CLOSED":    true,
}

// RecordRemediationOn cập nhật thông tin ticket remediation lên workflow
func RecordRemediationOn(campaign *models.Campaign, input *dto.RemediationInput, now int64) error {
	if campaign.Status != models.CampaignStatusSubmitted {
		return common.NewStateConflictError(fmt.Sprintf("không thể ghi remediation cho chiến dịch ở trạng thái %s", campaign.Status))
	}

	campaign.Workflow.RemediationTicketCreated = true
	campaign.Workflow.RemediationTicketID = input.TicketID
	campaign.Workflow.RemediationStatus = input.Status
	if remediationCompletedStatuses[strings.ToUpper(input.Status)] {
		campaign.Workflow.RemediationCompletedAt = now
	}
	return nil
}

// CompleteOn đóng chiến dịch. Chỉ hợp lệ từ SUBMITTED và khi phê duyệt
// cấp hai (nếu bắt buộc) đã APPROVED.
func CompleteOn(campaign *models.Campaign, input *dto.CompleteInput, now int64) error {
	if campaign.Status != models.CampaignStatusSubmitted {
		return common.NewStateConflictError(fmt.Sprintf("không thể hoàn tất chiến dịch ở trạng thái %s", campaign.Status))
	}
	if campaign.Approvals.SecondLevelRequired && campaign.Approvals.SecondDecision != models.SecondDecisionApproved {
		return common.NewStateConflictError("chiến dịch cần phê duyệt cấp hai trước khi hoàn tất")
	}

	campaign.Status = models.CampaignStatusCompleted
	campaign.Workflow.VerifiedBy = input.VerifiedBy
	campaign.Workflow.VerifiedAt = now
	return nil
}
