// Package reviewsvc - Test máy trạng thái vòng đời chiến dịch.
package reviewsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
)

func validSubmitInput() *dto.SubmitInput {
	return &dto.SubmitInput{
		ReviewerName:        "Trần Thị B",
		ReviewerEmail:       "b@example.com",
		ReviewerAttestation: true,
	}
}

func TestApplyItemDecision_EditableStates(t *testing.T) {
	for _, status := range []string{models.CampaignStatusDraft, models.CampaignStatusInReview} {
		campaign := newTestCampaign(status, newTestSubject("s1", newTestItem("i1")))
		err := ApplyItemDecision(campaign, &dto.ItemDecisionInput{
			ItemID:       "i1",
			DecisionType: models.DecisionTypeApprove,
		}, testNow)
		require.NoError(t, err, "status=%s", status)
		assert.Equal(t, models.DecisionTypeApprove, campaign.Subjects[0].Items[0].Decision.DecisionType)
		assert.Equal(t, testNow, campaign.Subjects[0].Items[0].Decision.EffectiveDate)
	}
}

func TestApplyItemDecision_RejectedAfterSubmit(t *testing.T) {
	for _, status := range []string{models.CampaignStatusSubmitted, models.CampaignStatusCompleted} {
		campaign := newTestCampaign(status, newTestSubject("s1", newTestItem("i1")))
		err := ApplyItemDecision(campaign, &dto.ItemDecisionInput{
			ItemID:       "i1",
			DecisionType: models.DecisionTypeApprove,
		}, testNow)
		assert.True(t, common.IsStateConflict(err), "status=%s", status)
	}
}

func TestApplyItemDecision_InvalidDecisionRejected(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusDraft, newTestSubject("s1", newTestItem("i1")))
	err := ApplyItemDecision(campaign, &dto.ItemDecisionInput{
		ItemID:       "i1",
		DecisionType: models.DecisionTypeRevoke, // thiếu comments
	}, testNow)
	require.Error(t, err)
	// Quyết định không hợp lệ không được ghi lên item
	assert.Equal(t, models.DecisionTypePending, campaign.Subjects[0].Items[0].Decision.DecisionType)
}

func TestApplyItemDecision_UnknownItem(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusDraft, newTestSubject("s1", newTestItem("i1")))
	err := ApplyItemDecision(campaign, &dto.ItemDecisionInput{
		ItemID:       "missing",
		DecisionType: models.DecisionTypeApprove,
	}, testNow)
	assert.Error(t, err)
}

func TestSubmitCampaign_HappyPath(t *testing.T) {
	campaign := newSubmittableCampaign()
	err := SubmitCampaign(campaign, validSubmitInput(), testNow)
	require.NoError(t, err)

	assert.Equal(t, models.CampaignStatusSubmitted, campaign.Status)
	assert.Equal(t, "Trần Thị B", campaign.Approvals.ReviewerName)
	assert.Equal(t, "b@example.com", campaign.Approvals.ReviewerEmail)
	assert.True(t, campaign.Approvals.ReviewerAttestation)
	assert.Equal(t, testNow, campaign.Approvals.ReviewerAttestedAt)
	assert.False(t, campaign.Approvals.SecondLevelRequired)
}

func TestSubmitCampaign_PrivilegedItemsFlagSecondLevel(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Subjects[0].Items[0].PrivilegeLevel = models.PrivilegeLevelAdmin

	require.NoError(t, SubmitCampaign(campaign, validSubmitInput(), testNow))
	assert.True(t, campaign.Approvals.SecondLevelRequired)
}

func TestSubmitCampaign_WithoutAttestation(t *testing.T) {
	campaign := newSubmittableCampaign()
	input := validSubmitInput()
	input.ReviewerAttestation = false

	err := SubmitCampaign(campaign, input, testNow)
	assert.True(t, common.IsStateConflict(err))
	assert.Equal(t, models.CampaignStatusInReview, campaign.Status)
}

func TestSubmitCampaign_GateBlocksPendingItems(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newApprovedItem("i1"), newTestItem("i2")),
	)
	err := SubmitCampaign(campaign, validSubmitInput(), testNow)
	require.Error(t, err)
	assert.Equal(t, models.CampaignStatusInReview, campaign.Status)
}

func TestSubmitCampaign_AlreadySubmitted(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted
	err := SubmitCampaign(campaign, validSubmitInput(), testNow)
	assert.True(t, common.IsStateConflict(err))
}

func approvalInput(decision string) *dto.ApprovalInput {
	return &dto.ApprovalInput{
		Decision:      decision,
		ApproverName:  "Lê Văn C",
		ApproverEmail: "c@example.com",
		Notes:         "đã đối chiếu danh sách admin",
	}
}

func TestRecordApprovalOn_Approved(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted
	campaign.Approvals.SecondLevelRequired = true

	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionApproved), testNow))
	assert.Equal(t, models.SecondDecisionApproved, campaign.Approvals.SecondDecision)
	assert.Equal(t, "Lê Văn C", campaign.Approvals.SecondApproverName)
	assert.Equal(t, testNow, campaign.Approvals.SecondDecidedAt)
	// APPROVED giữ nguyên trạng thái SUBMITTED
	assert.Equal(t, models.CampaignStatusSubmitted, campaign.Status)
}

func TestRecordApprovalOn_RejectedRevertsToInReview(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted

	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionRejected), testNow))
	assert.Equal(t, models.CampaignStatusInReview, campaign.Status)
	assert.Equal(t, models.SecondDecisionRejected, campaign.Approvals.SecondDecision)
}

func TestRecordApprovalOn_OnlyInSubmitted(t *testing.T) {
	for _, status := range []string{models.CampaignStatusDraft, models.CampaignStatusInReview, models.CampaignStatusCompleted} {
		campaign := newSubmittableCampaign()
		campaign.Status = status
		err := RecordApprovalOn(campaign, approvalInput(models.SecondDecisionApproved), testNow)
		assert.True(t, common.IsStateConflict(err), "status=%s", status)
	}
}

func TestRecordApprovalOn_SecondCallRejected(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted
	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionApproved), testNow))

	// Gọi lần hai không được ghi đè kết quả đã có
	err := RecordApprovalOn(campaign, approvalInput(models.SecondDecisionRejected), testNow)
	assert.True(t, common.IsStateConflict(err))
	assert.Equal(t, models.SecondDecisionApproved, campaign.Approvals.SecondDecision)
}

func TestResubmitAfterRejectionOpensNewApprovalRound(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Subjects[0].Items[0].PrivilegeLevel = models.PrivilegeLevelAdmin

	require.NoError(t, SubmitCampaign(campaign, validSubmitInput(), testNow))
	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionRejected), testNow))
	require.Equal(t, models.CampaignStatusInReview, campaign.Status)

	// Nộp lại xóa kết quả vòng trước, cho phép phê duyệt mới
	require.NoError(t, SubmitCampaign(campaign, validSubmitInput(), testNow+1))
	assert.Empty(t, campaign.Approvals.SecondDecision)
	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionApproved), testNow+2))
	require.NoError(t, CompleteOn(campaign, &dto.CompleteInput{VerifiedBy: "audit@example.com"}, testNow+3))
	assert.Equal(t, models.CampaignStatusCompleted, campaign.Status)
}

func TestRecordRemediationOn(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted

	input := &dto.RemediationInput{TicketID: "REM-100", Status: "IN_PROGRESS"}
	require.NoError(t, RecordRemediationOn(campaign, input, testNow))
	assert.True(t, campaign.Workflow.RemediationTicketCreated)
	assert.Equal(t, "REM-100", campaign.Workflow.RemediationTicketID)
	assert.Equal(t, "IN_PROGRESS", campaign.Workflow.RemediationStatus)
	assert.Zero(t, campaign.Workflow.RemediationCompletedAt)

	// Trạng thái hoàn tất ghi nhận thời điểm xong
	input = &dto.RemediationInput{TicketID: "REM-100", Status: "resolved"}
	require.NoError(t, RecordRemediationOn(campaign, input, testNow+1))
	assert.Equal(t, testNow+1, campaign.Workflow.RemediationCompletedAt)
}

func TestRecordRemediationOn_OnlyInSubmitted(t *testing.T) {
	campaign := newSubmittableCampaign()
	err := RecordRemediationOn(campaign, &dto.RemediationInput{TicketID: "REM-1", Status: "OPEN"}, testNow)
	assert.True(t, common.IsStateConflict(err))
}

func TestCompleteOn_HappyPath(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted

	require.NoError(t, CompleteOn(campaign, &dto.CompleteInput{VerifiedBy: "audit@example.com"}, testNow))
	assert.Equal(t, models.CampaignStatusCompleted, campaign.Status)
	assert.Equal(t, "audit@example.com", campaign.Workflow.VerifiedBy)
	assert.Equal(t, testNow, campaign.Workflow.VerifiedAt)
}

func TestCompleteOn_SecondLevelPendingBlocks(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted
	campaign.Approvals.SecondLevelRequired = true

	// Chưa có secondDecision thì không thể hoàn tất
	err := CompleteOn(campaign, &dto.CompleteInput{VerifiedBy: "audit@example.com"}, testNow)
	assert.True(t, common.IsStateConflict(err))
	assert.Equal(t, models.CampaignStatusSubmitted, campaign.Status)

	// Sau khi APPROVED thì hoàn tất được
	require.NoError(t, RecordApprovalOn(campaign, approvalInput(models.SecondDecisionApproved), testNow))
	require.NoError(t, CompleteOn(campaign, &dto.CompleteInput{VerifiedBy: "audit@example.com"}, testNow))
	assert.Equal(t, models.CampaignStatusCompleted, campaign.Status)
	assert.NotZero(t, campaign.Workflow.VerifiedAt)
}

func TestCompleteOn_OnlyFromSubmitted(t *testing.T) {
	for _, status := range []string{models.CampaignStatusDraft, models.CampaignStatusInReview, models.CampaignStatusCompleted} {
		campaign := newSubmittableCampaign()
		campaign.Status = status
		err := CompleteOn(campaign, &dto.CompleteInput{VerifiedBy: "audit@example.com"}, testNow)
		assert.True(t, common.IsStateConflict(err), "status=%s", status)
	}
}
