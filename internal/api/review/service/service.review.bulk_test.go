// Package reviewsvc - Test bộ xử lý quyết định hàng loạt.
package reviewsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access_governance/internal/api/review/dto"
	"access_governance/internal/api/review/models"
	"access_governance/internal/common"
)

func TestApplyBulkDecision_AllApprove(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newTestItem("i1"), newTestItem("i2")),
		newTestSubject("s2", newTestItem("i3")),
	)

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetAll,
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove, ReasonCode: "QUARTERLY_OK"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalProcessed)
	assert.Equal(t, 3, report.Successful)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	for _, subject := range campaign.Subjects {
		for _, item := range subject.Items {
			assert.Equal(t, models.DecisionTypeApprove, item.Decision.DecisionType)
			assert.Equal(t, "QUARTERLY_OK", item.Decision.ReasonCode)
		}
	}
}

func TestApplyBulkDecision_FilteredAdminSkipHighRisk(t *testing.T) {
	admin1 := newTestItem("i1")
	admin1.PrivilegeLevel = models.PrivilegeLevelAdmin
	admin2 := newTestItem("i2")
	admin2.PrivilegeLevel = models.PrivilegeLevelAdmin
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", admin1, admin2, newTestItem("i3")),
	)

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType:   BulkTargetFiltered,
		Filter:       &dto.BulkFilter{PrivilegeLevel: models.PrivilegeLevelAdmin},
		Decision:     dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove},
		SkipHighRisk: true,
	})
	require.NoError(t, err)

	// Mọi item ADMIN bị bỏ qua, item thường không thuộc filter
	assert.Equal(t, 2, report.TotalProcessed)
	assert.Zero(t, report.Successful)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, report.SkippedItems, 2)
	for _, skipped := range report.SkippedItems {
		assert.Equal(t, "high risk, manual review required", skipped.Reason)
	}
	assert.Equal(t, models.DecisionTypePending, campaign.Subjects[0].Items[0].Decision.DecisionType)
}

func TestApplyBulkDecision_SkipHighRiskIncludesPrivilegedFlag(t *testing.T) {
	flagged := newTestItem("i1")
	flagged.IsPrivileged = true
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", flagged, newTestItem("i2")),
	)

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType:   BulkTargetAll,
		Decision:     dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove},
		SkipHighRisk: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalProcessed)
	assert.Equal(t, 1, report.Successful)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, "i1", report.SkippedItems[0].ItemID)
}

func TestApplyBulkDecision_RevokeWithoutCommentsFailsAll(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newTestItem("i1"), newTestItem("i2")),
	)

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetAll,
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeRevoke, Comments: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, report.TotalProcessed, report.Failed)
	assert.Zero(t, report.Successful)
	for _, skipped := range report.SkippedItems {
		assert.Contains(t, skipped.Reason, "comments required")
	}
	// Item thất bại giữ nguyên quyết định cũ
	assert.Equal(t, models.DecisionTypePending, campaign.Subjects[0].Items[0].Decision.DecisionType)
}

func TestApplyBulkDecision_SelectedTargets(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newTestItem("i1"), newTestItem("i2"), newTestItem("i3")),
	)

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetSelected,
		ItemIDs:    []string{"i1", "i3"},
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalProcessed)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, models.DecisionTypeApprove, campaign.Subjects[0].Items[0].Decision.DecisionType)
	assert.Equal(t, models.DecisionTypePending, campaign.Subjects[0].Items[1].Decision.DecisionType)
	assert.Equal(t, models.DecisionTypeApprove, campaign.Subjects[0].Items[2].Decision.DecisionType)
}

func TestApplyBulkDecision_MergeLeavesItemFieldsUntouched(t *testing.T) {
	item := newTestItem("i1")
	item.DataClassification = models.DataClassificationRestricted
	item.Decision = models.Decision{
		DecisionType:     models.DecisionTypePending,
		EvidenceProvided: true,
		EvidenceLink:     "https://tickets.local/SEC-7",
		RequestedChange:  "giữ nguyên đề xuất cũ",
		EffectiveDate:    testNow,
	}
	campaign := newTestCampaign(models.CampaignStatusInReview, newTestSubject("s1", item))

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetAll,
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove, Comments: "đồng ý hàng loạt"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Successful)

	got := campaign.Subjects[0].Items[0].Decision
	assert.Equal(t, models.DecisionTypeApprove, got.DecisionType)
	assert.Equal(t, "đồng ý hàng loạt", got.Comments)
	// Các trường theo item không bị merge chạm vào
	assert.True(t, got.EvidenceProvided)
	assert.Equal(t, "https://tickets.local/SEC-7", got.EvidenceLink)
	assert.Equal(t, "giữ nguyên đề xuất cũ", got.RequestedChange)
	assert.Equal(t, testNow, got.EffectiveDate)
}

func TestApplyBulkDecision_RejectedWhenNotEditable(t *testing.T) {
	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted

	_, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetAll,
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove},
	})
	assert.True(t, common.IsStateConflict(err))
}

func TestApplyBulkDecision_EmptySelection(t *testing.T) {
	campaign := newTestCampaign(models.CampaignStatusDraft, newTestSubject("s1", newTestItem("i1")))

	report, err := ApplyBulkDecision(campaign, &dto.BulkDecisionInput{
		TargetType: BulkTargetSelected,
		ItemIDs:    []string{"unknown"},
		Decision:   dto.BulkDecisionPayload{DecisionType: models.DecisionTypeApprove},
	})
	require.NoError(t, err)
	assert.Zero(t, report.TotalProcessed)
	assert.Empty(t, report.SkippedItems)
}
