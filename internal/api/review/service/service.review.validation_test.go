// Package reviewsvc - Test bộ kiểm tra quyết định và cổng kiểm tra nộp.
package reviewsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"access_governance/internal/api/review/models"
)

func TestValidateItemDecision_RevokeRequiresComments(t *testing.T) {
	item := newTestItem("i1")
	item.Decision = models.Decision{DecisionType: models.DecisionTypeRevoke}

	errs := ValidateItemDecision(&item)
	assert.Contains(t, errs, "comments required")

	item.Decision.Comments = "quyền không còn cần thiết"
	assert.Empty(t, ValidateItemDecision(&item))
}

func TestValidateItemDecision_ModifyRequiresCommentsAndChange(t *testing.T) {
	item := newTestItem("i1")
	item.Decision = models.Decision{DecisionType: models.DecisionTypeModify}

	// Gom đủ cả hai lỗi trong một lần gọi
	errs := ValidateItemDecision(&item)
	assert.Contains(t, errs, "comments required")
	assert.Contains(t, errs, "requested change required")

	item.Decision.Comments = "thu hẹp phạm vi"
	item.Decision.RequestedChange = "chuyển từ admin xuống viewer"
	assert.Empty(t, ValidateItemDecision(&item))
}

func TestValidateItemDecision_ApproveNeedsNoComments(t *testing.T) {
	item := newTestItem("i1")
	item.Decision = models.Decision{DecisionType: models.DecisionTypeApprove}
	assert.Empty(t, ValidateItemDecision(&item))
}

func TestValidateItemDecision_RestrictedRequiresEvidence(t *testing.T) {
	item := newTestItem("i1")
	item.DataClassification = models.DataClassificationRestricted

	// Lỗi bằng chứng báo với mọi decisionType, kể cả PENDING và APPROVE
	for _, dt := range []string{
		models.DecisionTypePending,
		models.DecisionTypeApprove,
		models.DecisionTypeEscalate,
	} {
		item.Decision = models.Decision{DecisionType: dt}
		assert.Contains(t, ValidateItemDecision(&item), "evidence required for RESTRICTED classification", "decisionType=%s", dt)
	}

	// evidenceProvided=true thỏa điều kiện
	item.Decision = models.Decision{DecisionType: models.DecisionTypeApprove, EvidenceProvided: true}
	assert.Empty(t, ValidateItemDecision(&item))

	// evidenceLink không rỗng cũng thỏa
	item.Decision = models.Decision{DecisionType: models.DecisionTypeApprove, EvidenceLink: "https://tickets.local/SEC-42"}
	assert.Empty(t, ValidateItemDecision(&item))
}

func TestValidateSubject_ContractorAndVendorRequireEndDate(t *testing.T) {
	subject := newTestSubject("s1", newTestItem("i1"))

	subject.EmploymentType = models.EmploymentTypeContractor
	assert.NotEmpty(t, ValidateSubject(&subject))

	subject.EmploymentType = models.EmploymentTypeVendor
	assert.NotEmpty(t, ValidateSubject(&subject))

	subject.EndDate = testPeriodEnd
	assert.Empty(t, ValidateSubject(&subject))

	// Nhân viên chính thức không cần endDate
	subject.EndDate = 0
	subject.EmploymentType = models.EmploymentTypeEmployee
	assert.Empty(t, ValidateSubject(&subject))
}

func TestValidateForSubmission_GlobalItemNumbering(t *testing.T) {
	// Subject 1 có 2 item (vị trí 1, 2), subject 2 có 1 item (vị trí 3).
	// Item 2 và 3 chưa có quyết định.
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newApprovedItem("i1"), newTestItem("i2")),
		newTestSubject("s2", newTestItem("i3")),
	)

	check := ValidateForSubmission(campaign)
	assert.False(t, check.Valid)
	assert.Equal(t, []string{
		"Item 2 is missing a decision",
		"Item 3 is missing a decision",
	}, check.Errors)
}

func TestValidateForSubmission_RestrictedEvidence(t *testing.T) {
	restricted := newApprovedItem("i2")
	restricted.DataClassification = models.DataClassificationRestricted
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newApprovedItem("i1"), restricted),
	)

	check := ValidateForSubmission(campaign)
	assert.False(t, check.Valid)
	assert.Equal(t, []string{"Item 2 requires evidence for RESTRICTED classification"}, check.Errors)
}

func TestValidateForSubmission_ValidCampaign(t *testing.T) {
	check := ValidateForSubmission(newSubmittableCampaign())
	assert.True(t, check.Valid)
	assert.Empty(t, check.Errors)
	assert.False(t, check.HasPrivilegedItems)
}

func TestValidateForSubmission_SurfacesPrivilegedItems(t *testing.T) {
	admin := newApprovedItem("i2")
	admin.PrivilegeLevel = models.PrivilegeLevelAdmin
	campaign := newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newApprovedItem("i1"), admin),
	)

	check := ValidateForSubmission(campaign)
	// Item đặc quyền không chặn nộp, chỉ được báo ra cho caller
	assert.True(t, check.Valid)
	assert.True(t, check.HasPrivilegedItems)
}

func TestRequiresSecondLevel(t *testing.T) {
	campaign := newSubmittableCampaign()
	assert.False(t, RequiresSecondLevel(campaign))

	// Cờ isPrivileged không tự kích hoạt phê duyệt cấp hai
	campaign.Subjects[0].Items[0].IsPrivileged = true
	assert.False(t, RequiresSecondLevel(campaign))

	campaign.Subjects[1].Items[0].PrivilegeLevel = models.PrivilegeLevelSuperAdmin
	assert.True(t, RequiresSecondLevel(campaign))
}
