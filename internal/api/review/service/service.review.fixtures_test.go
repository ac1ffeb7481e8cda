package reviewsvc

import (
	"access_governance/internal/api/review/models"
)

// Helper dựng dữ liệu chiến dịch cho test. Mốc thời gian dùng mili giây.

const (
	testPeriodStart = int64(1735689600000) // 2025-01-01
	testPeriodEnd   = int64(1743465600000) // 2025-04-01
	testDueDate     = int64(1740787200000) // 2025-03-01
	testNow         = int64(1741000000000)
)

func newTestItem(id string) models.Item {
	return models.Item{
		ItemID:         id,
		Application:    "CoreBanking",
		RoleName:       "viewer",
		PrivilegeLevel: models.PrivilegeLevelStandard,
		Decision:       models.Decision{DecisionType: models.DecisionTypePending},
	}
}

func newApprovedItem(id string) models.Item {
	item := newTestItem(id)
	item.Decision = models.Decision{DecisionType: models.DecisionTypeApprove}
	return item
}

func newTestSubject(id string, items ...models.Item) models.Subject {
	return models.Subject{
		SubjectID:      id,
		FullName:       "Nguyễn Văn A",
		Email:          id + "@example.com",
		EmploymentType: models.EmploymentTypeEmployee,
		Items:          items,
	}
}

func newTestCampaign(status string, subjects ...models.Subject) *models.Campaign {
	return &models.Campaign{
		Name:        "Rà soát quý 1",
		PeriodStart: testPeriodStart,
		PeriodEnd:   testPeriodEnd,
		Status:      status,
		Subjects:    subjects,
		Workflow:    models.Workflow{DueDate: testDueDate},
	}
}

// newSubmittableCampaign chiến dịch IN_REVIEW mà mọi item đã có quyết định hợp lệ
func newSubmittableCampaign() *models.Campaign {
	return newTestCampaign(models.CampaignStatusInReview,
		newTestSubject("s1", newApprovedItem("i1"), newApprovedItem("i2")),
		newTestSubject("s2", newApprovedItem("i3")),
	)
}
