// Package reviewsvc - Test logic nâng mức cảnh báo chiến dịch quá hạn.
package reviewsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"access_governance/internal/api/review/models"
)

func TestShouldEscalate(t *testing.T) {
	renotify := 24 * time.Hour
	overdueNow := testDueDate + time.Hour.Milliseconds()

	campaign := newSubmittableCampaign()
	campaign.Status = models.CampaignStatusSubmitted

	// Quá hạn, chưa có thông báo nào
	assert.True(t, ShouldEscalate(campaign, overdueNow, renotify))

	// Chưa tới hạn
	assert.False(t, ShouldEscalate(campaign, testDueDate-1, renotify))

	// Chiến dịch đã đóng không nâng nữa
	campaign.Status = models.CampaignStatusCompleted
	assert.False(t, ShouldEscalate(campaign, overdueNow, renotify))
	campaign.Status = models.CampaignStatusSubmitted

	// Vừa thông báo xong thì chờ đủ renotifyInterval
	EscalateOn(campaign, overdueNow)
	assert.False(t, ShouldEscalate(campaign, overdueNow+time.Hour.Milliseconds(), renotify))
	assert.True(t, ShouldEscalate(campaign, overdueNow+25*time.Hour.Milliseconds(), renotify))

	// Không có dueDate thì không bao giờ nâng
	campaign.Workflow.DueDate = 0
	assert.False(t, ShouldEscalate(campaign, overdueNow, renotify))
}

func TestEscalateOn(t *testing.T) {
	campaign := newSubmittableCampaign()
	assert.Zero(t, campaign.Workflow.EscalationLevel)

	EscalateOn(campaign, testNow)
	EscalateOn(campaign, testNow+1)

	assert.Equal(t, 2, campaign.Workflow.EscalationLevel)
	assert.Equal(t, []int64{testNow, testNow + 1}, campaign.Workflow.NotificationsSentAt)
}
