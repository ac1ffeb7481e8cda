package reviewsvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"access_governance/internal/api/review/models"
)

// Các chiến dịch chưa đóng quá hạn dueDate được nâng dần escalationLevel
// kèm một mốc thông báo mới, mỗi lần cách nhau tối thiểu renotifyInterval.

// ShouldEscalate cho biết chiến dịch có đến lượt nâng mức cảnh báo không
func ShouldEscalate(campaign *models.Campaign, now int64, renotifyInterval time.Duration) bool {
	if campaign.Status == models.CampaignStatusCompleted {
		return false
	}
	if campaign.Workflow.DueDate == 0 || now <= campaign.Workflow.DueDate {
		return false
	}
	if n := len(campaign.Workflow.NotificationsSentAt); n > 0 {
		last := campaign.Workflow.NotificationsSentAt[n-1]
		if now-last < renotifyInterval.Milliseconds() {
			return false
		}
	}
	return true
}

// EscalateOn nâng mức cảnh báo và ghi mốc thông báo lên bản campaign trong bộ nhớ
func EscalateOn(campaign *models.Campaign, now int64) {
	campaign.Workflow.EscalationLevel++
	campaign.Workflow.NotificationsSentAt = append(campaign.Workflow.NotificationsSentAt, now)
}

// EscalateOverdue quét các chiến dịch quá hạn và nâng mức cảnh báo từng cái.
// Trả về số chiến dịch đã được nâng trong lần quét này.
func (s *CampaignService) EscalateOverdue(ctx context.Context, now int64, renotifyInterval time.Duration) (int, error) {
	overdue, err := s.Find(ctx, bson.M{
		"status":           bson.M{"$in": []string{models.CampaignStatusDraft, models.CampaignStatusInReview, models.CampaignStatusSubmitted}},
		"workflow.dueDate": bson.M{"$gt": 0, "$lt": now},
	}, nil)
	if err != nil {
		return 0, err
	}

	escalated := 0
	for _, campaign := range overdue {
		if !ShouldEscalate(&campaign, now, renotifyInterval) {
			continue
		}
		_, err := s.UpdateWithMutator(ctx, campaign.ID, func(c *models.Campaign) error {
			if !ShouldEscalate(c, now, renotifyInterval) {
				return nil
			}
			EscalateOn(c, now)
			return nil
		})
		if err != nil {
			return escalated, err
		}
		escalated++
	}
	return escalated, nil
}
