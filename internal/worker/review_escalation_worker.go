// Package worker - các background worker chạy định kỳ của hệ thống.
package worker

import (
	"context"
	"time"

	reviewsvc "access_governance/internal/api/review/service"
	"access_governance/internal/logger"
)

// overdueEscalator nâng mức cảnh báo cho các chiến dịch quá hạn
type overdueEscalator interface {
	EscalateOverdue(ctx context.Context, now int64, renotifyInterval time.Duration) (int, error)
}

// ReviewEscalationWorker worker nâng mức cảnh báo cho các chiến dịch rà soát
// quá hạn dueDate mà chưa đóng. Mỗi lần nâng ghi thêm một mốc thông báo.
type ReviewEscalationWorker struct {
	escalator        overdueEscalator
	interval         time.Duration // Khoảng thời gian giữa các lần quét
	renotifyInterval time.Duration // Khoảng cách tối thiểu giữa hai lần nâng trên cùng chiến dịch

	// now được tách ra để test có thể cố định thời gian
	now func() time.Time
}

// NewReviewEscalationWorker tạo mới ReviewEscalationWorker
// Tham số:
//   - interval: Khoảng thời gian giữa các lần quét (mặc định: 15 phút)
//   - renotifyInterval: Khoảng cách tối thiểu giữa hai lần nâng (mặc định: 24 giờ)
func NewReviewEscalationWorker(interval time.Duration, renotifyInterval time.Duration) (*ReviewEscalationWorker, error) {
	campaignService, err := reviewsvc.NewCampaignService()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = 15 * time.Minute
	}
	if renotifyInterval < time.Hour {
		renotifyInterval = 24 * time.Hour
	}

	return &ReviewEscalationWorker{
		escalator:        campaignService,
		interval:         interval,
		renotifyInterval: renotifyInterval,
		now:              time.Now,
	}, nil
}

// Start bắt đầu worker, dừng khi context bị hủy
func (w *ReviewEscalationWorker) Start(ctx context.Context) {
	log := logger.GetWorkerLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":         w.interval.String(),
		"renotifyInterval": w.renotifyInterval.String(),
	}).Info("⏰ [REVIEW_ESCALATION] Starting Review Escalation Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("⏰ [REVIEW_ESCALATION] Review Escalation Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// runOnce quét một lượt các chiến dịch quá hạn tại thời điểm của đồng hồ worker
func (w *ReviewEscalationWorker) runOnce(ctx context.Context) {
	log := logger.GetWorkerLogger()

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(map[string]interface{}{
				"panic": r,
			}).Error("⏰ [REVIEW_ESCALATION] Panic khi quét chiến dịch quá hạn, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	escalated, err := w.escalator.EscalateOverdue(ctx, w.now().UnixMilli(), w.renotifyInterval)
	if err != nil {
		log.WithError(err).Error("⏰ [REVIEW_ESCALATION] Failed to escalate overdue campaigns")
		return
	}

	if escalated > 0 {
		log.WithFields(map[string]interface{}{
			"escalated": escalated,
		}).Info("⏰ [REVIEW_ESCALATION] Escalated overdue campaigns")
	}
}
