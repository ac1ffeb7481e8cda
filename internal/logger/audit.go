package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// AuditAction mô tả một hành động audit ghi ra file audit log.
// Đây là bản mirror của audit record trong collection audit_logs —
// file log dùng cho vận hành/forensics, collection dùng cho trang audit của portal.
type AuditAction struct {
	Action     string                 `json:"action"`      // Tên hành động (ví dụ: "campaign_submit")
	ActorEmail string                 `json:"actor_email"` // Email người thực hiện
	TargetType string                 `json:"target_type"` // Loại đối tượng (ví dụ: "AccessReviewCampaign")
	TargetID   string                 `json:"target_id"`   // ID đối tượng bị ảnh hưởng
	IP         string                 `json:"ip"`          // IP address
	UserAgent  string                 `json:"user_agent"`  // User agent
	Details    map[string]interface{} `json:"details"`     // Chi tiết bổ sung
	Timestamp  time.Time              `json:"timestamp"`   // Thời gian
}

// LogAction ghi một hành động audit ra audit logger
func LogAction(action string, c fiber.Ctx, targetType, targetID string, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}

	audit := AuditAction{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		Timestamp:  time.Now(),
	}

	if c != nil {
		audit.IP = c.IP()
		audit.UserAgent = c.Get("User-Agent")
		if email, ok := c.Locals("user_email").(string); ok {
			audit.ActorEmail = email
		}
		if requestID := c.Get("X-Request-ID"); requestID != "" {
			audit.Details["request_id"] = requestID
		}
		if orgID, ok := c.Locals("organization_id").(string); ok {
			audit.Details["organization_id"] = orgID
		}
	}

	GetAuditLogger().WithFields(logrus.Fields{
		"action":      audit.Action,
		"actor_email": audit.ActorEmail,
		"target_type": audit.TargetType,
		"target_id":   audit.TargetID,
		"ip":          audit.IP,
		"user_agent":  audit.UserAgent,
		"details":     audit.Details,
		"timestamp":   audit.Timestamp,
	}).Info("Audit log")
}

// LogCampaignAction ghi audit cho các thao tác trên access review campaign
func LogCampaignAction(action string, c fiber.Ctx, campaignID string, details map[string]interface{}) {
	LogAction(action, c, "AccessReviewCampaign", campaignID, details)
}

// LogAuth ghi audit cho các thao tác authentication
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	LogAction("auth_"+action, c, "User", "", details)
}
