// Package router đăng ký các route thuộc domain review.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"access_governance/internal/api/middleware"
	reviewhdl "access_governance/internal/api/review/handler"
	apirouter "access_governance/internal/api/router"
)

// Register đăng ký các route chiến dịch rà soát lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	campaignHandler, err := reviewhdl.NewReviewCampaignHandler()
	if err != nil {
		return fmt.Errorf("failed to create review campaign handler: %w", err)
	}

	orgContext := middleware.OrganizationContextMiddleware()
	withPermission := func(permission string) []fiber.Handler {
		return []fiber.Handler{middleware.AuthMiddleware(permission), orgContext}
	}

	prefix := "/review-campaign"
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "PUT", "/:id/decision", withPermission("ReviewCampaign.Decide"), campaignHandler.HandleItemDecision)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/bulk-decision", withPermission("ReviewCampaign.BulkDecision"), campaignHandler.HandleBulkDecision)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "GET", "/:id/submission-check", withPermission("ReviewCampaign.Read"), campaignHandler.HandleSubmissionCheck)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/submit", withPermission("ReviewCampaign.Submit"), campaignHandler.HandleSubmit)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/approve", withPermission("ReviewCampaign.Approve"), campaignHandler.HandleApprove)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/remediation", withPermission("ReviewCampaign.Remediate"), campaignHandler.HandleRemediation)
	apirouter.RegisterRouteWithMiddleware(v1, prefix, "POST", "/:id/complete", withPermission("ReviewCampaign.Complete"), campaignHandler.HandleComplete)

	r.RegisterCRUDRoutes(v1, prefix, campaignHandler, apirouter.ReadWriteConfig, "ReviewCampaign")
	return nil
}
