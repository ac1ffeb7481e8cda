// Package router đăng ký các route thuộc domain audit.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	audithdl "access_governance/internal/api/audit/handler"
	apirouter "access_governance/internal/api/router"
)

// Register đăng ký các route audit lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	auditLogHandler, err := audithdl.NewAuditLogHandler()
	if err != nil {
		return fmt.Errorf("failed to create audit log handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/audit-log", auditLogHandler, apirouter.ReadOnlyConfig, "AuditLog")
	return nil
}
