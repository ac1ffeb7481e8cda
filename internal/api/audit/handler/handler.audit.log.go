package audithdl

import (
	"fmt"

	models "access_governance/internal/api/audit/models"
	auditsvc "access_governance/internal/api/audit/service"
	basehdl "access_governance/internal/api/base/handler"
)

// AuditLogHandler xử lý các request tra cứu audit log.
// Audit log chỉ đọc qua API, việc ghi do các service nghiệp vụ thực hiện.
type AuditLogHandler struct {
	*basehdl.BaseHandler[models.AuditLog, models.AuditLog, models.AuditLog]
}

// NewAuditLogHandler tạo instance mới của AuditLogHandler
func NewAuditLogHandler() (*AuditLogHandler, error) {
	auditLogService, err := auditsvc.NewAuditLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create audit log service: %v", err)
	}
	return &AuditLogHandler{
		BaseHandler: basehdl.NewBaseHandler[models.AuditLog, models.AuditLog, models.AuditLog](auditLogService),
	}, nil
}
