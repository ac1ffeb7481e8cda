// Package dto - cấu trúc dữ liệu đầu vào cho các API chiến dịch rà soát
package dto

import "access_governance/internal/api/review/models"

// CampaignCreateInput đầu vào tạo chiến dịch mới
type CampaignCreateInput struct {
	Name          string           `json:"name" validate:"required,no_xss"`
	Description   string           `json:"description,omitempty" validate:"omitempty,no_xss"`
	SystemName    string           `json:"systemName,omitempty" validate:"omitempty,no_xss"`
	Environment   string           `json:"environment,omitempty" validate:"omitempty,no_xss"`
	BusinessUnit  string           `json:"businessUnit,omitempty" validate:"omitempty,no_xss"`
	ReviewType    string           `json:"reviewType,omitempty" validate:"omitempty,no_xss"`
	TriggerReason string           `json:"triggerReason,omitempty" validate:"omitempty,no_xss"`
	PeriodStart   int64            `json:"periodStart" validate:"required"`
	PeriodEnd     int64            `json:"periodEnd" validate:"required"`
	DueDate       int64            `json:"dueDate" validate:"required"`
	Subjects      []models.Subject `json:"subjects" validate:"required,min=1"`
}

// CampaignUpdateInput đầu vào chỉnh sửa chiến dịch (chỉ khi DRAFT/IN_REVIEW)
type CampaignUpdateInput struct {
	Name          string           `json:"name,omitempty" validate:"omitempty,no_xss"`
	Description   string           `json:"description,omitempty" validate:"omitempty,no_xss"`
	SystemName    string           `json:"systemName,omitempty" validate:"omitempty,no_xss"`
	Environment   string           `json:"environment,omitempty" validate:"omitempty,no_xss"`
	BusinessUnit  string           `json:"businessUnit,omitempty" validate:"omitempty,no_xss"`
	ReviewType    string           `json:"reviewType,omitempty" validate:"omitempty,no_xss"`
	TriggerReason string           `json:"triggerReason,omitempty" validate:"omitempty,no_xss"`
	PeriodStart   int64            `json:"periodStart,omitempty"`
	PeriodEnd     int64            `json:"periodEnd,omitempty"`
	DueDate       int64            `json:"dueDate,omitempty"`
	Subjects      []models.Subject `json:"subjects,omitempty"`
}

// ItemDecisionInput đầu vào ghi quyết định cho một item
type ItemDecisionInput struct {
	ItemID           string `json:"itemId" validate:"required"`
	DecisionType     string `json:"decisionType" validate:"required,oneof=PENDING APPROVE REVOKE MODIFY ESCALATE"`
	ReasonCode       string `json:"reasonCode,omitempty" validate:"omitempty,no_xss"`
	Comments         string `json:"comments,omitempty" validate:"omitempty,no_xss"`
	EffectiveDate    int64  `json:"effectiveDate,omitempty"`
	RequestedChange  string `json:"requestedChange,omitempty" validate:"omitempty,no_xss"`
	EvidenceProvided bool   `json:"evidenceProvided,omitempty"`
	EvidenceLink     string `json:"evidenceLink,omitempty" validate:"omitempty,no_xss"`
}

// SubmitInput đầu vào nộp chiến dịch
type SubmitInput struct {
	ReviewerName        string `json:"reviewerName" validate:"required,no_xss"`
	ReviewerEmail       string `json:"reviewerEmail" validate:"required,email"`
	ReviewerAttestation bool   `json:"reviewerAttestation"`
}

// ApprovalInput đầu vào ghi kết quả phê duyệt cấp hai
type ApprovalInput struct {
	Decision      string `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	ApproverName  string `json:"approverName" validate:"required,no_xss"`
	ApproverEmail string `json:"approverEmail" validate:"required,email"`
	Notes         string `json:"notes,omitempty" validate:"omitempty,no_xss"`
}

// BulkFilter điều kiện lọc item cho bulk decision, so khớp chính xác,
// các trường không rỗng được AND với nhau
type BulkFilter struct {
	PrivilegeLevel     string `json:"privilegeLevel,omitempty"`
	EntitlementType    string `json:"entitlementType,omitempty"`
	DataClassification string `json:"dataClassification,omitempty"`
}

// BulkDecisionPayload phần quyết định được áp hàng loạt.
// Chỉ ba trường này được merge vào decision của item.
type BulkDecisionPayload struct {
	DecisionType string `json:"decisionType" validate:"required,oneof=APPROVE REVOKE MODIFY ESCALATE"`
	ReasonCode   string `json:"reasonCode,omitempty" validate:"omitempty,no_xss"`
	Comments     string `json:"comments,omitempty" validate:"omitempty,no_xss"`
}

// BulkDecisionInput đầu vào áp quyết định hàng loạt
type BulkDecisionInput struct {
	TargetType   string              `json:"targetType" validate:"required,oneof=ALL FILTERED SELECTED"`
	ItemIDs      []string            `json:"itemIds,omitempty"`
	Filter       *BulkFilter         `json:"filter,omitempty"`
	Decision     BulkDecisionPayload `json:"decision" validate:"required"`
	SkipHighRisk bool                `json:"skipHighRisk,omitempty"`
}

// RemediationInput đầu vào cập nhật trạng thái remediation
type RemediationInput struct {
	TicketID string `json:"ticketId" validate:"required,no_xss"`
	Status   string `json:"status" validate:"required,no_xss"`
	Notes    string `json:"notes,omitempty" validate:"omitempty,no_xss"`
}

// CompleteInput đầu vào đóng chiến dịch
type CompleteInput struct {
	VerifiedBy string `json:"verifiedBy" validate:"required,no_xss"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,no_xss"`
}
