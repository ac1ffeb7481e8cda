// Package models - model chiến dịch rà soát quyền truy cập (AccessReviewCampaign) thuộc domain review.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái vòng đời của chiến dịch
const (
	CampaignStatusDraft     = "DRAFT"
	CampaignStatusInReview  = "IN_REVIEW"
	CampaignStatusSubmitted = "SUBMITTED"
	CampaignStatusCompleted = "COMPLETED"
)

// Loại quyết định trên từng item
const (
	DecisionTypePending  = "PENDING"
	DecisionTypeApprove  = "APPROVE"
	DecisionTypeRevoke   = "REVOKE"
	DecisionTypeModify   = "MODIFY"
	DecisionTypeEscalate = "ESCALATE"
)

// Kết quả phê duyệt cấp hai
const (
	SecondDecisionApproved = "APPROVED"
	SecondDecisionRejected = "REJECTED"
)

// Mức đặc quyền của item
const (
	PrivilegeLevelStandard   = "STANDARD"
	PrivilegeLevelElevated   = "ELEVATED"
	PrivilegeLevelAdmin      = "ADMIN"
	PrivilegeLevelSuperAdmin = "SUPER_ADMIN"
)

// Phân loại dữ liệu của item
const (
	DataClassificationPublic       = "PUBLIC"
	DataClassificationInternal     = "INTERNAL"
	DataClassificationConfidential = "CONFIDENTIAL"
	DataClassificationRestricted   = "RESTRICTED"
)

// Loại quan hệ lao động của subject
const (
	EmploymentTypeEmployee   = "EMPLOYEE"
	EmploymentTypeContractor = "CONTRACTOR"
	EmploymentTypeVendor     = "VENDOR"
	EmploymentTypeIntern     = "INTERN"
)

// Decision quyết định của reviewer cho một item.
// Mỗi item khởi tạo với decisionType PENDING.
type Decision struct {
	DecisionType     string `json:"decisionType" bson:"decisionType"`
	ReasonCode       string `json:"reasonCode,omitempty" bson:"reasonCode,omitempty"`
	Comments         string `json:"comments,omitempty" bson:"comments,omitempty"`
	EffectiveDate    int64  `json:"effectiveDate,omitempty" bson:"effectiveDate,omitempty"`
	RequestedChange  string `json:"requestedChange,omitempty" bson:"requestedChange,omitempty"`
	EvidenceProvided bool   `json:"evidenceProvided" bson:"evidenceProvided"`
	EvidenceLink     string `json:"evidenceLink,omitempty" bson:"evidenceLink,omitempty"`
}

// Item một entitlement truy cập thuộc về một subject
type Item struct {
	ItemID               string   `json:"itemId" bson:"itemId"`
	Application          string   `json:"application" bson:"application"`
	Environment          string   `json:"environment,omitempty" bson:"environment,omitempty"`
	RoleName             string   `json:"roleName" bson:"roleName"`
	EntitlementType      string   `json:"entitlementType,omitempty" bson:"entitlementType,omitempty"`
	PrivilegeLevel       string   `json:"privilegeLevel" bson:"privilegeLevel"`
	Scope                string   `json:"scope,omitempty" bson:"scope,omitempty"`
	GrantedDate          int64    `json:"grantedDate,omitempty" bson:"grantedDate,omitempty"`
	GrantedBy            string   `json:"grantedBy,omitempty" bson:"grantedBy,omitempty"`
	GrantMethod          string   `json:"grantMethod,omitempty" bson:"grantMethod,omitempty"`
	LastUsedDate         int64    `json:"lastUsedDate,omitempty" bson:"lastUsedDate,omitempty"`
	AuthMethod           string   `json:"authMethod,omitempty" bson:"authMethod,omitempty"`
	MfaEnabled           bool     `json:"mfaEnabled" bson:"mfaEnabled"`
	DataClassification   string   `json:"dataClassification,omitempty" bson:"dataClassification,omitempty"`
	RegulatedFlags       []string `json:"regulatedFlags,omitempty" bson:"regulatedFlags,omitempty"`
	IsPrivileged         bool     `json:"isPrivileged" bson:"isPrivileged"`
	SodConcern           bool     `json:"sodConcern" bson:"sodConcern"`
	CompensatingControls string   `json:"compensatingControls,omitempty" bson:"compensatingControls,omitempty"`
	Decision             Decision `json:"decision" bson:"decision"`
}

// Subject một danh tính được rà soát trong chiến dịch
type Subject struct {
	SubjectID      string `json:"subjectId" bson:"subjectId"`
	FullName       string `json:"fullName" bson:"fullName"`
	Email          string `json:"email" bson:"email"`
	EmployeeID     string `json:"employeeId,omitempty" bson:"employeeId,omitempty"`
	JobTitle       string `json:"jobTitle,omitempty" bson:"jobTitle,omitempty"`
	Department     string `json:"department,omitempty" bson:"department,omitempty"`
	ManagerName    string `json:"managerName,omitempty" bson:"managerName,omitempty"`
	ManagerEmail   string `json:"managerEmail,omitempty" bson:"managerEmail,omitempty"`
	Location       string `json:"location,omitempty" bson:"location,omitempty"`
	StartDate      int64  `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate        int64  `json:"endDate,omitempty" bson:"endDate,omitempty"`
	EmploymentType string `json:"employmentType" bson:"employmentType"`
	Status         string `json:"status,omitempty" bson:"status,omitempty"`
	Items          []Item `json:"items" bson:"items"`
}

// Approvals bản ghi chứng thực và phê duyệt cấp hai của chiến dịch
type Approvals struct {
	ReviewerName        string `json:"reviewerName,omitempty" bson:"reviewerName,omitempty"`
	ReviewerEmail       string `json:"reviewerEmail,omitempty" bson:"reviewerEmail,omitempty"`
	ReviewerAttestation bool   `json:"reviewerAttestation" bson:"reviewerAttestation"`
	ReviewerAttestedAt  int64  `json:"reviewerAttestedAt,omitempty" bson:"reviewerAttestedAt,omitempty"`
	SecondLevelRequired bool   `json:"secondLevelRequired" bson:"secondLevelRequired"`
	SecondApproverName  string `json:"secondApproverName,omitempty" bson:"secondApproverName,omitempty"`
	SecondApproverEmail string `json:"secondApproverEmail,omitempty" bson:"secondApproverEmail,omitempty"`
	SecondDecision      string `json:"secondDecision,omitempty" bson:"secondDecision,omitempty"`
	SecondDecisionNotes string `json:"secondDecisionNotes,omitempty" bson:"secondDecisionNotes,omitempty"`
	SecondDecidedAt     int64  `json:"secondDecidedAt,omitempty" bson:"secondDecidedAt,omitempty"`
}

// Workflow bản ghi vận hành: hạn chót, cảnh báo quá hạn, remediation và xác minh cuối
type Workflow struct {
	DueDate                  int64   `json:"dueDate" bson:"dueDate"`
	EscalationLevel          int     `json:"escalationLevel" bson:"escalationLevel"`
	NotificationsSentAt      []int64 `json:"notificationsSentAt,omitempty" bson:"notificationsSentAt,omitempty"`
	RemediationTicketCreated bool    `json:"remediationTicketCreated" bson:"remediationTicketCreated"`
	RemediationTicketID      string  `json:"remediationTicketId,omitempty" bson:"remediationTicketId,omitempty"`
	RemediationStatus        string  `json:"remediationStatus,omitempty" bson:"remediationStatus,omitempty"`
	RemediationCompletedAt   int64   `json:"remediationCompletedAt,omitempty" bson:"remediationCompletedAt,omitempty"`
	VerifiedBy               string  `json:"verifiedBy,omitempty" bson:"verifiedBy,omitempty"`
	VerifiedAt               int64   `json:"verifiedAt,omitempty" bson:"verifiedAt,omitempty"`
}

// Campaign aggregate root của một chiến dịch rà soát quyền truy cập.
// Version dùng cho optimistic concurrency: mọi thao tác ghi đều so sánh
// và tăng version trong cùng một lần cập nhật.
type Campaign struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                string             `json:"name" bson:"name" index:"single:1"`
	Description         string             `json:"description,omitempty" bson:"description,omitempty"`
	SystemName          string             `json:"systemName,omitempty" bson:"systemName,omitempty"`
	Environment         string             `json:"environment,omitempty" bson:"environment,omitempty"`
	BusinessUnit        string             `json:"businessUnit,omitempty" bson:"businessUnit,omitempty"`
	ReviewType          string             `json:"reviewType,omitempty" bson:"reviewType,omitempty"`
	TriggerReason       string             `json:"triggerReason,omitempty" bson:"triggerReason,omitempty"`
	PeriodStart         int64              `json:"periodStart" bson:"periodStart"`
	PeriodEnd           int64              `json:"periodEnd" bson:"periodEnd"`
	Status              string             `json:"status" bson:"status" index:"single:1"`
	Subjects            []Subject          `json:"subjects" bson:"subjects"`
	Approvals           Approvals          `json:"approvals" bson:"approvals"`
	Workflow            Workflow           `json:"workflow" bson:"workflow"`
	Version             int64              `json:"version" bson:"version"`
	DeletedAt           int64              `json:"deletedAt,omitempty" bson:"deletedAt,omitempty" index:"single:1"`
	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`
	CreatedAt           int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt           int64              `json:"updatedAt" bson:"updatedAt"`
}

// IsEditable cho biết chiến dịch còn cho phép chỉnh sửa subject/item không
func (c *Campaign) IsEditable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusInReview
}

// FindItem trả về con trỏ tới item theo itemId, nil nếu không tìm thấy
func (c *Campaign) FindItem(itemID string) *Item {
	for si := range c.Subjects {
		for ii := range c.Subjects[si].Items {
			if c.Subjects[si].Items[ii].ItemID == itemID {
				return &c.Subjects[si].Items[ii]
			}
		}
	}
	return nil
}
