// Package models - model yêu cầu truy cập (AccessRequest) thuộc domain request.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của yêu cầu truy cập
const (
	AccessRequestStatusPending  = "PENDING"
	AccessRequestStatusApproved = "APPROVED"
	AccessRequestStatusRejected = "REJECTED"
)

// AccessRequest yêu cầu cấp quyền truy cập vào một entitlement.
// Yêu cầu được duyệt sẽ sinh ra entitlement mới cho subject,
// entitlement này sẽ xuất hiện trong các chiến dịch rà soát kế tiếp.
type AccessRequest struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SubjectID           string             `json:"subjectId" bson:"subjectId" index:"single:1"`
	SubjectDisplayName  string             `json:"subjectDisplayName" bson:"subjectDisplayName"`
	EntitlementID       string             `json:"entitlementId" bson:"entitlementId" index:"single:1"`
	EntitlementName     string             `json:"entitlementName" bson:"entitlementName"`
	Justification       string             `json:"justification" bson:"justification"`
	Status              string             `json:"status" bson:"status" index:"single:1"`
	DeciderID           primitive.ObjectID `json:"deciderId,omitempty" bson:"deciderId,omitempty"`
	DecisionComment     string             `json:"decisionComment,omitempty" bson:"decisionComment,omitempty"`
	DecidedAt           int64              `json:"decidedAt,omitempty" bson:"decidedAt,omitempty"`
	OwnerOrganizationID primitive.ObjectID `json:"ownerOrganizationId" bson:"ownerOrganizationId" index:"single:1"`
	CreatedAt           int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt           int64              `json:"updatedAt" bson:"updatedAt"`
}
