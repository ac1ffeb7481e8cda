// Package models - model bản ghi audit (AuditLog) thuộc domain audit.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog bản ghi audit cho mọi thao tác ghi trong hệ thống.
// Before/After lưu snapshot trạng thái trước và sau thao tác để phục vụ trang audit.
type AuditLog struct {
	ID                  primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Action              string                 `json:"action" bson:"action" index:"single:1"`
	ActorID             primitive.ObjectID     `json:"actorId,omitempty" bson:"actorId,omitempty" index:"single:1"`
	ActorEmail          string                 `json:"actorEmail" bson:"actorEmail"`
	TargetType          string                 `json:"targetType" bson:"targetType" index:"compound:audit_target"`
	TargetID            string                 `json:"targetId" bson:"targetId" index:"compound:audit_target"`
	Before              map[string]interface{} `json:"before,omitempty" bson:"before,omitempty"`
	After               map[string]interface{} `json:"after,omitempty" bson:"after,omitempty"`
	Details             map[string]interface{} `json:"details,omitempty" bson:"details,omitempty"`
	OwnerOrganizationID primitive.ObjectID     `json:"ownerOrganizationId,omitempty" bson:"ownerOrganizationId,omitempty" index:"single:1"`
	CreatedAt           int64                  `json:"createdAt" bson:"createdAt" index:"single:-1"`
	UpdatedAt           int64                  `json:"updatedAt" bson:"updatedAt"`
}
