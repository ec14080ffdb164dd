package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// Approval is the decision record spawned by a submission. At most one
// pending approval exists per content; decided rows are immutable audit
// history and are never reused by later submissions.
type Approval struct {
	ID                uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ContentID         uuid.UUID            `gorm:"column:content_id;type:uuid;not null;index"`
	TeamID            uuid.UUID            `gorm:"column:team_id;type:uuid;not null;index"`
	RequestedByUserID uuid.UUID            `gorm:"column:requested_by_user_id;type:uuid;not null"`
	ApproverUserID    *uuid.UUID           `gorm:"column:approver_user_id;type:uuid"`
	Status            enums.ApprovalStatus `gorm:"column:status;type:approval_status;not null;default:'pending'"`
	Notes             *string              `gorm:"column:notes"`
	DecidedAt         *time.Time           `gorm:"column:decided_at"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
