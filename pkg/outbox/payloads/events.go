package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// ContentSubmittedEvent signals a draft entering the approval queue.
type ContentSubmittedEvent struct {
	ContentID         uuid.UUID `json:"content_id"`
	TeamID            uuid.UUID `json:"team_id"`
	BrandID           uuid.UUID `json:"brand_id"`
	ApprovalID        uuid.UUID `json:"approval_id"`
	RequestedByUserID uuid.UUID `json:"requested_by_user_id"`
	Title             string    `json:"title"`
}

// ContentDecisionEvent is emitted when an approver decides a submission.
type ContentDecisionEvent struct {
	ContentID      uuid.UUID            `json:"content_id"`
	TeamID         uuid.UUID            `json:"team_id"`
	BrandID        uuid.UUID            `json:"brand_id"`
	ApprovalID     uuid.UUID            `json:"approval_id"`
	ApproverUserID uuid.UUID            `json:"approver_user_id"`
	Decision       enums.ApprovalStatus `json:"decision"`
	Notes          string               `json:"notes,omitempty"`
}

// PostScheduledEvent carries the fire time and target integrations.
type PostScheduledEvent struct {
	ContentID      uuid.UUID   `json:"content_id"`
	TeamID         uuid.UUID   `json:"team_id"`
	BrandID        uuid.UUID   `json:"brand_id"`
	ScheduledFor   time.Time   `json:"scheduled_for"`
	IntegrationIDs []uuid.UUID `json:"integration_ids"`
}

// PostUnscheduledEvent reports a scheduled post returning to approved.
type PostUnscheduledEvent struct {
	ContentID uuid.UUID `json:"content_id"`
	TeamID    uuid.UUID `json:"team_id"`
	BrandID   uuid.UUID `json:"brand_id"`
}

// PostPublishedEvent is emitted once per publish with the spawned delivery ids.
type PostPublishedEvent struct {
	ContentID      uuid.UUID   `json:"content_id"`
	TeamID         uuid.UUID   `json:"team_id"`
	BrandID        uuid.UUID   `json:"brand_id"`
	PostIDs        []uuid.UUID `json:"post_ids"`
	IntegrationIDs []uuid.UUID `json:"integration_ids"`
	PublishedAt    time.Time   `json:"published_at"`
	Scheduled      bool        `json:"scheduled"`
}

// ContentDeletedEvent reports a soft delete and the status it preserved.
type ContentDeletedEvent struct {
	ContentID   uuid.UUID           `json:"content_id"`
	TeamID      uuid.UUID           `json:"team_id"`
	PriorStatus enums.ContentStatus `json:"prior_status"`
	DeletedAt   time.Time           `json:"deleted_at"`
}

// ContentRestoredEvent reports a soft-deleted row returning to service.
type ContentRestoredEvent struct {
	ContentID      uuid.UUID           `json:"content_id"`
	TeamID         uuid.UUID           `json:"team_id"`
	RestoredStatus enums.ContentStatus `json:"restored_status"`
}

// MemberChangedEvent covers add, remove, and restore on a team roster.
type MemberChangedEvent struct {
	TeamID   uuid.UUID        `json:"team_id"`
	UserID   uuid.UUID        `json:"user_id"`
	MemberID uuid.UUID        `json:"member_id"`
	Role     enums.MemberRole `json:"role"`
}

// BrandAssignedEvent reports a brand handed to a member's portfolio.
type BrandAssignedEvent struct {
	TeamID   uuid.UUID `json:"team_id"`
	BrandID  uuid.UUID `json:"brand_id"`
	MemberID uuid.UUID `json:"member_id"`
}

// QuotaExhaustedEvent fires when a consume is rejected at the limit.
type QuotaExhaustedEvent struct {
	AccountID uuid.UUID           `json:"account_id"`
	Resource  enums.QuotaResource `json:"resource"`
	Used      int64               `json:"used"`
	Limit     int64               `json:"limit"`
}

// PlanLimitsChangedEvent reports new per-resource ceilings for an account.
type PlanLimitsChangedEvent struct {
	AccountID uuid.UUID                     `json:"account_id"`
	PlanID    string                        `json:"plan_id"`
	Limits    map[enums.QuotaResource]int64 `json:"limits"`
}
