package content

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// CreateInput captures the fields a new draft starts with.
type CreateInput struct {
	BrandID   uuid.UUID `json:"brand_id" validate:"required"`
	Title     string    `json:"title" validate:"required,min=1,max=300"`
	Body      string    `json:"body" validate:"max=10000"`
	MediaURLs []string  `json:"media_urls" validate:"dive,url"`
}

// UpdateInput patches draft fields; nil fields are left untouched.
type UpdateInput struct {
	Title     *string   `json:"title" validate:"omitempty,min=1,max=300"`
	Body      *string   `json:"body" validate:"omitempty,max=10000"`
	MediaURLs *[]string `json:"media_urls" validate:"omitempty,dive,url"`
}

// ScheduleInput names when and where a post goes out.
type ScheduleInput struct {
	ScheduledFor   time.Time   `json:"scheduled_for" validate:"required"`
	IntegrationIDs []uuid.UUID `json:"integration_ids" validate:"required,min=1"`
}

// PublishInput names the immediate publish targets.
type PublishInput struct {
	IntegrationIDs []uuid.UUID `json:"integration_ids" validate:"required,min=1"`
}

// DecisionInput carries the approver's optional notes.
type DecisionInput struct {
	Notes *string `json:"notes" validate:"omitempty,max=2000"`
}

// ListOptions filters and pages the content listing.
type ListOptions struct {
	TeamID         uuid.UUID
	BrandID        *uuid.UUID
	Status         *enums.ContentStatus
	IncludeDeleted bool
	Page           int
	PageSize       int
	SortBy         string
	SortDescending bool
}

// BulkSubmitFailure explains why one item of a bulk submit was skipped.
type BulkSubmitFailure struct {
	ContentID uuid.UUID `json:"content_id"`
	Reason    string    `json:"reason"`
	Code      string    `json:"code"`
}

// BulkSubmitResult is the partial outcome of a bulk submit.
type BulkSubmitResult struct {
	Succeeded []uuid.UUID         `json:"succeeded"`
	Failed    []BulkSubmitFailure `json:"failed"`
}
