package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// AccountSubscription mirrors the billing provider's subscription state per
// account. Billing itself happens upstream; this core only consumes the
// resulting plan and status.
type AccountSubscription struct {
	ID                uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID         uuid.UUID                `gorm:"column:account_id;type:uuid;not null;index"`
	PlanID            string                   `gorm:"column:plan_id;not null"`
	Status            enums.SubscriptionStatus `gorm:"column:status;type:subscription_status;not null;default:'active'"`
	CurrentPeriodEnd  time.Time                `gorm:"column:current_period_end;not null"`
	CancelAtPeriodEnd bool                     `gorm:"column:cancel_at_period_end;not null;default:false"`
	CanceledAt        *time.Time               `gorm:"column:canceled_at"`
	CreatedAt         time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
