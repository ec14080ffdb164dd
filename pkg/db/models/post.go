package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// Post is the delivery record created when content publishes, one per target
// integration. Downstream delivery failures are tracked here; content status
// never reverts on delivery failure.
type Post struct {
	ID             uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ContentID      uuid.UUID                `gorm:"column:content_id;type:uuid;not null;index"`
	TeamID         uuid.UUID                `gorm:"column:team_id;type:uuid;not null;index"`
	IntegrationID  uuid.UUID                `gorm:"column:integration_id;type:uuid;not null"`
	DeliveryStatus enums.PostDeliveryStatus `gorm:"column:delivery_status;type:post_delivery_status;not null;default:'pending'"`
	DeliveryError  *string                  `gorm:"column:delivery_error"`
	PublishedAt    time.Time                `gorm:"column:published_at;not null"`
	DeliveredAt    *time.Time               `gorm:"column:delivered_at"`
	CreatedAt      time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
