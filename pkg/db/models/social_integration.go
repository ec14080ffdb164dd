package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialIntegration is a connected social-platform account a team can
// publish through. Credential exchange lives in the integrations service;
// this core only validates targets against it.
type SocialIntegration struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID      uuid.UUID `gorm:"column:team_id;type:uuid;not null;index"`
	Platform    string    `gorm:"column:platform;not null"`
	DisplayName string    `gorm:"column:display_name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
	Deletable
}
