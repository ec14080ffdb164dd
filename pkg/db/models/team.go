package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is the collaboration tenant. The owner is the vendor account whose
// subscription funds the team's quotas.
type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
	Deletable
}
