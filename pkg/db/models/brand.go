package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand groups content under a team. Every content item belongs to exactly
// one brand.
type Brand struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID           uuid.UUID  `gorm:"column:team_id;type:uuid;not null;index"`
	Name             string     `gorm:"column:name;not null"`
	Description      *string    `gorm:"column:description"`
	LogoURL          *string    `gorm:"column:logo_url"`
	AssignedMemberID *uuid.UUID `gorm:"column:assigned_member_id;type:uuid"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	Deletable
}
