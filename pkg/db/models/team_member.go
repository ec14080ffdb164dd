package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// TeamMember links a user with a team. Permissions are a snapshot seeded
// from the role's catalog defaults at add time and mutable afterwards; checks
// read the snapshot, never the catalog.
type TeamMember struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TeamID          uuid.UUID        `gorm:"column:team_id;type:uuid;not null;index:idx_team_members_team_user,unique"`
	UserID          uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:idx_team_members_team_user,unique"`
	Role            enums.MemberRole `gorm:"column:role;type:member_role;not null"`
	Permissions     pq.StringArray   `gorm:"column:permissions;type:text[];not null;default:ARRAY[]::text[]"`
	InvitedByUserID *uuid.UUID       `gorm:"column:invited_by_user_id;type:uuid"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	Deletable
}

// HasPermission tests the member's snapshot for the token.
func (m *TeamMember) HasPermission(p enums.Permission) bool {
	for _, held := range m.Permissions {
		if held == string(p) {
			return true
		}
	}
	return false
}
