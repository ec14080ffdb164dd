package teams

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
)

// CreateTeamInput names a new team and its owner-facing metadata.
type CreateTeamInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// AddMemberInput invites a user onto the roster with a role.
type AddMemberInput struct {
	UserID uuid.UUID        `json:"user_id" validate:"required"`
	Role   enums.MemberRole `json:"role" validate:"required"`
}

// UpdateRoleInput changes a member's role, reseeding its snapshot.
type UpdateRoleInput struct {
	Role enums.MemberRole `json:"role" validate:"required"`
}

// UpdatePermissionsInput replaces a member's snapshot wholesale.
type UpdatePermissionsInput struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// AssignBrandInput hands a brand to a member's portfolio.
type AssignBrandInput struct {
	BrandID  uuid.UUID `json:"brand_id" validate:"required"`
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

// MemberDTO is the transport shape for a roster entry.
type MemberDTO struct {
	ID              uuid.UUID        `json:"id"`
	TeamID          uuid.UUID        `json:"team_id"`
	UserID          uuid.UUID        `json:"user_id"`
	Role            enums.MemberRole `json:"role"`
	Permissions     []string         `json:"permissions"`
	InvitedByUserID *uuid.UUID       `json:"invited_by_user_id,omitempty"`
	Removed         bool             `json:"removed"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// MemberWithTeam includes basic team metadata for the session's team picker.
type MemberWithTeam struct {
	MemberID  uuid.UUID        `json:"member_id"`
	TeamID    uuid.UUID        `json:"team_id"`
	UserID    uuid.UUID        `json:"user_id"`
	TeamName  string           `json:"team_name"`
	Role      enums.MemberRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToMemberDTO converts a model to the external DTO.
func ToMemberDTO(m *models.TeamMember) *MemberDTO {
	if m == nil {
		return nil
	}
	return &MemberDTO{
		ID:              m.ID,
		TeamID:          m.TeamID,
		UserID:          m.UserID,
		Role:            m.Role,
		Permissions:     append([]string(nil), m.Permissions...),
		InvitedByUserID: copyUUIDPointer(m.InvitedByUserID),
		Removed:         m.IsDeleted(),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
