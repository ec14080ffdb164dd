package enums

import "fmt"

// MemberRole represents a team-level role a member was added with.
type MemberRole string

const (
	MemberRoleVendor             MemberRole = "vendor"
	MemberRoleTeamLeader         MemberRole = "team_leader"
	MemberRoleSocialMediaManager MemberRole = "social_media_manager"
	MemberRoleDesigner           MemberRole = "designer"
	MemberRoleCopywriter         MemberRole = "copywriter"
)

var validMemberRoles = []MemberRole{
	MemberRoleVendor,
	MemberRoleTeamLeader,
	MemberRoleSocialMediaManager,
	MemberRoleDesigner,
	MemberRoleCopywriter,
}

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	for _, candidate := range validMemberRoles {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	for _, candidate := range validMemberRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid member role %q", value)
}

// MemberRoles returns every defined role in declaration order.
func MemberRoles() []MemberRole {
	out := make([]MemberRole, len(validMemberRoles))
	copy(out, validMemberRoles)
	return out
}
