package permissions

import (
	"github.com/postlane/postlane-backend/pkg/enums"
)

// Set holds permission tokens for membership tests.
type Set map[enums.Permission]struct{}

// Has reports whether the token is present in the set.
func (s Set) Has(p enums.Permission) bool {
	_, ok := s[p]
	return ok
}

// List returns the tokens in catalog declaration order.
func (s Set) List() []enums.Permission {
	out := make([]enums.Permission, 0, len(s))
	for _, p := range enums.Permissions() {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func newSet(tokens ...enums.Permission) Set {
	s := make(Set, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

// catalog maps each role to its default grants. Built once at process start
// and never mutated; per-member customization lives on the membership record.
var catalog = map[enums.MemberRole]Set{
	enums.MemberRoleVendor: newSet(enums.Permissions()...),
	enums.MemberRoleTeamLeader: newSet(
		enums.PermissionAddMember,
		enums.PermissionRemoveMember,
		enums.PermissionUpdateMemberRole,
		enums.PermissionUpdateMemberPermissions,
		enums.PermissionAssignBrand,
		enums.PermissionCreateContent,
		enums.PermissionEditContent,
		enums.PermissionSubmitForApproval,
		enums.PermissionApproveContent,
		enums.PermissionRejectContent,
		enums.PermissionSchedulePost,
		enums.PermissionPublishPost,
		enums.PermissionDeletePost,
		enums.PermissionSubmitAIGeneration,
		enums.PermissionViewAnalytics,
	),
	enums.MemberRoleSocialMediaManager: newSet(
		enums.PermissionCreateContent,
		enums.PermissionEditContent,
		enums.PermissionSubmitForApproval,
		enums.PermissionSchedulePost,
		enums.PermissionPublishPost,
		enums.PermissionDeletePost,
		enums.PermissionSubmitAIGeneration,
		enums.PermissionViewAnalytics,
	),
	enums.MemberRoleDesigner: newSet(
		enums.PermissionCreateContent,
		enums.PermissionEditContent,
		enums.PermissionSubmitForApproval,
		enums.PermissionSubmitAIGeneration,
	),
	enums.MemberRoleCopywriter: newSet(
		enums.PermissionCreateContent,
		enums.PermissionEditContent,
		enums.PermissionSubmitForApproval,
		enums.PermissionSubmitAIGeneration,
	),
}

// ForRole returns the default permission set for the role. Unknown roles get
// an empty set, never an error, so authorization fails closed.
func ForRole(role enums.MemberRole) Set {
	defaults, ok := catalog[role]
	if !ok {
		return Set{}
	}
	out := make(Set, len(defaults))
	for p := range defaults {
		out[p] = struct{}{}
	}
	return out
}

// DefaultsForRole returns the role's default grants as an ordered slice,
// suitable for seeding a membership's permission snapshot.
func DefaultsForRole(role enums.MemberRole) []enums.Permission {
	return ForRole(role).List()
}

// IsKnown reports whether the raw token names a defined Permission. Custom
// grants must pass this gate before being written to a membership record.
func IsKnown(token string) bool {
	return enums.Permission(token).IsValid()
}
