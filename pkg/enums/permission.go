package enums

import "fmt"

// Permission is the atomic authorization token checked before an action executes.
type Permission string

const (
	PermissionCreateTeam              Permission = "CREATE_TEAM"
	PermissionAddMember               Permission = "ADD_MEMBER"
	PermissionRemoveMember            Permission = "REMOVE_MEMBER"
	PermissionUpdateMemberRole        Permission = "UPDATE_MEMBER_ROLE"
	PermissionUpdateMemberPermissions Permission = "UPDATE_MEMBER_PERMISSIONS"
	PermissionAssignBrand             Permission = "ASSIGN_BRAND"
	PermissionCreateContent           Permission = "CREATE_CONTENT"
	PermissionEditContent             Permission = "EDIT_CONTENT"
	PermissionSubmitForApproval       Permission = "SUBMIT_FOR_APPROVAL"
	PermissionApproveContent          Permission = "APPROVE_CONTENT"
	PermissionRejectContent           Permission = "REJECT_CONTENT"
	PermissionSchedulePost            Permission = "SCHEDULE_POST"
	PermissionPublishPost             Permission = "PUBLISH_POST"
	PermissionDeletePost              Permission = "DELETE_POST"
	PermissionSubmitAIGeneration      Permission = "SUBMIT_AI_GENERATION"
	PermissionViewAnalytics           Permission = "VIEW_ANALYTICS"
)

var validPermissions = []Permission{
	PermissionCreateTeam,
	PermissionAddMember,
	PermissionRemoveMember,
	PermissionUpdateMemberRole,
	PermissionUpdateMemberPermissions,
	PermissionAssignBrand,
	PermissionCreateContent,
	PermissionEditContent,
	PermissionSubmitForApproval,
	PermissionApproveContent,
	PermissionRejectContent,
	PermissionSchedulePost,
	PermissionPublishPost,
	PermissionDeletePost,
	PermissionSubmitAIGeneration,
	PermissionViewAnalytics,
}

// String implements fmt.Stringer.
func (p Permission) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Permission token.
func (p Permission) IsValid() bool {
	for _, candidate := range validPermissions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePermission converts raw input into a Permission.
func ParsePermission(value string) (Permission, error) {
	for _, candidate := range validPermissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid permission %q", value)
}

// Permissions returns every defined token in declaration order.
func Permissions() []Permission {
	out := make([]Permission, len(validPermissions))
	copy(out, validPermissions)
	return out
}
