package enums

import "fmt"

// ContentStatus captures where a piece of content sits in the approval and
// publishing lifecycle.
type ContentStatus string

const (
	ContentStatusDraft           ContentStatus = "draft"
	ContentStatusPendingApproval ContentStatus = "pending_approval"
	ContentStatusApproved        ContentStatus = "approved"
	ContentStatusRejected        ContentStatus = "rejected"
	ContentStatusScheduled       ContentStatus = "scheduled"
	ContentStatusPublished       ContentStatus = "published"
	ContentStatusDeleted         ContentStatus = "deleted"
)

var validContentStatuses = []ContentStatus{
	ContentStatusDraft,
	ContentStatusPendingApproval,
	ContentStatusApproved,
	ContentStatusRejected,
	ContentStatusScheduled,
	ContentStatusPublished,
	ContentStatusDeleted,
}

// String implements fmt.Stringer.
func (c ContentStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContentStatus.
func (c ContentStatus) IsValid() bool {
	for _, candidate := range validContentStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentStatus converts raw input into a ContentStatus.
func ParseContentStatus(value string) (ContentStatus, error) {
	for _, candidate := range validContentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content status %q", value)
}
