package enums

import "fmt"

// ContentAction names a requested lifecycle transition on content.
type ContentAction string

const (
	ContentActionSubmit     ContentAction = "submit"
	ContentActionApprove    ContentAction = "approve"
	ContentActionReject     ContentAction = "reject"
	ContentActionSchedule   ContentAction = "schedule"
	ContentActionPublish    ContentAction = "publish"
	ContentActionUnschedule ContentAction = "unschedule"
	ContentActionDelete     ContentAction = "delete"
	ContentActionRestore    ContentAction = "restore"
)

var validContentActions = []ContentAction{
	ContentActionSubmit,
	ContentActionApprove,
	ContentActionReject,
	ContentActionSchedule,
	ContentActionPublish,
	ContentActionUnschedule,
	ContentActionDelete,
	ContentActionRestore,
}

// String implements fmt.Stringer.
func (c ContentAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContentAction.
func (c ContentAction) IsValid() bool {
	for _, candidate := range validContentActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentAction converts raw input into a ContentAction.
func ParseContentAction(value string) (ContentAction, error) {
	for _, candidate := range validContentActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content action %q", value)
}
