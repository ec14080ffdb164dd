package content

import (
	"fmt"

	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
)

// transitions is the full lifecycle table. An (action, from) pair absent here
// is illegal; call sites never compare status strings directly. Restore is
// absent on purpose: its target depends on the status preserved at delete
// time, so the service resolves it from the row.
var transitions = map[enums.ContentAction]map[enums.ContentStatus]enums.ContentStatus{
	enums.ContentActionSubmit: {
		enums.ContentStatusDraft:    enums.ContentStatusPendingApproval,
		enums.ContentStatusRejected: enums.ContentStatusPendingApproval,
	},
	enums.ContentActionApprove: {
		enums.ContentStatusPendingApproval: enums.ContentStatusApproved,
	},
	enums.ContentActionReject: {
		enums.ContentStatusPendingApproval: enums.ContentStatusRejected,
	},
	enums.ContentActionSchedule: {
		enums.ContentStatusApproved: enums.ContentStatusScheduled,
	},
	enums.ContentActionPublish: {
		enums.ContentStatusApproved:  enums.ContentStatusPublished,
		enums.ContentStatusScheduled: enums.ContentStatusPublished,
	},
	enums.ContentActionUnschedule: {
		enums.ContentStatusScheduled: enums.ContentStatusApproved,
	},
	enums.ContentActionDelete: {
		enums.ContentStatusDraft:           enums.ContentStatusDeleted,
		enums.ContentStatusPendingApproval: enums.ContentStatusDeleted,
		enums.ContentStatusApproved:        enums.ContentStatusDeleted,
		enums.ContentStatusRejected:        enums.ContentStatusDeleted,
		enums.ContentStatusScheduled:       enums.ContentStatusDeleted,
	},
}

// actionPermissions gates each lifecycle action with one token.
var actionPermissions = map[enums.ContentAction]enums.Permission{
	enums.ContentActionSubmit:     enums.PermissionSubmitForApproval,
	enums.ContentActionApprove:    enums.PermissionApproveContent,
	enums.ContentActionReject:     enums.PermissionRejectContent,
	enums.ContentActionSchedule:   enums.PermissionSchedulePost,
	enums.ContentActionPublish:    enums.PermissionPublishPost,
	enums.ContentActionUnschedule: enums.PermissionSchedulePost,
	enums.ContentActionDelete:     enums.PermissionDeletePost,
}

// restorePermissions maps the status a restore would land on to the token
// that gates reaching that status in the first place.
var restorePermissions = map[enums.ContentStatus]enums.Permission{
	enums.ContentStatusDraft:           enums.PermissionCreateContent,
	enums.ContentStatusRejected:        enums.PermissionCreateContent,
	enums.ContentStatusPendingApproval: enums.PermissionSubmitForApproval,
	enums.ContentStatusApproved:        enums.PermissionApproveContent,
	enums.ContentStatusScheduled:       enums.PermissionSchedulePost,
}

// NextStatus resolves the transition table for an (action, from) pair.
func NextStatus(action enums.ContentAction, from enums.ContentStatus) (enums.ContentStatus, bool) {
	targets, ok := transitions[action]
	if !ok {
		return "", false
	}
	to, ok := targets[from]
	return to, ok
}

// PermissionFor returns the token gating the action.
func PermissionFor(action enums.ContentAction) (enums.Permission, bool) {
	perm, ok := actionPermissions[action]
	return perm, ok
}

// RestorePermissionFor returns the token required to restore content back to
// prior.
func RestorePermissionFor(prior enums.ContentStatus) (enums.Permission, bool) {
	perm, ok := restorePermissions[prior]
	return perm, ok
}

type transitionDetails struct {
	CurrentStatus enums.ContentStatus `json:"current_status"`
	Action        enums.ContentAction `json:"action"`
}

func invalidTransition(current enums.ContentStatus, action enums.ContentAction) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict,
		fmt.Sprintf("cannot %s content in status %s", action, current)).
		WithDetails(transitionDetails{CurrentStatus: current, Action: action})
}
