package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeApprovalNeeded   NotificationType = "approval_needed"
	NotificationTypeContentApproved  NotificationType = "content_approved"
	NotificationTypeContentRejected  NotificationType = "content_rejected"
	NotificationTypePostScheduled    NotificationType = "post_scheduled"
	NotificationTypePostPublished    NotificationType = "post_published"
	NotificationTypeDeliveryFailed   NotificationType = "delivery_failed"
	NotificationTypeQuotaWarning     NotificationType = "quota_warning"
	NotificationTypeMemberAdded      NotificationType = "member_added"
	NotificationTypeSystemAnnounce   NotificationType = "system_announcement"
	NotificationTypePerformanceAlert NotificationType = "performance_alert"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeApprovalNeeded,
	NotificationTypeContentApproved,
	NotificationTypeContentRejected,
	NotificationTypePostScheduled,
	NotificationTypePostPublished,
	NotificationTypeDeliveryFailed,
	NotificationTypeQuotaWarning,
	NotificationTypeMemberAdded,
	NotificationTypeSystemAnnounce,
	NotificationTypePerformanceAlert,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
