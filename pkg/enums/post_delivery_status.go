package enums

import "fmt"

// PostDeliveryStatus tracks downstream delivery of a published post. Delivery
// failures live here, never on the content status.
type PostDeliveryStatus string

const (
	PostDeliveryStatusPending   PostDeliveryStatus = "pending"
	PostDeliveryStatusDelivered PostDeliveryStatus = "delivered"
	PostDeliveryStatusFailed    PostDeliveryStatus = "failed"
)

var validPostDeliveryStatuses = []PostDeliveryStatus{
	PostDeliveryStatusPending,
	PostDeliveryStatusDelivered,
	PostDeliveryStatusFailed,
}

// String implements fmt.Stringer.
func (p PostDeliveryStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PostDeliveryStatus.
func (p PostDeliveryStatus) IsValid() bool {
	for _, candidate := range validPostDeliveryStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePostDeliveryStatus converts raw input into a PostDeliveryStatus.
func ParsePostDeliveryStatus(value string) (PostDeliveryStatus, error) {
	for _, candidate := range validPostDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid post delivery status %q", value)
}
