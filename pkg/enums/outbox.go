package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateContent      OutboxAggregateType = "content"
	AggregateApproval     OutboxAggregateType = "approval"
	AggregatePost         OutboxAggregateType = "post"
	AggregateTeam         OutboxAggregateType = "team"
	AggregateTeamMember   OutboxAggregateType = "team_member"
	AggregateBrand        OutboxAggregateType = "brand"
	AggregateSubscription OutboxAggregateType = "subscription"
	AggregateNotification OutboxAggregateType = "notification"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateContent,
	AggregateApproval,
	AggregatePost,
	AggregateTeam,
	AggregateTeamMember,
	AggregateBrand,
	AggregateSubscription,
	AggregateNotification,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventContentSubmitted  OutboxEventType = "content_submitted"
	EventContentApproved   OutboxEventType = "content_approved"
	EventContentRejected   OutboxEventType = "content_rejected"
	EventContentDeleted    OutboxEventType = "content_deleted"
	EventContentRestored   OutboxEventType = "content_restored"
	EventPostScheduled     OutboxEventType = "post_scheduled"
	EventPostUnscheduled   OutboxEventType = "post_unscheduled"
	EventPostPublished     OutboxEventType = "post_published"
	EventMemberAdded       OutboxEventType = "member_added"
	EventMemberRemoved     OutboxEventType = "member_removed"
	EventMemberRestored    OutboxEventType = "member_restored"
	EventBrandAssigned     OutboxEventType = "brand_assigned"
	EventQuotaExhausted    OutboxEventType = "quota_exhausted"
	EventPlanLimitsChanged OutboxEventType = "plan_limits_changed"
)

var validOutboxEventTypes = []OutboxEventType{
	EventContentSubmitted,
	EventContentApproved,
	EventContentRejected,
	EventContentDeleted,
	EventContentRestored,
	EventPostScheduled,
	EventPostUnscheduled,
	EventPostPublished,
	EventMemberAdded,
	EventMemberRemoved,
	EventMemberRestored,
	EventBrandAssigned,
	EventQuotaExhausted,
	EventPlanLimitsChanged,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
