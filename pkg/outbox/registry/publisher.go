package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/postlane/postlane-backend/pkg/config"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
)

// EventDescriptor links an event type to its aggregate/topic/payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewEventRegistry builds the registry with the configured topic names.
// Workflow milestones that feed in-app notifications publish to the
// notification topic; everything else rides the domain topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.DomainTopic == "" {
		return nil, fmt.Errorf("domain topic is required")
	}
	if cfg.NotificationTopic == "" {
		return nil, fmt.Errorf("notification topic is required")
	}

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	domainTopic := cfg.DomainTopic
	notificationTopic := cfg.NotificationTopic

	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventContentSubmitted,
			AggregateType:  enums.AggregateContent,
			Topic:          notificationTopic,
			PayloadFactory: func() interface{} { return &payloads.ContentSubmittedEvent{} },
		},
		{
			EventType:      enums.EventPostScheduled,
			AggregateType:  enums.AggregatePost,
			Topic:          notificationTopic,
			PayloadFactory: func() interface{} { return &payloads.PostScheduledEvent{} },
		},
		{
			EventType:      enums.EventPostPublished,
			AggregateType:  enums.AggregatePost,
			Topic:          notificationTopic,
			PayloadFactory: func() interface{} { return &payloads.PostPublishedEvent{} },
		},
	} {
		reg.register(desc)
	}
	for _, desc := range []EventDescriptor{
		{
			EventType:      enums.EventContentApproved,
			AggregateType:  enums.AggregateApproval,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.ContentDecisionEvent{} },
		},
		{
			EventType:      enums.EventContentRejected,
			AggregateType:  enums.AggregateApproval,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.ContentDecisionEvent{} },
		},
		{
			EventType:      enums.EventContentDeleted,
			AggregateType:  enums.AggregateContent,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.ContentDeletedEvent{} },
		},
		{
			EventType:      enums.EventContentRestored,
			AggregateType:  enums.AggregateContent,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.ContentRestoredEvent{} },
		},
		{
			EventType:      enums.EventPostUnscheduled,
			AggregateType:  enums.AggregatePost,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.PostUnscheduledEvent{} },
		},
		{
			EventType:      enums.EventMemberAdded,
			AggregateType:  enums.AggregateTeamMember,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.MemberChangedEvent{} },
		},
		{
			EventType:      enums.EventMemberRemoved,
			AggregateType:  enums.AggregateTeamMember,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.MemberChangedEvent{} },
		},
		{
			EventType:      enums.EventMemberRestored,
			AggregateType:  enums.AggregateTeamMember,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.MemberChangedEvent{} },
		},
		{
			EventType:      enums.EventBrandAssigned,
			AggregateType:  enums.AggregateBrand,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.BrandAssignedEvent{} },
		},
		{
			EventType:      enums.EventQuotaExhausted,
			AggregateType:  enums.AggregateSubscription,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.QuotaExhaustedEvent{} },
		},
		{
			EventType:      enums.EventPlanLimitsChanged,
			AggregateType:  enums.AggregateSubscription,
			Topic:          domainTopic,
			PayloadFactory: func() interface{} { return &payloads.PlanLimitsChangedEvent{} },
		},
	} {
		reg.register(desc)
	}

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if payload == nil {
		return nil, NewNonRetryableError(fmt.Errorf("payload factory not configured for %s", event.EventType))
	}
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}
