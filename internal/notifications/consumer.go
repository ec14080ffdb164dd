package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/outbox/idempotency"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
)

const governanceNotificationConsumer = "governance-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches domain events and turns workflow milestones into in-app
// notifications.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a governance notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": string(eventType),
	})

	if !c.handles(eventType) {
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, governanceNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification, err := c.build(eventType, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, governanceNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "notification write failed", err)
		_ = c.idempotency.Delete(ctx, governanceNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "notification created")
	return processResult{ack: true}
}

func (c *Consumer) handles(eventType enums.OutboxEventType) bool {
	switch eventType {
	case enums.EventContentSubmitted, enums.EventPostScheduled, enums.EventPostPublished:
		return true
	default:
		return false
	}
}

func (c *Consumer) build(eventType enums.OutboxEventType, data json.RawMessage) (*models.Notification, error) {
	switch eventType {
	case enums.EventContentSubmitted:
		var payload payloads.ContentSubmittedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.TeamID == uuid.Nil {
			return nil, fmt.Errorf("team id missing")
		}
		return &models.Notification{
			TeamID:  payload.TeamID,
			Type:    enums.NotificationTypeApprovalNeeded,
			Title:   "Content awaiting approval",
			Message: fmt.Sprintf("%q was submitted for approval.", payload.Title),
			Link:    contentLink(payload.TeamID, payload.ContentID),
		}, nil

	case enums.EventPostScheduled:
		var payload payloads.PostScheduledEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.TeamID == uuid.Nil {
			return nil, fmt.Errorf("team id missing")
		}
		return &models.Notification{
			TeamID: payload.TeamID,
			Type:   enums.NotificationTypePostScheduled,
			Title:  "Post scheduled",
			Message: fmt.Sprintf("A post was scheduled for %s across %d channel(s).",
				payload.ScheduledFor.Format("2006-01-02 15:04 MST"), len(payload.IntegrationIDs)),
			Link: contentLink(payload.TeamID, payload.ContentID),
		}, nil

	case enums.EventPostPublished:
		var payload payloads.PostPublishedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.TeamID == uuid.Nil {
			return nil, fmt.Errorf("team id missing")
		}
		title := "Post published"
		if payload.Scheduled {
			title = "Scheduled post published"
		}
		return &models.Notification{
			TeamID:  payload.TeamID,
			Type:    enums.NotificationTypePostPublished,
			Title:   title,
			Message: fmt.Sprintf("A post went live on %d channel(s).", len(payload.PostIDs)),
			Link:    contentLink(payload.TeamID, payload.ContentID),
		}, nil
	}
	return nil, fmt.Errorf("unhandled event type %s", eventType)
}

func contentLink(teamID, contentID uuid.UUID) *string {
	link := fmt.Sprintf("/teams/%s/content/%s", teamID, contentID)
	return &link
}
