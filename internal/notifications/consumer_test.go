package notifications

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
)

func TestConsumerBuildsApprovalNeededNotification(t *testing.T) {
	c := &Consumer{}
	teamID := uuid.New()
	contentID := uuid.New()
	data, _ := json.Marshal(payloads.ContentSubmittedEvent{
		ContentID: contentID,
		TeamID:    teamID,
		Title:     "spring launch",
	})

	notification, err := c.build(enums.EventContentSubmitted, data)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if notification.Type != enums.NotificationTypeApprovalNeeded {
		t.Fatalf("expected approval_needed, got %s", notification.Type)
	}
	if notification.TeamID != teamID {
		t.Fatalf("expected team %s, got %s", teamID, notification.TeamID)
	}
	if notification.Link == nil {
		t.Fatal("expected content link")
	}
}

func TestConsumerBuildsScheduledAndPublishedNotifications(t *testing.T) {
	c := &Consumer{}
	teamID := uuid.New()

	scheduled, _ := json.Marshal(payloads.PostScheduledEvent{
		ContentID:      uuid.New(),
		TeamID:         teamID,
		ScheduledFor:   time.Now().Add(time.Hour).UTC(),
		IntegrationIDs: []uuid.UUID{uuid.New(), uuid.New()},
	})
	notification, err := c.build(enums.EventPostScheduled, scheduled)
	if err != nil {
		t.Fatalf("build scheduled: %v", err)
	}
	if notification.Type != enums.NotificationTypePostScheduled {
		t.Fatalf("expected post_scheduled, got %s", notification.Type)
	}

	published, _ := json.Marshal(payloads.PostPublishedEvent{
		ContentID: uuid.New(),
		TeamID:    teamID,
		PostIDs:   []uuid.UUID{uuid.New()},
		Scheduled: true,
	})
	notification, err = c.build(enums.EventPostPublished, published)
	if err != nil {
		t.Fatalf("build published: %v", err)
	}
	if notification.Type != enums.NotificationTypePostPublished {
		t.Fatalf("expected post_published, got %s", notification.Type)
	}
	if notification.Title != "Scheduled post published" {
		t.Fatalf("unexpected title %q", notification.Title)
	}
}

func TestConsumerRejectsPayloadWithoutTeam(t *testing.T) {
	c := &Consumer{}
	data, _ := json.Marshal(payloads.ContentSubmittedEvent{ContentID: uuid.New()})

	if _, err := c.build(enums.EventContentSubmitted, data); err == nil {
		t.Fatal("expected error for missing team id")
	}
}

func TestConsumerHandlesOnlyWorkflowMilestones(t *testing.T) {
	c := &Consumer{}
	if !c.handles(enums.EventContentSubmitted) || !c.handles(enums.EventPostScheduled) || !c.handles(enums.EventPostPublished) {
		t.Fatal("expected workflow milestones to be handled")
	}
	if c.handles(enums.EventMemberAdded) || c.handles(enums.EventContentDeleted) {
		t.Fatal("expected roster and delete events to be skipped")
	}
}
