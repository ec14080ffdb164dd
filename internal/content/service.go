package content

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/pkg/db/models"
	dbtypes "github.com/postlane/postlane-backend/pkg/db/types"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/logger"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
)

// maxSwapRetries bounds the optimistic-write loop when two actors race a
// transition on the same content row.
const maxSwapRetries = 5

type boundary interface {
	Authorize(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission) (*models.TeamMember, error)
	RequireMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
	Execute(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission, charge *authz.QuotaCharge, fn func(ctx context.Context, actor *models.TeamMember) error) error
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the content lifecycle: drafting, the approval loop,
// scheduling, publishing, and soft delete/restore.
type Service interface {
	Create(ctx context.Context, teamID, userID uuid.UUID, input CreateInput) (*models.Content, error)
	Get(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error)
	Update(ctx context.Context, teamID, userID, contentID uuid.UUID, input UpdateInput) (*models.Content, error)
	List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Content, int64, error)
	Submit(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error)
	BulkSubmit(ctx context.Context, teamID, userID uuid.UUID, contentIDs []uuid.UUID) (*BulkSubmitResult, error)
	Approve(ctx context.Context, teamID, userID, contentID uuid.UUID, input DecisionInput) (*models.Content, error)
	Reject(ctx context.Context, teamID, userID, contentID uuid.UUID, input DecisionInput) (*models.Content, error)
	Schedule(ctx context.Context, teamID, userID, contentID uuid.UUID, input ScheduleInput) (*models.Content, error)
	Unschedule(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error)
	Publish(ctx context.Context, teamID, userID, contentID uuid.UUID, input PublishInput) (*models.Content, error)
	Delete(ctx context.Context, teamID, userID, contentID uuid.UUID) error
	Restore(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error)
	FireScheduledPublish(ctx context.Context, contentID uuid.UUID) error
	Approvals(ctx context.Context, teamID, userID, contentID uuid.UUID) ([]models.Approval, error)
}

// ServiceParams groups dependencies for the content service.
type ServiceParams struct {
	Repo              Repository
	Boundary          boundary
	Events            eventEmitter
	TransactionRunner txRunner
	Logger            *logger.Logger
}

type service struct {
	repo     Repository
	guard    boundary
	events   eventEmitter
	txRunner txRunner
	logg     *logger.Logger
}

// NewService builds a content service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("content repo required")
	}
	if params.Boundary == nil {
		return nil, fmt.Errorf("authorization boundary required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     params.Repo,
		guard:    params.Boundary,
		events:   params.Events,
		txRunner: params.TransactionRunner,
		logg:     params.Logger,
	}, nil
}

// Create opens a new draft. The campaign quota is reserved before the row is
// written and handed back if the write fails.
func (s *service) Create(ctx context.Context, teamID, userID uuid.UUID, input CreateInput) (*models.Content, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var created *models.Content
	charge := &authz.QuotaCharge{
		AccountID: team.OwnerID,
		Resource:  enums.QuotaResourceCampaigns,
		Amount:    1,
	}
	err = s.guard.Execute(ctx, teamID, userID, enums.PermissionCreateContent, charge, func(ctx context.Context, actor *models.TeamMember) error {
		brand, err := s.loadBrand(ctx, input.BrandID)
		if err != nil {
			return err
		}
		if brand.TeamID != teamID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "brand belongs to another team")
		}

		row := &models.Content{
			ID:              uuid.New(),
			BrandID:         brand.ID,
			TeamID:          teamID,
			CreatedByUserID: userID,
			Title:           input.Title,
			Body:            input.Body,
			MediaURLs:       input.MediaURLs,
			Status:          enums.ContentStatusDraft,
			Version:         1,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create content")
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one content row; any live member of the team may read it.
func (s *service) Get(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.loadScoped(ctx, teamID, contentID)
}

// Update patches draft fields. Only draft and rejected content is editable.
func (s *service) Update(ctx context.Context, teamID, userID, contentID uuid.UUID, input UpdateInput) (*models.Content, error) {
	if _, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionEditContent); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		row, err := s.loadScoped(ctx, teamID, contentID)
		if err != nil {
			return nil, err
		}
		if row.Status != enums.ContentStatusDraft && row.Status != enums.ContentStatusRejected {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot edit content in status %s", row.Status))
		}

		if input.Title != nil {
			row.Title = *input.Title
		}
		if input.Body != nil {
			row.Body = *input.Body
		}
		if input.MediaURLs != nil {
			row.MediaURLs = *input.MediaURLs
		}

		ok, err := s.repo.UpdateCAS(ctx, row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update content")
		}
		if ok {
			return row, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "content was modified concurrently, retry")
}

// List returns a filtered page of the team's content.
func (s *service) List(ctx context.Context, userID uuid.UUID, opts ListOptions) ([]models.Content, int64, error) {
	if _, err := s.guard.RequireMember(ctx, opts.TeamID, userID); err != nil {
		return nil, 0, err
	}
	if opts.Status != nil && !opts.Status.IsValid() {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown content status %q", *opts.Status))
	}
	rows, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list content")
	}
	return rows, total, nil
}

// Submit moves a draft (or rejected revision) into the approval queue and
// opens its approval record in the same transaction.
func (s *service) Submit(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionSubmitForApproval)
	if err != nil {
		return nil, err
	}
	return s.submitOne(ctx, actor, teamID, contentID)
}

// BulkSubmit evaluates every id independently and reports a partial result;
// one illegal item never blocks the rest.
func (s *service) BulkSubmit(ctx context.Context, teamID, userID uuid.UUID, contentIDs []uuid.UUID) (*BulkSubmitResult, error) {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionSubmitForApproval)
	if err != nil {
		return nil, err
	}
	if len(contentIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "content ids are required")
	}

	result := &BulkSubmitResult{}
	for _, id := range contentIDs {
		if _, err := s.submitOne(ctx, actor, teamID, id); err != nil {
			failure := BulkSubmitFailure{ContentID: id, Reason: err.Error()}
			if typed := pkgerrors.As(err); typed != nil {
				failure.Code = string(typed.Code())
				failure.Reason = typed.Message()
			}
			result.Failed = append(result.Failed, failure)
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}

func (s *service) submitOne(ctx context.Context, actor *models.TeamMember, teamID, contentID uuid.UUID) (*models.Content, error) {
	return s.transition(ctx, actor, teamID, contentID, enums.ContentActionSubmit, nil,
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			approval := &models.Approval{
				ID:                uuid.New(),
				ContentID:         row.ID,
				TeamID:            row.TeamID,
				RequestedByUserID: actor.UserID,
				Status:            enums.ApprovalStatusPending,
			}
			if err := s.repo.WithTx(tx).CreateApproval(ctx, approval); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create approval")
			}
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventContentSubmitted,
				AggregateType: enums.AggregateContent,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Data: payloads.ContentSubmittedEvent{
					ContentID:         row.ID,
					TeamID:            row.TeamID,
					BrandID:           row.BrandID,
					ApprovalID:        approval.ID,
					RequestedByUserID: approval.RequestedByUserID,
					Title:             row.Title,
				},
			})
		})
}

// Approve records the decision and moves the content forward.
func (s *service) Approve(ctx context.Context, teamID, userID, contentID uuid.UUID, input DecisionInput) (*models.Content, error) {
	return s.decide(ctx, teamID, userID, contentID, enums.ContentActionApprove, input)
}

// Reject records the decision and returns the content to its author.
func (s *service) Reject(ctx context.Context, teamID, userID, contentID uuid.UUID, input DecisionInput) (*models.Content, error) {
	return s.decide(ctx, teamID, userID, contentID, enums.ContentActionReject, input)
}

func (s *service) decide(ctx context.Context, teamID, userID, contentID uuid.UUID, action enums.ContentAction, input DecisionInput) (*models.Content, error) {
	perm, _ := PermissionFor(action)
	actor, err := s.guard.Authorize(ctx, teamID, userID, perm)
	if err != nil {
		return nil, err
	}

	decision := enums.ApprovalStatusApproved
	eventType := enums.EventContentApproved
	if action == enums.ContentActionReject {
		decision = enums.ApprovalStatusRejected
		eventType = enums.EventContentRejected
	}

	return s.transition(ctx, actor, teamID, contentID, action, nil,
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			txRepo := s.repo.WithTx(tx)
			approval, err := txRepo.FindOpenApproval(ctx, row.ID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "no open approval for content")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load open approval")
			}

			now := time.Now().UTC()
			approval.Status = decision
			approval.ApproverUserID = &actor.UserID
			approval.Notes = input.Notes
			approval.DecidedAt = &now
			if err := txRepo.UpdateApproval(ctx, approval); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record approval decision")
			}

			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     eventType,
				AggregateType: enums.AggregateApproval,
				AggregateID:   approval.ID,
				Actor:         actorRef(actor),
				Data: payloads.ContentDecisionEvent{
					ContentID:      row.ID,
					TeamID:         row.TeamID,
					BrandID:        row.BrandID,
					ApprovalID:     approval.ID,
					ApproverUserID: actor.UserID,
					Decision:       decision,
					Notes:          notesValue(input.Notes),
				},
			})
		})
}

// Schedule queues approved content for a future fire time against at least
// one live integration.
func (s *service) Schedule(ctx context.Context, teamID, userID, contentID uuid.UUID, input ScheduleInput) (*models.Content, error) {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionSchedulePost)
	if err != nil {
		return nil, err
	}
	if !input.ScheduledFor.After(time.Now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_for must be in the future")
	}
	if err := s.validateIntegrations(ctx, teamID, input.IntegrationIDs); err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, teamID, contentID, enums.ContentActionSchedule,
		func(row *models.Content) {
			scheduledFor := input.ScheduledFor.UTC()
			row.ScheduledFor = &scheduledFor
			row.IntegrationIDs = dbtypes.UUIDArray(input.IntegrationIDs)
		},
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPostScheduled,
				AggregateType: enums.AggregatePost,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Data: payloads.PostScheduledEvent{
					ContentID:      row.ID,
					TeamID:         row.TeamID,
					BrandID:        row.BrandID,
					ScheduledFor:   *row.ScheduledFor,
					IntegrationIDs: row.IntegrationIDs,
				},
			})
		})
}

// Unschedule pulls a scheduled post back to approved without touching the
// content itself. This is not a delete; the content stays live.
func (s *service) Unschedule(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionSchedulePost)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, teamID, contentID, enums.ContentActionUnschedule,
		func(row *models.Content) {
			row.ScheduledFor = nil
			row.IntegrationIDs = nil
		},
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventPostUnscheduled,
				AggregateType: enums.AggregatePost,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Data: payloads.PostUnscheduledEvent{
					ContentID: row.ID,
					TeamID:    row.TeamID,
					BrandID:   row.BrandID,
				},
			})
		})
}

// Publish pushes approved content out immediately.
func (s *service) Publish(ctx context.Context, teamID, userID, contentID uuid.UUID, input PublishInput) (*models.Content, error) {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionPublishPost)
	if err != nil {
		return nil, err
	}
	if err := s.validateIntegrations(ctx, teamID, input.IntegrationIDs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.transition(ctx, actor, teamID, contentID, enums.ContentActionPublish,
		func(row *models.Content) {
			row.IntegrationIDs = dbtypes.UUIDArray(input.IntegrationIDs)
			row.PublishedAt = &now
			row.ScheduledFor = nil
		},
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			return s.spawnPosts(ctx, tx, row, actorRef(actor), false)
		})
}

// FireScheduledPublish is the system entry the scheduler worker calls when a
// fire time passes. It is not actor-gated; content no longer scheduled is a
// state conflict, not an error to retry.
func (s *service) FireScheduledPublish(ctx context.Context, contentID uuid.UUID) error {
	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		row, err := s.load(ctx, contentID)
		if err != nil {
			return err
		}
		next, ok := NextStatus(enums.ContentActionPublish, row.Status)
		if !ok || row.Status != enums.ContentStatusScheduled {
			return invalidTransition(row.Status, enums.ContentActionPublish)
		}

		now := time.Now().UTC()
		row.Status = next
		row.PublishedAt = &now
		row.ScheduledFor = nil

		var conflicted bool
		err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			ok, err := s.repo.WithTx(tx).UpdateCAS(ctx, row)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish scheduled content")
			}
			if !ok {
				conflicted = true
				return nil
			}
			return s.spawnPosts(ctx, tx, row, nil, true)
		})
		if err != nil {
			return err
		}
		if !conflicted {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "content was modified concurrently, retry")
}

// Delete soft-deletes content and remembers the status it held so a restore
// can put it back exactly where it was. Published content is immutable
// history and cannot be deleted.
func (s *service) Delete(ctx context.Context, teamID, userID, contentID uuid.UUID) error {
	actor, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionDeletePost)
	if err != nil {
		return err
	}

	_, err = s.transition(ctx, actor, teamID, contentID, enums.ContentActionDelete, nil,
		func(ctx context.Context, tx *gorm.DB, row *models.Content) error {
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventContentDeleted,
				AggregateType: enums.AggregateContent,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Data: payloads.ContentDeletedEvent{
					ContentID:   row.ID,
					TeamID:      row.TeamID,
					PriorStatus: *row.StatusBeforeDelete,
					DeletedAt:   *row.DeletedAt,
				},
			})
		})
	return err
}

// Restore returns soft-deleted content to the exact status it held before
// deletion. The caller needs the permission that gates reaching that status.
func (s *service) Restore(ctx context.Context, teamID, userID, contentID uuid.UUID) (*models.Content, error) {
	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		row, err := s.load(ctx, contentID)
		if err != nil {
			return nil, err
		}
		if row.TeamID != teamID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "content belongs to another team")
		}
		if !row.IsDeleted() {
			return nil, invalidTransition(row.Status, enums.ContentActionRestore)
		}

		prior := enums.ContentStatusDraft
		if row.StatusBeforeDelete != nil {
			prior = *row.StatusBeforeDelete
		}
		perm, ok := RestorePermissionFor(prior)
		if !ok {
			return nil, invalidTransition(prior, enums.ContentActionRestore)
		}
		actor, err := s.guard.Authorize(ctx, teamID, userID, perm)
		if err != nil {
			return nil, err
		}

		row.Status = prior
		row.StatusBeforeDelete = nil
		row.DeletedAt = nil

		var conflicted bool
		err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			ok, err := s.repo.WithTx(tx).UpdateCAS(ctx, row)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore content")
			}
			if !ok {
				conflicted = true
				return nil
			}
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventContentRestored,
				AggregateType: enums.AggregateContent,
				AggregateID:   row.ID,
				Actor:         actorRef(actor),
				Data: payloads.ContentRestoredEvent{
					ContentID:      row.ID,
					TeamID:         row.TeamID,
					RestoredStatus: prior,
				},
			})
		})
		if err != nil {
			return nil, err
		}
		if !conflicted {
			return row, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "content was modified concurrently, retry")
}

// Approvals returns the decision history for one content row.
func (s *service) Approvals(ctx context.Context, teamID, userID, contentID uuid.UUID) ([]models.Approval, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	if _, err := s.loadScoped(ctx, teamID, contentID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListApprovals(ctx, contentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list approvals")
	}
	return rows, nil
}

// transition applies one table-driven lifecycle step behind a CAS retry loop.
// mutate adjusts row fields beyond the status flip; emit runs inside the same
// transaction as the write.
func (s *service) transition(
	ctx context.Context,
	actor *models.TeamMember,
	teamID, contentID uuid.UUID,
	action enums.ContentAction,
	mutate func(row *models.Content),
	emit func(ctx context.Context, tx *gorm.DB, row *models.Content) error,
) (*models.Content, error) {
	for attempt := 0; attempt < maxSwapRetries; attempt++ {
		row, err := s.load(ctx, contentID)
		if err != nil {
			return nil, err
		}
		if row.TeamID != teamID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "content belongs to another team")
		}

		from := row.Status
		next, ok := NextStatus(action, from)
		if !ok {
			return nil, invalidTransition(from, action)
		}
		row.Status = next
		if action == enums.ContentActionDelete {
			now := time.Now().UTC()
			prior := from
			row.StatusBeforeDelete = &prior
			row.DeletedAt = &now
		}
		if mutate != nil {
			mutate(row)
		}

		var conflicted bool
		err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			ok, err := s.repo.WithTx(tx).UpdateCAS(ctx, row)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write content transition")
			}
			if !ok {
				conflicted = true
				return nil
			}
			if emit != nil {
				return emit(ctx, tx, row)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !conflicted {
			return row, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "content was modified concurrently, retry")
}

// spawnPosts writes one delivery record per target and emits the published
// event, all inside the caller's transaction.
func (s *service) spawnPosts(ctx context.Context, tx *gorm.DB, row *models.Content, actor *outbox.ActorRef, scheduled bool) error {
	if len(row.IntegrationIDs) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one integration target is required")
	}

	publishedAt := time.Now().UTC()
	if row.PublishedAt != nil {
		publishedAt = *row.PublishedAt
	}
	posts := make([]models.Post, 0, len(row.IntegrationIDs))
	for _, integrationID := range row.IntegrationIDs {
		posts = append(posts, models.Post{
			ID:             uuid.New(),
			ContentID:      row.ID,
			TeamID:         row.TeamID,
			IntegrationID:  integrationID,
			DeliveryStatus: enums.PostDeliveryStatusPending,
			PublishedAt:    publishedAt,
		})
	}
	if err := s.repo.WithTx(tx).CreatePosts(ctx, posts); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post delivery records")
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPostPublished,
		AggregateType: enums.AggregatePost,
		AggregateID:   row.ID,
		Actor:         actor,
		Data: payloads.PostPublishedEvent{
			ContentID:      row.ID,
			TeamID:         row.TeamID,
			BrandID:        row.BrandID,
			PostIDs:        postIDs,
			IntegrationIDs: row.IntegrationIDs,
			PublishedAt:    publishedAt,
			Scheduled:      scheduled,
		},
	})
}

func (s *service) validateIntegrations(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one integration target is required")
	}
	count, err := s.repo.CountActiveIntegrations(ctx, teamID, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check integrations")
	}
	if count != int64(len(ids)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "one or more integration targets are unknown for this team")
	}
	return nil
}

func (s *service) load(ctx context.Context, contentID uuid.UUID) (*models.Content, error) {
	row, err := s.repo.FindByID(ctx, contentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "content not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content")
	}
	return row, nil
}

func (s *service) loadScoped(ctx context.Context, teamID, contentID uuid.UUID) (*models.Content, error) {
	row, err := s.load(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if row.TeamID != teamID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "content belongs to another team")
	}
	return row, nil
}

func (s *service) loadTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team")
	}
	return team, nil
}

func (s *service) loadBrand(ctx context.Context, brandID uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindBrand(ctx, brandID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	return brand, nil
}

func notesValue(notes *string) string {
	if notes == nil {
		return ""
	}
	return *notes
}

func actorRef(actor *models.TeamMember) *outbox.ActorRef {
	if actor == nil {
		return nil
	}
	teamID := actor.TeamID
	return &outbox.ActorRef{
		UserID: actor.UserID,
		TeamID: &teamID,
		Role:   string(actor.Role),
	}
}
