package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/pkg/db/models"
	dbtypes "github.com/postlane/postlane-backend/pkg/db/types"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/outbox"
)

type stubRepo struct {
	contents     map[uuid.UUID]*models.Content
	approvals    map[uuid.UUID]*models.Approval
	posts        []models.Post
	teams        map[uuid.UUID]*models.Team
	brands       map[uuid.UUID]*models.Brand
	integrations map[uuid.UUID]uuid.UUID // integration id -> team id
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		contents:     map[uuid.UUID]*models.Content{},
		approvals:    map[uuid.UUID]*models.Approval{},
		teams:        map[uuid.UUID]*models.Team{},
		brands:       map[uuid.UUID]*models.Brand{},
		integrations: map[uuid.UUID]uuid.UUID{},
	}
}

func (s *stubRepo) WithTx(*gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, row *models.Content) error {
	copied := *row
	s.contents[row.ID] = &copied
	return nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Content, error) {
	row, ok := s.contents[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *stubRepo) UpdateCAS(_ context.Context, row *models.Content) (bool, error) {
	stored, ok := s.contents[row.ID]
	if !ok || stored.Version != row.Version {
		return false, nil
	}
	copied := *row
	copied.Version++
	s.contents[row.ID] = &copied
	row.Version++
	return true, nil
}

func (s *stubRepo) List(_ context.Context, opts ListOptions) ([]models.Content, int64, error) {
	var out []models.Content
	for _, row := range s.contents {
		if row.TeamID != opts.TeamID {
			continue
		}
		if opts.Status != nil && row.Status != *opts.Status {
			continue
		}
		if opts.Status == nil && !opts.IncludeDeleted && row.IsDeleted() {
			continue
		}
		out = append(out, *row)
	}
	return out, int64(len(out)), nil
}

func (s *stubRepo) DueScheduled(_ context.Context, now time.Time, limit int) ([]models.Content, error) {
	var out []models.Content
	for _, row := range s.contents {
		if row.Status == enums.ContentStatusScheduled && row.ScheduledFor != nil && !row.ScheduledFor.After(now) {
			out = append(out, *row)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubRepo) CreateApproval(_ context.Context, row *models.Approval) error {
	copied := *row
	s.approvals[row.ID] = &copied
	return nil
}

func (s *stubRepo) FindOpenApproval(_ context.Context, contentID uuid.UUID) (*models.Approval, error) {
	for _, row := range s.approvals {
		if row.ContentID == contentID && row.Status == enums.ApprovalStatusPending {
			copied := *row
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) UpdateApproval(_ context.Context, row *models.Approval) error {
	copied := *row
	s.approvals[row.ID] = &copied
	return nil
}

func (s *stubRepo) ListApprovals(_ context.Context, contentID uuid.UUID) ([]models.Approval, error) {
	var out []models.Approval
	for _, row := range s.approvals {
		if row.ContentID == contentID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubRepo) CreatePosts(_ context.Context, rows []models.Post) error {
	s.posts = append(s.posts, rows...)
	return nil
}

func (s *stubRepo) CountActiveIntegrations(_ context.Context, teamID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range ids {
		if owner, ok := s.integrations[id]; ok && owner == teamID {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) FindBrand(_ context.Context, brandID uuid.UUID) (*models.Brand, error) {
	row, ok := s.brands[brandID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubRepo) FindTeam(_ context.Context, teamID uuid.UUID) (*models.Team, error) {
	row, ok := s.teams[teamID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

// stubBoundary authorizes from an in-memory member snapshot and records the
// quota charges handed to Execute.
type stubBoundary struct {
	members map[string]*models.TeamMember
	charges []authz.QuotaCharge
	perms   []enums.Permission
}

func boundaryKey(teamID, userID uuid.UUID) string {
	return teamID.String() + "/" + userID.String()
}

func (s *stubBoundary) lookup(teamID, userID uuid.UUID) *models.TeamMember {
	m, ok := s.members[boundaryKey(teamID, userID)]
	if !ok || m.IsDeleted() {
		return nil
	}
	return m
}

func (s *stubBoundary) Authorize(_ context.Context, teamID, userID uuid.UUID, perm enums.Permission) (*models.TeamMember, error) {
	s.perms = append(s.perms, perm)
	m := s.lookup(teamID, userID)
	if m == nil || !m.HasPermission(perm) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission")
	}
	return m, nil
}

func (s *stubBoundary) RequireMember(_ context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	m := s.lookup(teamID, userID)
	if m == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission")
	}
	return m, nil
}

func (s *stubBoundary) Execute(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission, charge *authz.QuotaCharge, fn func(ctx context.Context, actor *models.TeamMember) error) error {
	actor, err := s.Authorize(ctx, teamID, userID, perm)
	if err != nil {
		return err
	}
	if charge != nil {
		s.charges = append(s.charges, *charge)
	}
	return fn(ctx, actor)
}

type recordedEvent struct {
	eventType enums.OutboxEventType
	data      any
}

type stubEmitter struct {
	events []recordedEvent
}

func (s *stubEmitter) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, recordedEvent{eventType: event.EventType, data: event.Data})
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fixture struct {
	svc      Service
	repo     *stubRepo
	guard    *stubBoundary
	emitter  *stubEmitter
	teamID   uuid.UUID
	brandID  uuid.UUID
	ownerID  uuid.UUID
	actorID  uuid.UUID
	targetID uuid.UUID
}

func newFixture(t *testing.T, perms ...enums.Permission) *fixture {
	t.Helper()

	f := &fixture{
		repo:     newStubRepo(),
		guard:    &stubBoundary{members: map[string]*models.TeamMember{}},
		emitter:  &stubEmitter{},
		teamID:   uuid.New(),
		brandID:  uuid.New(),
		ownerID:  uuid.New(),
		actorID:  uuid.New(),
		targetID: uuid.New(),
	}
	f.repo.teams[f.teamID] = &models.Team{ID: f.teamID, Name: "Acme Social", OwnerID: f.ownerID}
	f.repo.brands[f.brandID] = &models.Brand{ID: f.brandID, TeamID: f.teamID, Name: "Acme"}
	f.repo.integrations[f.targetID] = f.teamID

	member := &models.TeamMember{
		ID:     uuid.New(),
		TeamID: f.teamID,
		UserID: f.actorID,
		Role:   enums.MemberRoleSocialMediaManager,
	}
	for _, p := range perms {
		member.Permissions = append(member.Permissions, string(p))
	}
	f.guard.members[boundaryKey(f.teamID, f.actorID)] = member

	svc, err := NewService(ServiceParams{
		Repo:              f.repo,
		Boundary:          f.guard,
		Events:            f.emitter,
		TransactionRunner: stubTxRunner{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedContent(status enums.ContentStatus) *models.Content {
	row := &models.Content{
		ID:              uuid.New(),
		BrandID:         f.brandID,
		TeamID:          f.teamID,
		CreatedByUserID: f.actorID,
		Title:           "Launch teaser",
		Status:          status,
		Version:         1,
	}
	f.repo.contents[row.ID] = row
	return row
}

func assertErrCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateChargesCampaignQuota(t *testing.T) {
	f := newFixture(t, enums.PermissionCreateContent)

	row, err := f.svc.Create(context.Background(), f.teamID, f.actorID, CreateInput{
		BrandID: f.brandID,
		Title:   "Spring launch",
		Body:    "copy",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if row.Status != enums.ContentStatusDraft {
		t.Fatalf("expected draft, got %s", row.Status)
	}
	if len(f.guard.charges) != 1 {
		t.Fatalf("expected one quota charge, got %d", len(f.guard.charges))
	}
	charge := f.guard.charges[0]
	if charge.AccountID != f.ownerID || charge.Resource != enums.QuotaResourceCampaigns || charge.Amount != 1 {
		t.Fatalf("unexpected charge %+v", charge)
	}
}

func TestCreateRejectsForeignBrand(t *testing.T) {
	f := newFixture(t, enums.PermissionCreateContent)
	foreignBrand := uuid.New()
	f.repo.brands[foreignBrand] = &models.Brand{ID: foreignBrand, TeamID: uuid.New()}

	_, err := f.svc.Create(context.Background(), f.teamID, f.actorID, CreateInput{
		BrandID: foreignBrand,
		Title:   "Spring launch",
	})
	assertErrCode(t, err, pkgerrors.CodeForbidden)
}

func TestSubmitOpensApproval(t *testing.T) {
	f := newFixture(t, enums.PermissionSubmitForApproval)
	row := f.seedContent(enums.ContentStatusDraft)

	updated, err := f.svc.Submit(context.Background(), f.teamID, f.actorID, row.ID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if updated.Status != enums.ContentStatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", updated.Status)
	}
	if len(f.repo.approvals) != 1 {
		t.Fatalf("expected one approval, got %d", len(f.repo.approvals))
	}
	for _, a := range f.repo.approvals {
		if a.Status != enums.ApprovalStatusPending || a.RequestedByUserID != f.actorID {
			t.Fatalf("unexpected approval %+v", a)
		}
	}
	if len(f.emitter.events) != 1 || f.emitter.events[0].eventType != enums.EventContentSubmitted {
		t.Fatalf("unexpected events %+v", f.emitter.events)
	}
}

// Publishing straight from draft must fail structurally, before any side
// effect, because (publish, draft) is absent from the table.
func TestPublishFromDraftIsStructurallyIllegal(t *testing.T) {
	f := newFixture(t, enums.PermissionPublishPost)
	row := f.seedContent(enums.ContentStatusDraft)

	_, err := f.svc.Publish(context.Background(), f.teamID, f.actorID, row.ID, PublishInput{
		IntegrationIDs: []uuid.UUID{f.targetID},
	})
	assertErrCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.repo.posts) != 0 || len(f.emitter.events) != 0 {
		t.Fatal("illegal transition must not produce side effects")
	}
}

func TestApproveDecidesOpenApproval(t *testing.T) {
	f := newFixture(t, enums.PermissionSubmitForApproval, enums.PermissionApproveContent)
	row := f.seedContent(enums.ContentStatusDraft)
	if _, err := f.svc.Submit(context.Background(), f.teamID, f.actorID, row.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	notes := "looks good"
	updated, err := f.svc.Approve(context.Background(), f.teamID, f.actorID, row.ID, DecisionInput{Notes: &notes})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if updated.Status != enums.ContentStatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	for _, a := range f.repo.approvals {
		if a.Status != enums.ApprovalStatusApproved {
			t.Fatalf("approval not decided: %+v", a)
		}
		if a.ApproverUserID == nil || *a.ApproverUserID != f.actorID {
			t.Fatalf("approver not recorded: %+v", a)
		}
		if a.DecidedAt == nil {
			t.Fatal("decided_at not set")
		}
	}
}

func TestApproveWithoutOpenApprovalConflicts(t *testing.T) {
	f := newFixture(t, enums.PermissionApproveContent)
	row := f.seedContent(enums.ContentStatusPendingApproval)

	_, err := f.svc.Approve(context.Background(), f.teamID, f.actorID, row.ID, DecisionInput{})
	assertErrCode(t, err, pkgerrors.CodeStateConflict)
}

// A rejected revision goes back through the queue with a fresh approval row;
// the decided row stays as audit history.
func TestResubmitAfterRejectOpensNewApproval(t *testing.T) {
	f := newFixture(t,
		enums.PermissionSubmitForApproval,
		enums.PermissionRejectContent,
	)
	row := f.seedContent(enums.ContentStatusDraft)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.teamID, f.actorID, row.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Reject(ctx, f.teamID, f.actorID, row.ID, DecisionInput{}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.svc.Submit(ctx, f.teamID, f.actorID, row.ID); err != nil {
		t.Fatalf("resubmit: %v", err)
	}

	history, err := f.svc.Approvals(ctx, f.teamID, f.actorID, row.ID)
	if err != nil {
		t.Fatalf("approvals: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 approval rows, got %d", len(history))
	}
	var pending, rejected int
	for _, a := range history {
		switch a.Status {
		case enums.ApprovalStatusPending:
			pending++
		case enums.ApprovalStatusRejected:
			rejected++
		}
	}
	if pending != 1 || rejected != 1 {
		t.Fatalf("expected one pending and one rejected, got %d/%d", pending, rejected)
	}
}

func TestScheduleValidatesInput(t *testing.T) {
	f := newFixture(t, enums.PermissionSchedulePost)
	row := f.seedContent(enums.ContentStatusApproved)
	ctx := context.Background()

	_, err := f.svc.Schedule(ctx, f.teamID, f.actorID, row.ID, ScheduleInput{
		ScheduledFor:   time.Now().Add(-time.Hour),
		IntegrationIDs: []uuid.UUID{f.targetID},
	})
	assertErrCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Schedule(ctx, f.teamID, f.actorID, row.ID, ScheduleInput{
		ScheduledFor:   time.Now().Add(time.Hour),
		IntegrationIDs: []uuid.UUID{uuid.New()},
	})
	assertErrCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Schedule(ctx, f.teamID, f.actorID, row.ID, ScheduleInput{
		ScheduledFor: time.Now().Add(time.Hour),
	})
	assertErrCode(t, err, pkgerrors.CodeValidation)
}

func TestScheduleThenUnschedule(t *testing.T) {
	f := newFixture(t, enums.PermissionSchedulePost)
	row := f.seedContent(enums.ContentStatusApproved)
	ctx := context.Background()

	scheduled, err := f.svc.Schedule(ctx, f.teamID, f.actorID, row.ID, ScheduleInput{
		ScheduledFor:   time.Now().Add(2 * time.Hour),
		IntegrationIDs: []uuid.UUID{f.targetID},
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.Status != enums.ContentStatusScheduled || scheduled.ScheduledFor == nil {
		t.Fatalf("unexpected scheduled row %+v", scheduled)
	}

	back, err := f.svc.Unschedule(ctx, f.teamID, f.actorID, row.ID)
	if err != nil {
		t.Fatalf("unschedule: %v", err)
	}
	if back.Status != enums.ContentStatusApproved {
		t.Fatalf("expected approved, got %s", back.Status)
	}
	if back.ScheduledFor != nil || len(back.IntegrationIDs) != 0 {
		t.Fatalf("schedule fields not cleared: %+v", back)
	}
	// Unschedule keeps the content; nothing was deleted.
	if back.IsDeleted() {
		t.Fatal("unschedule must not delete content")
	}
}

func TestPublishSpawnsDeliveryRecords(t *testing.T) {
	f := newFixture(t, enums.PermissionPublishPost)
	row := f.seedContent(enums.ContentStatusApproved)
	secondTarget := uuid.New()
	f.repo.integrations[secondTarget] = f.teamID

	published, err := f.svc.Publish(context.Background(), f.teamID, f.actorID, row.ID, PublishInput{
		IntegrationIDs: []uuid.UUID{f.targetID, secondTarget},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != enums.ContentStatusPublished || published.PublishedAt == nil {
		t.Fatalf("unexpected published row %+v", published)
	}
	if len(f.repo.posts) != 2 {
		t.Fatalf("expected 2 delivery records, got %d", len(f.repo.posts))
	}
	for _, p := range f.repo.posts {
		if p.DeliveryStatus != enums.PostDeliveryStatusPending {
			t.Fatalf("expected pending delivery, got %s", p.DeliveryStatus)
		}
	}
}

func TestFireScheduledPublish(t *testing.T) {
	f := newFixture(t)
	row := f.seedContent(enums.ContentStatusScheduled)
	fireAt := time.Now().Add(-time.Minute)
	row.ScheduledFor = &fireAt
	row.IntegrationIDs = dbtypes.UUIDArray{f.targetID}

	if err := f.svc.FireScheduledPublish(context.Background(), row.ID); err != nil {
		t.Fatalf("fire scheduled publish: %v", err)
	}
	stored := f.repo.contents[row.ID]
	if stored.Status != enums.ContentStatusPublished || stored.PublishedAt == nil {
		t.Fatalf("unexpected row after fire %+v", stored)
	}
	if len(f.repo.posts) != 1 {
		t.Fatalf("expected delivery record, got %d", len(f.repo.posts))
	}
}

func TestFireScheduledPublishOnUnscheduledConflicts(t *testing.T) {
	f := newFixture(t)
	row := f.seedContent(enums.ContentStatusApproved)

	err := f.svc.FireScheduledPublish(context.Background(), row.ID)
	assertErrCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeletePublishedForbiddenByTable(t *testing.T) {
	f := newFixture(t, enums.PermissionDeletePost)
	row := f.seedContent(enums.ContentStatusPublished)

	err := f.svc.Delete(context.Background(), f.teamID, f.actorID, row.ID)
	assertErrCode(t, err, pkgerrors.CodeStateConflict)
}

func TestDeleteRestoreRoundTrip(t *testing.T) {
	f := newFixture(t, enums.PermissionDeletePost, enums.PermissionSchedulePost)
	row := f.seedContent(enums.ContentStatusScheduled)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, f.teamID, f.actorID, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stored := f.repo.contents[row.ID]
	if stored.Status != enums.ContentStatusDeleted || !stored.IsDeleted() {
		t.Fatalf("unexpected deleted row %+v", stored)
	}
	if stored.StatusBeforeDelete == nil || *stored.StatusBeforeDelete != enums.ContentStatusScheduled {
		t.Fatalf("prior status not preserved: %+v", stored.StatusBeforeDelete)
	}

	restored, err := f.svc.Restore(ctx, f.teamID, f.actorID, row.ID)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Status != enums.ContentStatusScheduled {
		t.Fatalf("expected scheduled after restore, got %s", restored.Status)
	}
	if restored.IsDeleted() || restored.StatusBeforeDelete != nil {
		t.Fatalf("delete markers not cleared: %+v", restored)
	}
}

// Restoring to scheduled demands SCHEDULE_POST; a caller holding only the
// delete token cannot put the content back.
func TestRestoreRequiresStatusPermission(t *testing.T) {
	f := newFixture(t, enums.PermissionDeletePost)
	row := f.seedContent(enums.ContentStatusScheduled)
	ctx := context.Background()

	if err := f.svc.Delete(ctx, f.teamID, f.actorID, row.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err := f.svc.Restore(ctx, f.teamID, f.actorID, row.ID)
	assertErrCode(t, err, pkgerrors.CodeForbidden)
}

func TestRestoreNonDeletedConflicts(t *testing.T) {
	f := newFixture(t, enums.PermissionCreateContent)
	row := f.seedContent(enums.ContentStatusDraft)

	_, err := f.svc.Restore(context.Background(), f.teamID, f.actorID, row.ID)
	assertErrCode(t, err, pkgerrors.CodeStateConflict)
}

func TestBulkSubmitPartialSuccess(t *testing.T) {
	f := newFixture(t, enums.PermissionSubmitForApproval)
	draft := f.seedContent(enums.ContentStatusDraft)
	published := f.seedContent(enums.ContentStatusPublished)
	missing := uuid.New()

	result, err := f.svc.BulkSubmit(context.Background(), f.teamID, f.actorID,
		[]uuid.UUID{draft.ID, published.ID, missing})
	if err != nil {
		t.Fatalf("bulk submit: %v", err)
	}
	if len(result.Succeeded) != 1 || result.Succeeded[0] != draft.ID {
		t.Fatalf("unexpected successes %+v", result.Succeeded)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %d", len(result.Failed))
	}
	codes := map[uuid.UUID]string{}
	for _, failure := range result.Failed {
		codes[failure.ContentID] = failure.Code
	}
	if codes[published.ID] != string(pkgerrors.CodeStateConflict) {
		t.Fatalf("unexpected failure code for published item: %s", codes[published.ID])
	}
	if codes[missing] != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected failure code for missing item: %s", codes[missing])
	}
	if f.repo.contents[draft.ID].Status != enums.ContentStatusPendingApproval {
		t.Fatal("successful item did not transition")
	}
}

func TestCrossTeamContentForbidden(t *testing.T) {
	f := newFixture(t, enums.PermissionSubmitForApproval)
	foreign := f.seedContent(enums.ContentStatusDraft)
	foreign.TeamID = uuid.New()

	_, err := f.svc.Submit(context.Background(), f.teamID, f.actorID, foreign.ID)
	assertErrCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateOnlyDraftOrRejected(t *testing.T) {
	f := newFixture(t, enums.PermissionEditContent)
	approved := f.seedContent(enums.ContentStatusApproved)
	ctx := context.Background()

	newTitle := "tweak"
	_, err := f.svc.Update(ctx, f.teamID, f.actorID, approved.ID, UpdateInput{Title: &newTitle})
	assertErrCode(t, err, pkgerrors.CodeStateConflict)

	draft := f.seedContent(enums.ContentStatusDraft)
	updated, err := f.svc.Update(ctx, f.teamID, f.actorID, draft.ID, UpdateInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("title not updated: %s", updated.Title)
	}
}
