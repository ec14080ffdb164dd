package teams

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/permissions"
)

type stubRepo struct {
	mu      sync.Mutex
	teams   map[uuid.UUID]*models.Team
	members map[uuid.UUID]*models.TeamMember
	users   map[uuid.UUID]*models.User
	brands  map[uuid.UUID]*models.Brand
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		teams:   map[uuid.UUID]*models.Team{},
		members: map[uuid.UUID]*models.TeamMember{},
		users:   map[uuid.UUID]*models.User{},
		brands:  map[uuid.UUID]*models.Brand{},
	}
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) CreateTeam(ctx context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *stubRepo) FindTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.teams[teamID]
	if !ok || row.IsDeleted() {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) UpdateTeam(ctx context.Context, team *models.Team) error {
	return r.CreateTeam(ctx, team)
}

func (r *stubRepo) CreateMember(ctx context.Context, member *models.TeamMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *stubRepo) GetMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.members {
		if row.TeamID == teamID && row.UserID == userID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRepo) GetMemberByID(ctx context.Context, memberID uuid.UUID) (*models.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.members[memberID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) UpdateMember(ctx context.Context, member *models.TeamMember) error {
	return r.CreateMember(ctx, member)
}

func (r *stubRepo) ListMembers(ctx context.Context, teamID uuid.UUID, includeRemoved bool) ([]models.TeamMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TeamMember
	for _, row := range r.members {
		if row.TeamID != teamID {
			continue
		}
		if row.IsDeleted() && !includeRemoved {
			continue
		}
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubRepo) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.users[userID]
	if !ok || !row.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) FindBrand(ctx context.Context, brandID uuid.UUID) (*models.Brand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.brands[brandID]
	if !ok || row.IsDeleted() {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *stubRepo) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *brand
	r.brands[brand.ID] = &copied
	return nil
}

func (r *stubRepo) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MemberWithTeam, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []MemberWithTeam
	for _, row := range r.members {
		if row.UserID != userID || row.IsDeleted() {
			continue
		}
		team := r.teams[row.TeamID]
		if team == nil || team.IsDeleted() {
			continue
		}
		out = append(out, MemberWithTeam{
			MemberID:  row.ID,
			TeamID:    row.TeamID,
			UserID:    row.UserID,
			TeamName:  team.Name,
			Role:      row.Role,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

type stubQuota struct {
	mu         sync.Mutex
	consumes   int
	releases   int
	consumeErr error
}

func (q *stubQuota) Check(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	return nil
}

func (q *stubQuota) Consume(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.consumeErr != nil {
		return q.consumeErr
	}
	q.consumes++
	return nil
}

func (q *stubQuota) Release(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource, amount int64) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.releases++
	return nil
}

func (q *stubQuota) Usage(ctx context.Context, accountID uuid.UUID) ([]quota.ResourceUsage, error) {
	return nil, nil
}

func (q *stubQuota) ApplyPlanLimits(ctx context.Context, accountID uuid.UUID, planID string) error {
	return nil
}

type stubBoundary struct {
	repo  *stubRepo
	quota *stubQuota
}

func (b *stubBoundary) Authorize(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission) (*models.TeamMember, error) {
	member, err := b.repo.GetMember(ctx, teamID, userID)
	if err != nil || member.IsDeleted() || !member.HasPermission(perm) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission")
	}
	return member, nil
}

func (b *stubBoundary) RequireMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	member, err := b.repo.GetMember(ctx, teamID, userID)
	if err != nil || member.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "missing permission")
	}
	return member, nil
}

func (b *stubBoundary) Execute(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission, charge *authz.QuotaCharge, fn func(ctx context.Context, actor *models.TeamMember) error) error {
	actor, err := b.Authorize(ctx, teamID, userID, perm)
	if err != nil {
		return err
	}
	if charge != nil {
		if err := b.quota.Consume(ctx, charge.AccountID, charge.Resource, charge.Amount); err != nil {
			return err
		}
	}
	if err := fn(ctx, actor); err != nil {
		if charge != nil {
			_ = b.quota.Release(ctx, charge.AccountID, charge.Resource, charge.Amount)
		}
		return err
	}
	return nil
}

type recordedEvent struct {
	eventType enums.OutboxEventType
	data      any
}

type stubEmitter struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *stubEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{eventType: event.EventType, data: event.Data})
	return nil
}

func (e *stubEmitter) types() []enums.OutboxEventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]enums.OutboxEventType, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.eventType)
	}
	return out
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fixture struct {
	svc     Service
	repo    *stubRepo
	quota   *stubQuota
	emitter *stubEmitter
	teamID  uuid.UUID
	ownerID uuid.UUID
	adminID uuid.UUID
}

// newFixture seeds a team with an owner and an admin member holding the
// given permissions.
func newFixture(t *testing.T, adminPerms ...enums.Permission) *fixture {
	t.Helper()
	repo := newStubRepo()
	q := &stubQuota{}
	emitter := &stubEmitter{}
	svc, err := NewService(ServiceParams{
		Repo:              repo,
		Boundary:          &stubBoundary{repo: repo, quota: q},
		Quota:             q,
		Events:            emitter,
		TransactionRunner: stubTxRunner{},
	})
	require.NoError(t, err)

	f := &fixture{
		svc:     svc,
		repo:    repo,
		quota:   q,
		emitter: emitter,
		teamID:  uuid.New(),
		ownerID: uuid.New(),
		adminID: uuid.New(),
	}
	repo.teams[f.teamID] = &models.Team{ID: f.teamID, Name: "acme social", OwnerID: f.ownerID}
	repo.users[f.ownerID] = &models.User{ID: f.ownerID, IsActive: true}
	repo.users[f.adminID] = &models.User{ID: f.adminID, IsActive: true}
	ownerRow := &models.TeamMember{
		ID:          uuid.New(),
		TeamID:      f.teamID,
		UserID:      f.ownerID,
		Role:        enums.MemberRoleVendor,
		Permissions: snapshotFor(enums.MemberRoleVendor),
	}
	repo.members[ownerRow.ID] = ownerRow

	grants := make(pq.StringArray, 0, len(adminPerms))
	for _, p := range adminPerms {
		grants = append(grants, string(p))
	}
	adminRow := &models.TeamMember{
		ID:          uuid.New(),
		TeamID:      f.teamID,
		UserID:      f.adminID,
		Role:        enums.MemberRoleTeamLeader,
		Permissions: grants,
	}
	repo.members[adminRow.ID] = adminRow
	return f
}

func (f *fixture) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	id := uuid.New()
	f.repo.mu.Lock()
	f.repo.users[id] = &models.User{ID: id, IsActive: true}
	f.repo.mu.Unlock()
	return id
}

func (f *fixture) seedMember(t *testing.T, userID uuid.UUID, role enums.MemberRole) *models.TeamMember {
	t.Helper()
	row := &models.TeamMember{
		ID:          uuid.New(),
		TeamID:      f.teamID,
		UserID:      userID,
		Role:        role,
		Permissions: snapshotFor(role),
	}
	f.repo.mu.Lock()
	f.repo.members[row.ID] = row
	f.repo.mu.Unlock()
	return row
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected app error, got %v", err)
	assert.Equal(t, code, typed.Code())
}

func TestCreateTeamSeatsOwnerAsVendor(t *testing.T) {
	f := newFixture(t)
	ownerID := f.seedUser(t)

	team, err := f.svc.CreateTeam(context.Background(), ownerID, CreateTeamInput{Name: "  northwind  "})
	require.NoError(t, err)
	assert.Equal(t, "northwind", team.Name)
	assert.Equal(t, ownerID, team.OwnerID)

	member, err := f.repo.GetMember(context.Background(), team.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, enums.MemberRoleVendor, member.Role)
	assert.ElementsMatch(t, snapshotFor(enums.MemberRoleVendor), member.Permissions)
}

func TestCreateTeamValidatesInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTeam(context.Background(), uuid.Nil, CreateTeamInput{Name: "x"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.CreateTeam(context.Background(), f.ownerID, CreateTeamInput{Name: "   "})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.CreateTeam(context.Background(), uuid.New(), CreateTeamInput{Name: "ghost owner"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestAddMemberChargesSeatQuota(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember)
	userID := f.seedUser(t)

	member, err := f.svc.AddMember(context.Background(), f.teamID, f.adminID, AddMemberInput{
		UserID: userID,
		Role:   enums.MemberRoleDesigner,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.quota.consumes)
	assert.Equal(t, enums.MemberRoleDesigner, member.Role)
	assert.ElementsMatch(t, snapshotFor(enums.MemberRoleDesigner), pq.StringArray(member.Permissions))
	require.NotNil(t, member.InvitedByUserID)
	assert.Equal(t, f.adminID, *member.InvitedByUserID)
	assert.Equal(t, []enums.OutboxEventType{enums.EventMemberAdded}, f.emitter.types())
}

func TestAddMemberWithoutPermissionForbidden(t *testing.T) {
	f := newFixture(t) // admin holds no grants
	userID := f.seedUser(t)

	_, err := f.svc.AddMember(context.Background(), f.teamID, f.adminID, AddMemberInput{
		UserID: userID,
		Role:   enums.MemberRoleDesigner,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
	assert.Zero(t, f.quota.consumes)
}

func TestAddMemberDuplicateConflictsAndReleasesSeat(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember)
	userID := f.seedUser(t)
	f.seedMember(t, userID, enums.MemberRoleCopywriter)

	_, err := f.svc.AddMember(context.Background(), f.teamID, f.adminID, AddMemberInput{
		UserID: userID,
		Role:   enums.MemberRoleDesigner,
	})
	assertCode(t, err, pkgerrors.CodeConflict)
	assert.Equal(t, f.quota.consumes, f.quota.releases, "failed add must hand the seat back")
}

func TestAddMemberRejectsVendorRole(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember)
	userID := f.seedUser(t)

	_, err := f.svc.AddMember(context.Background(), f.teamID, f.adminID, AddMemberInput{
		UserID: userID,
		Role:   enums.MemberRoleVendor,
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestAddMemberUnknownUserNotFound(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember)

	_, err := f.svc.AddMember(context.Background(), f.teamID, f.adminID, AddMemberInput{
		UserID: uuid.New(),
		Role:   enums.MemberRoleDesigner,
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveMemberSoftDeletesAndReleasesSeat(t *testing.T) {
	f := newFixture(t, enums.PermissionRemoveMember)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)

	err := f.svc.RemoveMember(context.Background(), f.teamID, f.adminID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.quota.releases)

	row, err := f.repo.GetMemberByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, row.IsDeleted(), "removal must keep the row")
	assert.Equal(t, []enums.OutboxEventType{enums.EventMemberRemoved}, f.emitter.types())
}

func TestRemoveOwnerForbidden(t *testing.T) {
	f := newFixture(t, enums.PermissionRemoveMember)

	owner, err := f.repo.GetMember(context.Background(), f.teamID, f.ownerID)
	require.NoError(t, err)

	err = f.svc.RemoveMember(context.Background(), f.teamID, f.adminID, owner.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)
	assert.Zero(t, f.quota.releases)
}

func TestRemoveMemberTwiceConflicts(t *testing.T) {
	f := newFixture(t, enums.PermissionRemoveMember)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)

	require.NoError(t, f.svc.RemoveMember(context.Background(), f.teamID, f.adminID, member.ID))
	err := f.svc.RemoveMember(context.Background(), f.teamID, f.adminID, member.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	assert.Equal(t, 1, f.quota.releases)
}

func TestRestoreMemberConsumesSeatAndKeepsSnapshot(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember, enums.PermissionRemoveMember)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)
	custom := pq.StringArray{string(enums.PermissionCreateContent)}
	member.Permissions = custom
	require.NoError(t, f.repo.UpdateMember(context.Background(), member))
	require.NoError(t, f.svc.RemoveMember(context.Background(), f.teamID, f.adminID, member.ID))

	restored, err := f.svc.RestoreMember(context.Background(), f.teamID, f.adminID, member.ID)
	require.NoError(t, err)
	assert.False(t, restored.Removed)
	assert.ElementsMatch(t, custom, pq.StringArray(restored.Permissions))
	assert.Equal(t, 1, f.quota.consumes)
	assert.Equal(t, []enums.OutboxEventType{enums.EventMemberRemoved, enums.EventMemberRestored}, f.emitter.types())
}

func TestRestoreActiveMemberConflicts(t *testing.T) {
	f := newFixture(t, enums.PermissionAddMember)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)

	_, err := f.svc.RestoreMember(context.Background(), f.teamID, f.adminID, member.ID)
	assertCode(t, err, pkgerrors.CodeStateConflict)
	assert.Equal(t, f.quota.consumes, f.quota.releases, "failed restore must hand the seat back")
}

func TestUpdateMemberRoleReseedsSnapshot(t *testing.T) {
	f := newFixture(t, enums.PermissionUpdateMemberRole)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleCopywriter)
	member.Permissions = pq.StringArray{string(enums.PermissionViewAnalytics)}
	require.NoError(t, f.repo.UpdateMember(context.Background(), member))

	updated, err := f.svc.UpdateMemberRole(context.Background(), f.teamID, f.adminID, member.ID, UpdateRoleInput{
		Role: enums.MemberRoleSocialMediaManager,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.MemberRoleSocialMediaManager, updated.Role)
	assert.ElementsMatch(t, snapshotFor(enums.MemberRoleSocialMediaManager), pq.StringArray(updated.Permissions))
}

func TestUpdateOwnerRoleForbidden(t *testing.T) {
	f := newFixture(t, enums.PermissionUpdateMemberRole)
	owner, err := f.repo.GetMember(context.Background(), f.teamID, f.ownerID)
	require.NoError(t, err)

	_, err = f.svc.UpdateMemberRole(context.Background(), f.teamID, f.adminID, owner.ID, UpdateRoleInput{
		Role: enums.MemberRoleDesigner,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateMemberPermissionsRejectsUnknownTokens(t *testing.T) {
	f := newFixture(t, enums.PermissionUpdateMemberPermissions)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)

	_, err := f.svc.UpdateMemberPermissions(context.Background(), f.teamID, f.adminID, member.ID, UpdatePermissionsInput{
		Permissions: []string{string(enums.PermissionCreateContent), "LAUNCH_ROCKETS"},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	row, err := f.repo.GetMemberByID(context.Background(), member.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, snapshotFor(enums.MemberRoleDesigner), row.Permissions, "rejected update must not write")
}

func TestUpdateMemberPermissionsReplacesSnapshot(t *testing.T) {
	f := newFixture(t, enums.PermissionUpdateMemberPermissions)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)
	grants := []string{string(enums.PermissionCreateContent), string(enums.PermissionSchedulePost)}

	updated, err := f.svc.UpdateMemberPermissions(context.Background(), f.teamID, f.adminID, member.ID, UpdatePermissionsInput{
		Permissions: grants,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, grants, updated.Permissions)
	require.True(t, permissions.IsKnown(updated.Permissions[0]))
}

func TestAssignBrandToMember(t *testing.T) {
	f := newFixture(t, enums.PermissionAssignBrand)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)
	brandID := uuid.New()
	f.repo.brands[brandID] = &models.Brand{ID: brandID, TeamID: f.teamID, Name: "acme"}

	err := f.svc.AssignBrand(context.Background(), f.teamID, f.adminID, AssignBrandInput{
		BrandID:  brandID,
		MemberID: member.ID,
	})
	require.NoError(t, err)

	brand, err := f.repo.FindBrand(context.Background(), brandID)
	require.NoError(t, err)
	require.NotNil(t, brand.AssignedMemberID)
	assert.Equal(t, member.ID, *brand.AssignedMemberID)
	assert.Equal(t, []enums.OutboxEventType{enums.EventBrandAssigned}, f.emitter.types())
}

func TestAssignForeignBrandForbidden(t *testing.T) {
	f := newFixture(t, enums.PermissionAssignBrand)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)
	brandID := uuid.New()
	f.repo.brands[brandID] = &models.Brand{ID: brandID, TeamID: uuid.New(), Name: "other"}

	err := f.svc.AssignBrand(context.Background(), f.teamID, f.adminID, AssignBrandInput{
		BrandID:  brandID,
		MemberID: member.ID,
	})
	assertCode(t, err, pkgerrors.CodeForbidden)
}

func TestAssignBrandToRemovedMemberConflicts(t *testing.T) {
	f := newFixture(t, enums.PermissionAssignBrand)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)
	now := time.Now().UTC()
	member.DeletedAt = &now
	require.NoError(t, f.repo.UpdateMember(context.Background(), member))
	brandID := uuid.New()
	f.repo.brands[brandID] = &models.Brand{ID: brandID, TeamID: f.teamID, Name: "acme"}

	err := f.svc.AssignBrand(context.Background(), f.teamID, f.adminID, AssignBrandInput{
		BrandID:  brandID,
		MemberID: member.ID,
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListUserTeamsSkipsRemovedMemberships(t *testing.T) {
	f := newFixture(t)
	userID := f.seedUser(t)
	member := f.seedMember(t, userID, enums.MemberRoleDesigner)

	rows, err := f.svc.ListUserTeams(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "acme social", rows[0].TeamName)

	now := time.Now().UTC()
	member.DeletedAt = &now
	require.NoError(t, f.repo.UpdateMember(context.Background(), member))

	rows, err = f.svc.ListUserTeams(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
