package teams

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/internal/authz"
	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
	"github.com/postlane/postlane-backend/pkg/outbox"
	"github.com/postlane/postlane-backend/pkg/outbox/payloads"
	"github.com/postlane/postlane-backend/pkg/permissions"
)

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

// Service manages teams, their rosters, and brand assignment.
type Service interface {
	CreateTeam(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error)
	ListMembers(ctx context.Context, teamID, userID uuid.UUID) ([]MemberDTO, error)
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MemberWithTeam, error)
	AddMember(ctx context.Context, teamID, actorID uuid.UUID, input AddMemberInput) (*MemberDTO, error)
	RemoveMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) error
	RestoreMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) (*MemberDTO, error)
	UpdateMemberRole(ctx context.Context, teamID, actorID, memberID uuid.UUID, input UpdateRoleInput) (*MemberDTO, error)
	UpdateMemberPermissions(ctx context.Context, teamID, actorID, memberID uuid.UUID, input UpdatePermissionsInput) (*MemberDTO, error)
	AssignBrand(ctx context.Context, teamID, actorID uuid.UUID, input AssignBrandInput) error
}

// ServiceParams groups dependencies for the team service.
type ServiceParams struct {
	Repo              Repository
	Boundary          boundary
	Quota             quota.Service
	Events            eventEmitter
	TransactionRunner txRunner
}

type service struct {
	repo     Repository
	guard    boundary
	quota    quota.Service
	events   eventEmitter
	txRunner txRunner
}

// NewService builds a team service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("team repo required")
	}
	if params.Boundary == nil {
		return nil, fmt.Errorf("authorization boundary required")
	}
	if params.Quota == nil {
		return nil, fmt.Errorf("quota service required")
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
		quota:    params.Quota,
		events:   params.Events,
		txRunner: params.TransactionRunner,
	}, nil
}

// CreateTeam opens a team and seats the owner as its vendor in the same
// transaction. The owner's snapshot gets the full vendor catalog.
func (s *service) CreateTeam(ctx context.Context, ownerID uuid.UUID, input CreateTeamInput) (*models.Team, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team name is required")
	}
	if _, err := s.loadUser(ctx, ownerID); err != nil {
		return nil, err
	}

	team := &models.Team{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		OwnerID:     ownerID,
	}
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateTeam(ctx, team); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create team")
		}
		owner := &models.TeamMember{
			ID:          uuid.New(),
			TeamID:      team.ID,
			UserID:      ownerID,
			Role:        enums.MemberRoleVendor,
			Permissions: snapshotFor(enums.MemberRoleVendor),
		}
		if err := txRepo.CreateMember(ctx, owner); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seat team owner")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeam returns team metadata to any live member.
func (s *service) GetTeam(ctx context.Context, teamID, userID uuid.UUID) (*models.Team, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	return s.loadTeam(ctx, teamID)
}

// ListMembers returns the active roster.
func (s *service) ListMembers(ctx context.Context, teamID, userID uuid.UUID) ([]MemberDTO, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMembers(ctx, teamID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	out := make([]MemberDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToMemberDTO(&rows[i]))
	}
	return out, nil
}

// ListUserTeams returns the teams the user belongs to.
func (s *service) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MemberWithTeam, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListUserTeams(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user teams")
	}
	return rows, nil
}

// AddMember seats a user on the roster behind the team_members quota. The
// snapshot is seeded from the role's catalog defaults and mutable afterwards.
func (s *service) AddMember(ctx context.Context, teamID, actorID uuid.UUID, input AddMemberInput) (*MemberDTO, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", input.Role))
	}
	if input.Role == enums.MemberRoleVendor {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor role is reserved for the team owner")
	}

	var created *models.TeamMember
	charge := &authz.QuotaCharge{
		AccountID: team.OwnerID,
		Resource:  enums.QuotaResourceTeamMembers,
		Amount:    1,
	}
	err = s.guard.Execute(ctx, teamID, actorID, enums.PermissionAddMember, charge, func(ctx context.Context, actor *models.TeamMember) error {
		if _, err := s.loadUser(ctx, input.UserID); err != nil {
			return err
		}
		existing, err := s.repo.GetMember(ctx, teamID, input.UserID)
		if err != nil && err != gorm.ErrRecordNotFound {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing membership")
		}
		if existing != nil {
			if existing.IsDeleted() {
				return pkgerrors.New(pkgerrors.CodeConflict, "user was removed from this team, restore the member instead")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "user is already a member of this team")
		}

		member := &models.TeamMember{
			ID:              uuid.New(),
			TeamID:          teamID,
			UserID:          input.UserID,
			Role:            input.Role,
			Permissions:     snapshotFor(input.Role),
			InvitedByUserID: &actor.UserID,
		}
		return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).CreateMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create member")
			}
			created = member
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventMemberAdded,
				AggregateType: enums.AggregateTeamMember,
				AggregateID:   member.ID,
				Actor:         memberActorRef(actor),
				Data:          memberPayload(member),
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return ToMemberDTO(created), nil
}

// RemoveMember soft-deletes the roster entry and hands the seat back to the
// quota. The owner cannot be removed.
func (s *service) RemoveMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) error {
	actor, err := s.guard.Authorize(ctx, teamID, actorID, enums.PermissionRemoveMember)
	if err != nil {
		return err
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	member, err := s.loadMember(ctx, teamID, memberID)
	if err != nil {
		return err
	}
	if member.UserID == team.OwnerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "the team owner cannot be removed")
	}
	if member.IsDeleted() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "member is already removed")
	}

	now := time.Now().UTC()
	member.DeletedAt = &now
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateMember(ctx, member); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventMemberRemoved,
			AggregateType: enums.AggregateTeamMember,
			AggregateID:   member.ID,
			Actor:         memberActorRef(actor),
			Data:          memberPayload(member),
		})
	})
	if err != nil {
		return err
	}
	return s.quota.Release(ctx, team.OwnerID, enums.QuotaResourceTeamMembers, 1)
}

// RestoreMember reseats a removed member, consuming a seat again. The
// snapshot kept at removal time comes back untouched.
func (s *service) RestoreMember(ctx context.Context, teamID, actorID, memberID uuid.UUID) (*MemberDTO, error) {
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	var restored *models.TeamMember
	charge := &authz.QuotaCharge{
		AccountID: team.OwnerID,
		Resource:  enums.QuotaResourceTeamMembers,
		Amount:    1,
	}
	err = s.guard.Execute(ctx, teamID, actorID, enums.PermissionAddMember, charge, func(ctx context.Context, actor *models.TeamMember) error {
		member, err := s.loadMember(ctx, teamID, memberID)
		if err != nil {
			return err
		}
		if !member.IsDeleted() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "member is not removed")
		}

		member.DeletedAt = nil
		return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).UpdateMember(ctx, member); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore member")
			}
			restored = member
			return s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventMemberRestored,
				AggregateType: enums.AggregateTeamMember,
				AggregateID:   member.ID,
				Actor:         memberActorRef(actor),
				Data:          memberPayload(member),
			})
		})
	})
	if err != nil {
		return nil, err
	}
	return ToMemberDTO(restored), nil
}

// UpdateMemberRole changes the role and reseeds the snapshot from the
// catalog, discarding any custom grants.
func (s *service) UpdateMemberRole(ctx context.Context, teamID, actorID, memberID uuid.UUID, input UpdateRoleInput) (*MemberDTO, error) {
	if _, err := s.guard.Authorize(ctx, teamID, actorID, enums.PermissionUpdateMemberRole); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", input.Role))
	}
	if input.Role == enums.MemberRoleVendor {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor role is reserved for the team owner")
	}
	team, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	member, err := s.loadActiveMember(ctx, teamID, memberID)
	if err != nil {
		return nil, err
	}
	if member.UserID == team.OwnerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "the team owner's role cannot be changed")
	}

	member.Role = input.Role
	member.Permissions = snapshotFor(input.Role)
	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member role")
	}
	return ToMemberDTO(member), nil
}

// UpdateMemberPermissions replaces the snapshot wholesale. Unknown tokens
// are rejected before anything is written.
func (s *service) UpdateMemberPermissions(ctx context.Context, teamID, actorID, memberID uuid.UUID, input UpdatePermissionsInput) (*MemberDTO, error) {
	if _, err := s.guard.Authorize(ctx, teamID, actorID, enums.PermissionUpdateMemberPermissions); err != nil {
		return nil, err
	}

	var unknown []string
	for _, token := range input.Permissions {
		if !permissions.IsKnown(token) {
			unknown = append(unknown, token)
		}
	}
	if len(unknown) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown permission tokens").
			WithDetails(map[string][]string{"unknown": unknown})
	}

	member, err := s.loadActiveMember(ctx, teamID, memberID)
	if err != nil {
		return nil, err
	}
	member.Permissions = pq.StringArray(append([]string(nil), input.Permissions...))
	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update member permissions")
	}
	return ToMemberDTO(member), nil
}

// AssignBrand hands a brand to a member's portfolio.
func (s *service) AssignBrand(ctx context.Context, teamID, actorID uuid.UUID, input AssignBrandInput) error {
	actor, err := s.guard.Authorize(ctx, teamID, actorID, enums.PermissionAssignBrand)
	if err != nil {
		return err
	}
	brand, err := s.loadBrand(ctx, input.BrandID)
	if err != nil {
		return err
	}
	if brand.TeamID != teamID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "brand belongs to another team")
	}
	member, err := s.loadActiveMember(ctx, teamID, input.MemberID)
	if err != nil {
		return err
	}

	brand.AssignedMemberID = &member.ID
	return s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateBrand(ctx, brand); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign brand")
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventBrandAssigned,
			AggregateType: enums.AggregateBrand,
			AggregateID:   brand.ID,
			Actor:         memberActorRef(actor),
			Data: payloads.BrandAssignedEvent{
				TeamID:   teamID,
				BrandID:  brand.ID,
				MemberID: member.ID,
			},
		})
	})
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

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func (s *service) loadMember(ctx context.Context, teamID, memberID uuid.UUID) (*models.TeamMember, error) {
	member, err := s.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load member")
	}
	if member.TeamID != teamID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "member belongs to another team")
	}
	return member, nil
}

func (s *service) loadActiveMember(ctx context.Context, teamID, memberID uuid.UUID) (*models.TeamMember, error) {
	member, err := s.loadMember(ctx, teamID, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "member is removed")
	}
	return member, nil
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

// snapshotFor seeds a permission snapshot from the catalog defaults.
func snapshotFor(role enums.MemberRole) pq.StringArray {
	defaults := permissions.DefaultsForRole(role)
	out := make(pq.StringArray, 0, len(defaults))
	for _, p := range defaults {
		out = append(out, string(p))
	}
	return out
}

func memberActorRef(actor *models.TeamMember) *outbox.ActorRef {
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

func memberPayload(member *models.TeamMember) payloads.MemberChangedEvent {
	return payloads.MemberChangedEvent{
		TeamID:   member.TeamID,
		UserID:   member.UserID,
		MemberID: member.ID,
		Role:     member.Role,
	}
}
