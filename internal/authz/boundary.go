package authz

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/internal/quota"
	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
)

type memberFinder interface {
	GetMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
}

// QuotaCharge names the units an action reserves before it runs.
type QuotaCharge struct {
	AccountID uuid.UUID
	Resource  enums.QuotaResource
	Amount    int64
}

type forbiddenDetails struct {
	TeamID     uuid.UUID        `json:"team_id"`
	Permission enums.Permission `json:"permission"`
}

// Boundary is the single gate every team-scoped mutation passes through:
// membership and permission first, quota second, the action last. A caller
// outside the team is indistinguishable from one lacking the permission.
type Boundary struct {
	members memberFinder
	quota   quota.Service
}

// BoundaryParams groups dependencies for the boundary.
type BoundaryParams struct {
	Members memberFinder
	Quota   quota.Service
}

// NewBoundary builds the authorization boundary.
func NewBoundary(params BoundaryParams) (*Boundary, error) {
	if params.Members == nil {
		return nil, fmt.Errorf("member finder required")
	}
	if params.Quota == nil {
		return nil, fmt.Errorf("quota service required")
	}
	return &Boundary{members: params.Members, quota: params.Quota}, nil
}

// Authorize resolves the acting member and checks its permission snapshot.
// Missing membership, soft-deleted membership, and a missing token all
// collapse into the same Forbidden.
func (b *Boundary) Authorize(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission) (*models.TeamMember, error) {
	if teamID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id and user id are required")
	}

	member, err := b.members.GetMember(ctx, teamID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, forbidden(teamID, perm)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team member")
	}
	if member.IsDeleted() {
		return nil, forbidden(teamID, perm)
	}
	if !member.HasPermission(perm) {
		return nil, forbidden(teamID, perm)
	}
	return member, nil
}

// RequireMember resolves the acting member without demanding a specific
// permission. Read paths use it so any live member of the team can see the
// team's data, and nobody outside it can.
func (b *Boundary) RequireMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	if teamID == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "team id and user id are required")
	}

	member, err := b.members.GetMember(ctx, teamID, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, forbidden(teamID, "")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load team member")
	}
	if member.IsDeleted() {
		return nil, forbidden(teamID, "")
	}
	return member, nil
}

// Execute runs fn behind the authorize→consume→execute composition. Quota is
// only touched after authorization passes, and a failed fn hands its
// reservation back.
func (b *Boundary) Execute(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission, charge *QuotaCharge, fn func(ctx context.Context, actor *models.TeamMember) error) error {
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
			if relErr := b.quota.Release(ctx, charge.AccountID, charge.Resource, charge.Amount); relErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, relErr, "release quota after failed action")
			}
		}
		return err
	}
	return nil
}

func forbidden(teamID uuid.UUID, perm enums.Permission) error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "missing permission").
		WithDetails(forbiddenDetails{TeamID: teamID, Permission: perm})
}
