package brands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	pkgerrors "github.com/postlane/postlane-backend/pkg/errors"
)

// CreateInput names a new brand under a team.
type CreateInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateInput carries optional brand field changes.
type UpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
}

type boundary interface {
	Authorize(ctx context.Context, teamID, userID uuid.UUID, perm enums.Permission) (*models.TeamMember, error)
	RequireMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
}

// Service manages the brand portfolio of a team.
type Service interface {
	Create(ctx context.Context, teamID, userID uuid.UUID, input CreateInput) (*models.Brand, error)
	Get(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error)
	List(ctx context.Context, teamID, userID uuid.UUID) ([]models.Brand, error)
	Update(ctx context.Context, teamID, userID, brandID uuid.UUID, input UpdateInput) (*models.Brand, error)
	Delete(ctx context.Context, teamID, userID, brandID uuid.UUID) error
	Restore(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error)
}

// ServiceParams groups dependencies for the brand service.
type ServiceParams struct {
	Repo     Repository
	Boundary boundary
}

type service struct {
	repo  Repository
	guard boundary
}

// NewService builds a brand service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("brand repo required")
	}
	if params.Boundary == nil {
		return nil, fmt.Errorf("authorization boundary required")
	}
	return &service{repo: params.Repo, guard: params.Boundary}, nil
}

func (s *service) Create(ctx context.Context, teamID, userID uuid.UUID, input CreateInput) (*models.Brand, error) {
	if _, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionAssignBrand); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name is required")
	}

	brand := &models.Brand{
		ID:          uuid.New(),
		TeamID:      teamID,
		Name:        name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create brand")
	}
	return brand, nil
}

func (s *service) Get(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	brand, err := s.load(ctx, teamID, brandID)
	if err != nil {
		return nil, err
	}
	if brand.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
	}
	return brand, nil
}

func (s *service) List(ctx context.Context, teamID, userID uuid.UUID) ([]models.Brand, error) {
	if _, err := s.guard.RequireMember(ctx, teamID, userID); err != nil {
		return nil, err
	}
	rows, err := s.repo.List(ctx, teamID, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, teamID, userID, brandID uuid.UUID, input UpdateInput) (*models.Brand, error) {
	if _, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionAssignBrand); err != nil {
		return nil, err
	}
	brand, err := s.load(ctx, teamID, brandID)
	if err != nil {
		return nil, err
	}
	if brand.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "brand is retired")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand name cannot be empty")
		}
		brand.Name = name
	}
	if input.Description != nil {
		brand.Description = input.Description
	}
	if input.LogoURL != nil {
		brand.LogoURL = input.LogoURL
	}
	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update brand")
	}
	return brand, nil
}

// Delete retires a brand. Brands with live content cannot be retired; the
// content has to be deleted or moved first.
func (s *service) Delete(ctx context.Context, teamID, userID, brandID uuid.UUID) error {
	if _, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionAssignBrand); err != nil {
		return err
	}
	brand, err := s.load(ctx, teamID, brandID)
	if err != nil {
		return err
	}
	if brand.IsDeleted() {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "brand is already retired")
	}
	active, err := s.repo.CountActiveContent(ctx, brandID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count brand content")
	}
	if active > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "brand still has live content").
			WithDetails(map[string]int64{"active_content": active})
	}

	now := time.Now().UTC()
	brand.DeletedAt = &now
	if err := s.repo.Update(ctx, brand); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire brand")
	}
	return nil
}

func (s *service) Restore(ctx context.Context, teamID, userID, brandID uuid.UUID) (*models.Brand, error) {
	if _, err := s.guard.Authorize(ctx, teamID, userID, enums.PermissionAssignBrand); err != nil {
		return nil, err
	}
	brand, err := s.load(ctx, teamID, brandID)
	if err != nil {
		return nil, err
	}
	if !brand.IsDeleted() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "brand is not retired")
	}

	brand.DeletedAt = nil
	if err := s.repo.Update(ctx, brand); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore brand")
	}
	return brand, nil
}

func (s *service) load(ctx context.Context, teamID, brandID uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindByID(ctx, brandID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load brand")
	}
	if brand.TeamID != teamID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "brand belongs to another team")
	}
	return brand, nil
}
