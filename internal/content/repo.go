package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
	"github.com/postlane/postlane-backend/pkg/pagination"
)

// sortColumns whitelists the orderable columns for listings.
var sortColumns = map[string]string{
	"created_at":    "created_at",
	"updated_at":    "updated_at",
	"title":         "title",
	"scheduled_for": "scheduled_for",
	"status":        "status",
}

// Repository handles content persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.Content) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error)
	UpdateCAS(ctx context.Context, row *models.Content) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]models.Content, int64, error)
	DueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Content, error)
	CreateApproval(ctx context.Context, row *models.Approval) error
	FindOpenApproval(ctx context.Context, contentID uuid.UUID) (*models.Approval, error)
	UpdateApproval(ctx context.Context, row *models.Approval) error
	ListApprovals(ctx context.Context, contentID uuid.UUID) ([]models.Approval, error)
	CreatePosts(ctx context.Context, rows []models.Post) error
	CountActiveIntegrations(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) (int64, error)
	FindBrand(ctx context.Context, brandID uuid.UUID) (*models.Brand, error)
	FindTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a content repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.Content) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindByID loads a content row regardless of soft-delete state; callers
// decide how deleted rows are treated.
func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	var row models.Content
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateCAS writes the row's mutable columns behind a version check and bumps
// the version in the same statement. Returns false when the stored version
// moved underneath the caller.
func (r *repository) UpdateCAS(ctx context.Context, row *models.Content) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("id = ? AND version = ?", row.ID, row.Version).
		Updates(map[string]any{
			"title":                row.Title,
			"body":                 row.Body,
			"media_urls":           row.MediaURLs,
			"status":               row.Status,
			"status_before_delete": row.StatusBeforeDelete,
			"scheduled_for":        row.ScheduledFor,
			"integration_ids":      row.IntegrationIDs,
			"published_at":         row.PublishedAt,
			"deleted_at":           row.DeletedAt,
			"version":              gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	row.Version++
	return true, nil
}

// List returns a filtered page of content plus the total match count.
func (r *repository) List(ctx context.Context, opts ListOptions) ([]models.Content, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("team_id = ?", opts.TeamID)
	if opts.BrandID != nil {
		q = q.Where("brand_id = ?", *opts.BrandID)
	}
	if opts.Status != nil {
		q = q.Where("status = ?", *opts.Status)
	} else if !opts.IncludeDeleted {
		q = q.Where("deleted_at IS NULL")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.SortDescending {
		direction = "DESC"
	}

	page := pagination.PageParams{Page: opts.Page, PageSize: opts.PageSize}.Normalize()
	var rows []models.Content
	err := q.
		Order(column + " " + direction).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// DueScheduled returns scheduled content whose fire time has passed.
func (r *repository) DueScheduled(ctx context.Context, now time.Time, limit int) ([]models.Content, error) {
	var rows []models.Content
	err := r.db.WithContext(ctx).
		Where("status = ? AND deleted_at IS NULL AND scheduled_for <= ?", enums.ContentStatusScheduled, now).
		Order("scheduled_for").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreateApproval(ctx context.Context, row *models.Approval) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// FindOpenApproval loads the single pending approval for the content, or
// gorm.ErrRecordNotFound when none is open.
func (r *repository) FindOpenApproval(ctx context.Context, contentID uuid.UUID) (*models.Approval, error) {
	var row models.Approval
	err := r.db.WithContext(ctx).
		Where("content_id = ? AND status = ?", contentID, enums.ApprovalStatusPending).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateApproval(ctx context.Context, row *models.Approval) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// ListApprovals returns the content's decision history, newest first.
func (r *repository) ListApprovals(ctx context.Context, contentID uuid.UUID) ([]models.Approval, error) {
	var rows []models.Approval
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) CreatePosts(ctx context.Context, rows []models.Post) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// CountActiveIntegrations counts how many of the ids are live integrations
// belonging to the team.
func (r *repository) CountActiveIntegrations(ctx context.Context, teamID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SocialIntegration{}).
		Where("team_id = ? AND id IN ? AND deleted_at IS NULL", teamID, ids).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) FindBrand(ctx context.Context, brandID uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", brandID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error) {
	var row models.Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", teamID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}
