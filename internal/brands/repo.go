package brands

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
)

// Repository handles brand persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, brand *models.Brand) error
	// FindByID includes soft-deleted rows; callers decide how deleted
	// brands are treated.
	FindByID(ctx context.Context, brandID uuid.UUID) (*models.Brand, error)
	Update(ctx context.Context, brand *models.Brand) error
	List(ctx context.Context, teamID uuid.UUID, includeDeleted bool) ([]models.Brand, error)
	CountActiveContent(ctx context.Context, brandID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a brand repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *repository) FindByID(ctx context.Context, brandID uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	err := r.db.WithContext(ctx).
		Where("id = ?", brandID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Update(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *repository) List(ctx context.Context, teamID uuid.UUID, includeDeleted bool) ([]models.Brand, error) {
	q := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	var rows []models.Brand
	if err := q.Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActiveContent counts live content rows still attached to the brand,
// used to block retiring a brand with work in flight.
func (r *repository) CountActiveContent(ctx context.Context, brandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Content{}).
		Where("brand_id = ? AND deleted_at IS NULL", brandID).
		Count(&count).Error
	return count, err
}
