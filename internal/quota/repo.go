package quota

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
)

// Repository persists per-account usage counters.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetUsage loads the counter for one (account, resource) pair.
func (r *Repository) GetUsage(ctx context.Context, accountID uuid.UUID, resource enums.QuotaResource) (*models.SubscriptionUsage, error) {
	var usage models.SubscriptionUsage
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND resource = ?", accountID, resource).
		First(&usage).Error
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// ListUsage returns every counter for the account ordered by resource name.
func (r *Repository) ListUsage(ctx context.Context, accountID uuid.UUID) ([]models.SubscriptionUsage, error) {
	var rows []models.SubscriptionUsage
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("resource").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CompareAndSwapUsed conditionally writes a new used value. The write only
// lands when the stored version still matches expectedVersion; the version is
// bumped in the same statement. Returns false when another writer won.
func (r *Repository) CompareAndSwapUsed(ctx context.Context, usageID uuid.UUID, expectedVersion, newUsed int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SubscriptionUsage{}).
		Where("id = ? AND version = ?", usageID, expectedVersion).
		Updates(map[string]any{
			"used":    newUsed,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SeedUsage inserts counters for the account, updating the limit on conflict
// while leaving the used count untouched.
func (r *Repository) SeedUsage(ctx context.Context, rows []models.SubscriptionUsage) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "resource"}},
			DoUpdates: clause.AssignmentColumns([]string{"limit_value"}),
		}).
		Create(&rows).Error
}

// FindPlan loads the plan metadata used to seed account limits.
func (r *Repository) FindPlan(ctx context.Context, planID string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("id = ?", planID).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}
