package teams

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
)

// Repository handles team and roster persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTeam(ctx context.Context, team *models.Team) error
	FindTeam(ctx context.Context, teamID uuid.UUID) (*models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	CreateMember(ctx context.Context, member *models.TeamMember) error
	GetMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error)
	GetMemberByID(ctx context.Context, memberID uuid.UUID) (*models.TeamMember, error)
	UpdateMember(ctx context.Context, member *models.TeamMember) error
	ListMembers(ctx context.Context, teamID uuid.UUID, includeRemoved bool) ([]models.TeamMember, error)
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindBrand(ctx context.Context, brandID uuid.UUID) (*models.Brand, error)
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MemberWithTeam, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a team repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
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

func (r *repository) UpdateTeam(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *repository) CreateMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// GetMember loads a membership including soft-deleted rows; callers decide
// how removed members are treated.
func (r *repository) GetMember(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	var row models.TeamMember
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) GetMemberByID(ctx context.Context, memberID uuid.UUID) (*models.TeamMember, error) {
	var row models.TeamMember
	err := r.db.WithContext(ctx).
		Where("id = ?", memberID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) UpdateMember(ctx context.Context, member *models.TeamMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) ListMembers(ctx context.Context, teamID uuid.UUID, includeRemoved bool) ([]models.TeamMember, error) {
	q := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if !includeRemoved {
		q = q.Where("deleted_at IS NULL")
	}
	var rows []models.TeamMember
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active", userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
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

func (r *repository) UpdateBrand(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

// ListUserTeams returns the teams a user belongs to along with membership
// metadata, for the session's team picker.
func (r *repository) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]MemberWithTeam, error) {
	var rows []memberWithTeamRow
	err := r.db.WithContext(ctx).
		Model(&models.TeamMember{}).
		Select("team_members.*, teams.name AS team_name").
		Joins("JOIN teams ON teams.id = team_members.team_id AND teams.deleted_at IS NULL").
		Where("team_members.user_id = ? AND team_members.deleted_at IS NULL", userID).
		Order("teams.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return memberRowsToDTO(rows), nil
}
