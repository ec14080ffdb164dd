package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	dbtypes "github.com/postlane/postlane-backend/pkg/db/types"
	"github.com/postlane/postlane-backend/pkg/enums"
)

// Content is a creative asset moving through the approval and publishing
// lifecycle. Version guards every transition with an optimistic
// compare-and-swap so concurrent requests serialize per content id.
type Content struct {
	ID                 uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BrandID            uuid.UUID            `gorm:"column:brand_id;type:uuid;not null;index"`
	TeamID             uuid.UUID            `gorm:"column:team_id;type:uuid;not null;index"`
	CreatedByUserID    uuid.UUID            `gorm:"column:created_by_user_id;type:uuid;not null"`
	Title              string               `gorm:"column:title;not null"`
	Body               string               `gorm:"column:body;not null;default:''"`
	MediaURLs          pq.StringArray       `gorm:"column:media_urls;type:text[];default:ARRAY[]::text[]"`
	Status             enums.ContentStatus  `gorm:"column:status;type:content_status;not null;default:'draft'"`
	StatusBeforeDelete *enums.ContentStatus `gorm:"column:status_before_delete;type:content_status"`
	ScheduledFor       *time.Time           `gorm:"column:scheduled_for"`
	IntegrationIDs     dbtypes.UUIDArray    `gorm:"column:integration_ids;type:uuid[];not null;default:ARRAY[]::uuid[]"`
	PublishedAt        *time.Time           `gorm:"column:published_at"`
	Version            int64                `gorm:"column:version;not null;default:1"`
	CreatedAt          time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time            `gorm:"column:updated_at;autoUpdateTime"`
	Deletable
}
