package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// SubscriptionPlan captures the local metadata for a plan tier, including
// the per-resource limits seeded into accounts that subscribe to it.
// Limits is a jsonb map of quota resource name to ceiling; -1 means
// unlimited.
type SubscriptionPlan struct {
	ID           string           `gorm:"column:id;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Status       enums.PlanStatus `gorm:"column:status;type:plan_status;not null"`
	IsDefault    bool             `gorm:"column:is_default;not null;default:false"`
	PriceAmount  decimal.Decimal  `gorm:"column:price_amount;type:numeric(12,2);not null"`
	CurrencyCode string           `gorm:"column:currency_code;not null;default:'USD'"`
	Limits       json.RawMessage  `gorm:"column:limits;type:jsonb;not null"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// PlanLimits decodes the jsonb limits column.
func (p *SubscriptionPlan) PlanLimits() (map[enums.QuotaResource]int64, error) {
	out := map[enums.QuotaResource]int64{}
	if len(p.Limits) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(p.Limits, &out); err != nil {
		return nil, err
	}
	return out, nil
}
