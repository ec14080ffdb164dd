package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/postlane/postlane-backend/pkg/enums"
)

// UnlimitedQuota marks a limit column as uncapped.
const UnlimitedQuota int64 = -1

// SubscriptionUsage is one metered counter per (account, resource).
// LimitValue is seeded from the plan; Version guards the consume path's
// compare-and-swap so concurrent consumers can never overshoot the limit.
type SubscriptionUsage struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID  uuid.UUID           `gorm:"column:account_id;type:uuid;not null;index:idx_subscription_usages_account_resource,unique"`
	Resource   enums.QuotaResource `gorm:"column:resource;type:quota_resource;not null;index:idx_subscription_usages_account_resource,unique"`
	Used       int64               `gorm:"column:used;not null;default:0"`
	LimitValue int64               `gorm:"column:limit_value;not null;default:0"`
	Version    int64               `gorm:"column:version;not null;default:1"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Unlimited reports whether the counter has no ceiling.
func (u *SubscriptionUsage) Unlimited() bool {
	return u.LimitValue == UnlimitedQuota
}

// Remaining returns how much quota is left; unlimited counters report a
// negative value and callers should check Unlimited first.
func (u *SubscriptionUsage) Remaining() int64 {
	if u.Unlimited() {
		return UnlimitedQuota
	}
	remaining := u.LimitValue - u.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}
