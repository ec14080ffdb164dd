//go:build db
// +build db

package quota

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/postlane/postlane-backend/pkg/db/models"
	"github.com/postlane/postlane-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("POSTLANE_DB_DSN")
	if dsn == "" {
		t.Skip("POSTLANE_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func TestRepositoryUsageFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	accountID := uuid.New()

	seed := []models.SubscriptionUsage{
		{AccountID: accountID, Resource: enums.QuotaResourceCampaigns, LimitValue: 10},
		{AccountID: accountID, Resource: enums.QuotaResourceTeamMembers, LimitValue: 3},
	}
	if err := repo.SeedUsage(ctx, seed); err != nil {
		t.Fatalf("seed usage: %v", err)
	}

	usage, err := repo.GetUsage(ctx, accountID, enums.QuotaResourceCampaigns)
	if err != nil {
		t.Fatalf("get usage: %v", err)
	}
	if usage.LimitValue != 10 || usage.Used != 0 {
		t.Fatalf("unexpected counter %+v", usage)
	}

	ok, err := repo.CompareAndSwapUsed(ctx, usage.ID, usage.Version, 4)
	if err != nil {
		t.Fatalf("cas: %v", err)
	}
	if !ok {
		t.Fatal("expected cas to land on fresh version")
	}

	// Stale version must lose.
	ok, err = repo.CompareAndSwapUsed(ctx, usage.ID, usage.Version, 9)
	if err != nil {
		t.Fatalf("stale cas: %v", err)
	}
	if ok {
		t.Fatal("expected stale cas to be rejected")
	}

	reread, err := repo.GetUsage(ctx, accountID, enums.QuotaResourceCampaigns)
	if err != nil {
		t.Fatalf("reread usage: %v", err)
	}
	if reread.Used != 4 || reread.Version != usage.Version+1 {
		t.Fatalf("unexpected counter after cas %+v", reread)
	}

	// Re-seeding updates limits but not used counts.
	if err := repo.SeedUsage(ctx, []models.SubscriptionUsage{
		{AccountID: accountID, Resource: enums.QuotaResourceCampaigns, LimitValue: 25},
	}); err != nil {
		t.Fatalf("reseed usage: %v", err)
	}
	reseeded, err := repo.GetUsage(ctx, accountID, enums.QuotaResourceCampaigns)
	if err != nil {
		t.Fatalf("get reseeded usage: %v", err)
	}
	if reseeded.LimitValue != 25 || reseeded.Used != 4 {
		t.Fatalf("unexpected reseeded counter %+v", reseeded)
	}

	rows, err := repo.ListUsage(ctx, accountID)
	if err != nil {
		t.Fatalf("list usage: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(rows))
	}
}
