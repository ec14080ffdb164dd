package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestContentMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_content_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no content migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TYPE content_status AS ENUM",
		"CREATE TYPE approval_status AS ENUM",
		"CREATE TABLE IF NOT EXISTS contents",
		"CREATE TABLE IF NOT EXISTS approvals",
		"status_before_delete content_status",
		"version bigint NOT NULL DEFAULT 1 CHECK (version >= 1)",
		"CREATE INDEX IF NOT EXISTS idx_contents_due_scheduled",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_approvals_content_pending",
		"DROP TABLE IF EXISTS contents",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
