package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCompetitionsMigrationContainsUniqueIndexes(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_competitions.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no competitions migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS competitions",
		"CREATE TABLE IF NOT EXISTS gallery_submissions",
		"CREATE UNIQUE INDEX ux_competition_submissions_entry ON competition_submissions (competition_id, submission_id)",
		"CREATE UNIQUE INDEX ux_votes_user_submission ON votes (user_id, submission_id)",
		"CHECK (end_date > start_date)",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOutboxMigrationContainsIdempotencyIndex(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_outbox.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no outbox migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"CREATE UNIQUE INDEX ux_outbox_events_event_aggregate",
		"WHERE published_at IS NULL",
		"CREATE TABLE IF NOT EXISTS outbox_dlq",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
