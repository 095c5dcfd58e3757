package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fitdeskhq/fitdesk-backend/pkg/migrate"
)

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestSubscriptionMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_member_subscriptions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS member_subscriptions",
		"CHECK (amount_paid_cents >= 0)",
		"CHECK (amount_paid_cents <= amount_total_cents)",
		"CHECK (end_date >= start_date)",
		"payment_status IN ('incomplete', 'complete')",
		"DROP TABLE IF EXISTS member_subscriptions",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentIncrementMigrationIsAppendOnlyShape(t *testing.T) {
	content := readMigration(t, "*_create_payment_increments.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS payment_increments",
		"FOREIGN KEY (subscription_id) REFERENCES member_subscriptions(id) ON DELETE CASCADE",
		"CHECK (amount_added_cents > 0)",
		"CHECK (amount_total_after_cents >= amount_added_cents)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
	if strings.Contains(content, "updated_at") {
		t.Errorf("payment_increments must not carry updated_at, rows are immutable")
	}
}

func TestInvoiceMigrationEnforcesUniqueness(t *testing.T) {
	content := readMigration(t, "*_create_invoices.sql")

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_subscription ON invoices (subscription_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_invoices_number ON invoices (number)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAttendanceMigrationPreventsDuplicateCheckIn(t *testing.T) {
	content := readMigration(t, "*_create_attendance_records.sql")
	if !strings.Contains(content, "idx_attendance_session_subscription") {
		t.Errorf("missing unique session+subscription index")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Coach Column!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_coach_column.sql") {
		t.Fatalf("unexpected filename %q", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration failed validation: %v", err)
	}
}
