package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asifmahmud/parceltrack-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}

func TestParcelsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_parcels.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no parcels migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE parcels",
		"tracking_code",
		"payment_status",
		"DROP TABLE parcels",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTrackingEventsMigrationHasNoParcelForeignKey(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_tracking_events.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no tracking events migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	if strings.Contains(string(data), "REFERENCES parcels") {
		t.Fatalf("tracking events must not hold a foreign key to parcels")
	}
}
