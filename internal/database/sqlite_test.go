package database

import (
	"path/filepath"
	"testing"
)

func TestOpenLocalRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := OpenLocal("  "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenLocalAppliesMigrationsOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "local.db")
	db, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var applied int
	if err := db.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err = OpenLocal(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var again int
	if err := db.Get(&again, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied == 0 || again != applied {
		t.Fatalf("migrations applied = %d then %d, want same non-zero count", applied, again)
	}

	var tables int
	if err := db.Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('cars', 'car_media', 'owners', 'admin_settings')`); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 4 {
		t.Fatalf("tables = %d, want 4", tables)
	}
}

func TestMigrationFilesSorted(t *testing.T) {
	t.Parallel()

	files, err := migrationFiles(postgresMigrations, "migrations/postgres", ".up.sql")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"001_owners_cars.up.sql", "002_car_media.up.sql", "003_admin_settings.up.sql"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}
}
