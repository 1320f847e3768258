package postgres

import (
	"testing"
	"testing/fstest"
)

func TestLoadMigrations_EmbeddedSet(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	for i := 1; i < len(migrations); i++ {
		if migrations[i].Version <= migrations[i-1].Version {
			t.Fatalf("migrations must be sorted by version: %d after %d",
				migrations[i].Version, migrations[i-1].Version)
		}
	}
	for _, m := range migrations {
		if m.UpSQL == "" || m.DownSQL == "" {
			t.Fatalf("migration %d_%s is missing a direction", m.Version, m.Name)
		}
	}
}

func TestLoadMigrations_MissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0001_create_orders.up.sql": &fstest.MapFile{Data: []byte("CREATE TABLE t (id INT)")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for missing down migration")
	}
}

func TestLoadMigrations_InvalidName(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/bogus.sql": &fstest.MapFile{Data: []byte("SELECT 1")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for invalid migration file name")
	}
}

func TestLoadMigrations_EmptyBody(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0001_create_orders.up.sql":   &fstest.MapFile{Data: []byte("   \n")},
		"sql/migrations/0001_create_orders.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE orders")},
	}
	if _, err := loadMigrations(fsys); err == nil {
		t.Fatal("expected error for empty migration body")
	}
}
