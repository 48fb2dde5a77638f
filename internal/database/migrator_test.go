package database

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrator_LoadMigrations(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"002_tags.sql": "CREATE TABLE b (id TEXT);",
		"001_init.sql": "CREATE TABLE a (id TEXT);",
		"README.md":    "not a migration",
		"broken.sql":   "SELECT 1;",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	m := NewMigrator(nil, "postgres")
	migrations, err := m.LoadMigrations(dir)
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}

	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != "001" || migrations[1].Version != "002" {
		t.Errorf("versions = %s, %s; want 001, 002", migrations[0].Version, migrations[1].Version)
	}
	if migrations[0].SQL != files["001_init.sql"] {
		t.Errorf("SQL = %q", migrations[0].SQL)
	}
}

func TestMigrator_RepositoryMigrations(t *testing.T) {
	m := NewMigrator(nil, "postgres")
	migrations, err := m.LoadMigrations(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) == 0 || migrations[0].Version != "001" {
		t.Fatalf("expected 001 migration, got %+v", migrations)
	}
}

func TestMigrator_SkipsSQLite(t *testing.T) {
	db := setupSQLiteDB(t)
	if err := db.RunMigrations(t.TempDir()); err != nil {
		t.Fatalf("RunMigrations on sqlite: %v", err)
	}
}
