package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApplyMigrations(t *testing.T) {
	db := openTestDB(t)

	migFS := fstest.MapFS{
		"001_users.sql": {Data: []byte("CREATE TABLE users (id TEXT PRIMARY KEY);")},
		"002_posts.sql": {Data: []byte("CREATE TABLE posts (id TEXT PRIMARY KEY);")},
	}

	runner := NewRunner(db, migFS, DriverSQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("ApplyMigrations applied %d migrations, want 2", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}

	// A second run should be a no-op
	applied, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second ApplyMigrations applied %d migrations, want 0", applied)
	}
}

func TestApplyMigrationsPartialResume(t *testing.T) {
	db := openTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_users.sql": {Data: []byte("CREATE TABLE users (id TEXT PRIMARY KEY);")},
	}, DriverSQLite)

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	// New release ships migration 2; only it should apply
	runner = NewRunner(db, fstest.MapFS{
		"001_users.sql": {Data: []byte("CREATE TABLE users (id TEXT PRIMARY KEY);")},
		"002_posts.sql": {Data: []byte("CREATE TABLE posts (id TEXT PRIMARY KEY);")},
	}, DriverSQLite)

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("ApplyMigrations applied %d migrations, want 1", applied)
	}
}

func TestApplyMigrationsRollsBackOnFailure(t *testing.T) {
	db := openTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE BROKEN SYNTAX;")},
	}, DriverSQLite)

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations with broken SQL should fail")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("schema version after failed migration = %d, want 0", version)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	db := openTestDB(t)

	runner := NewRunner(db, fstest.MapFS{
		"init.sql": {Data: []byte("CREATE TABLE x (id TEXT);")},
	}, DriverSQLite)

	if _, err := runner.ReadMigrationFiles(); err == nil {
		t.Error("ReadMigrationFiles should reject filenames without a version prefix")
	}
}

func TestValidateVersion(t *testing.T) {
	db := openTestDB(t)

	migFS := fstest.MapFS{
		"001_users.sql": {Data: []byte("CREATE TABLE users (id TEXT PRIMARY KEY);")},
		"002_posts.sql": {Data: []byte("CREATE TABLE posts (id TEXT PRIMARY KEY);")},
	}
	runner := NewRunner(db, migFS, DriverSQLite)

	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion on a fresh database should report out of date")
	}

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	if err := runner.ValidateVersion(); err != nil {
		t.Errorf("ValidateVersion after migrating returned error: %v", err)
	}

	// Database ahead of the binary
	if err := runner.SetVersion(99); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion should reject a database newer than the binary")
	}
}
