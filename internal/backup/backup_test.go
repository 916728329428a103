package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "becoming.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE journal (id INTEGER PRIMARY KEY, entry TEXT)`); err != nil {
		t.Fatalf("failed to create test table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO journal (entry) VALUES ('resolved'), ('recovered')`); err != nil {
		t.Fatalf("failed to insert test data: %v", err)
	}
	return dbPath
}

func countJournalRows(t *testing.T, path string) int {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM journal").Scan(&count); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
	if got := countJournalRows(t, backupPath); got != 2 {
		t.Errorf("backup row count = %d, want 2", got)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Fatal("expected error backing up a missing database")
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List on empty dir: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("fresh backup list has %d entries", len(backups))
	}

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("second Create: %v", err)
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("backup count = %d, want 2", len(backups))
	}
	for _, b := range backups {
		if b.Size == 0 {
			t.Errorf("backup %s has zero size", b.Path)
		}
	}
	if backups[0].Timestamp.Before(backups[1].Timestamp) {
		t.Error("backups are not sorted newest first")
	}

	// Stray files in the backup dir are ignored.
	if err := os.WriteFile(filepath.Join(mgr.BackupDir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("write stray file: %v", err)
	}
	backups, _ = mgr.List()
	if len(backups) != 2 {
		t.Errorf("backup count with stray file = %d, want 2", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Mutate the live database, then restore the snapshot.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open live db: %v", err)
	}
	if _, err := db.Exec("DELETE FROM journal"); err != nil {
		t.Fatalf("mutate live db: %v", err)
	}
	db.Close()

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := countJournalRows(t, dbPath); got != 2 {
		t.Errorf("restored row count = %d, want 2", got)
	}

	// Restore snapshots the pre-restore state too.
	backups, _ := mgr.List()
	if len(backups) < 2 {
		t.Errorf("expected a pre-restore backup, have %d", len(backups))
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if err := mgr.Restore(garbage); err == nil {
		t.Fatal("expected error restoring a non-database file")
	}
	if got := countJournalRows(t, dbPath); got != 2 {
		t.Errorf("live database was touched by failed restore: %d rows", got)
	}
}
