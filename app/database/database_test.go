package database

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewConnection(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	if version != 2 || dirty {
		t.Errorf("Expected clean version 2, got %d (dirty=%v)", version, dirty)
	}

	// A second run is a no-op.
	if _, _, err := RunMigrations(db); err != nil {
		t.Errorf("Second RunMigrations failed: %v", err)
	}
}

func TestPageRepository(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	page, err := repo.GetPage("Talk:Foo")
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if page != nil {
		t.Fatalf("Expected no page, got %+v", page)
	}

	processedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.RecordPage(Page{Title: "Talk:Foo", Status: StatusFailed, Error: "boom", ProcessedAt: processedAt}); err != nil {
		t.Fatalf("RecordPage failed: %v", err)
	}
	if err := repo.RecordPage(Page{Title: "Talk:Foo", Status: StatusEdited, RevisionID: 99, Merged: 3, ProcessedAt: processedAt}); err != nil {
		t.Fatalf("RecordPage failed: %v", err)
	}
	if err := repo.RecordPage(Page{Title: "Talk:Bar", Status: StatusUnchanged}); err != nil {
		t.Fatalf("RecordPage failed: %v", err)
	}

	page, err = repo.GetPage("Talk:Foo")
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if page.Status != StatusEdited || page.RevisionID != 99 || page.Merged != 3 || page.Error != "" {
		t.Errorf("Unexpected page %+v", page)
	}
	if !page.ProcessedAt.Equal(processedAt) {
		t.Errorf("Expected processed at %v, got %v", processedAt, page.ProcessedAt)
	}

	stats, err := repo.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 2 || stats.ByStatus[StatusEdited] != 1 || stats.ByStatus[StatusUnchanged] != 1 {
		t.Errorf("Unexpected stats %+v", stats)
	}
}

func TestCheckpointRepository(t *testing.T) {
	repo := NewCheckpointRepository(setupTestDB(t))

	value, err := repo.GetCheckpoint("embeddedin")
	if err != nil || value != "" {
		t.Fatalf("Expected empty checkpoint, got %q (%v)", value, err)
	}

	for _, v := range []string{"1|10", "1|20"} {
		if err := repo.SetCheckpoint("embeddedin", v); err != nil {
			t.Fatalf("SetCheckpoint failed: %v", err)
		}
	}

	value, err = repo.GetCheckpoint("embeddedin")
	if err != nil {
		t.Fatalf("GetCheckpoint failed: %v", err)
	}
	if value != "1|20" {
		t.Errorf("Expected latest checkpoint, got %q", value)
	}
}
