// # internal/history/store_test.go
package history

import (
	"path/filepath"
	"testing"
	"time"

	"polyscan/internal/fact"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	store := openTestStore(t)

	result := &fact.Result{
		TotalFiles:     10,
		ProcessedFiles: 8,
		TotalFunctions: 42,
		Stats:          fact.Stats{MissingDefinitions: 1, OrphanedFunctions: 2, CircularImports: 3, Cycles: 3, Critical: 1, Warnings: 5},
		ScanTime:       1.25,
		Errors:         []string{"bad.py: unreadable"},
	}

	snapshot := NewSnapshot("./src", result)
	if snapshot.RunID == "" {
		t.Fatal("Expected generated run id")
	}
	if err := store.SaveSnapshot(snapshot); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	loaded, err := store.RecentSnapshots("./src", 10)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(loaded))
	}

	got := loaded[0]
	if got.RunID != snapshot.RunID {
		t.Errorf("RunID mismatch: %q vs %q", got.RunID, snapshot.RunID)
	}
	if got.TotalFiles != 10 || got.ProcessedFiles != 8 || got.TotalFunctions != 42 {
		t.Errorf("Counts mismatch: %+v", got)
	}
	if got.CircularImports != 3 || got.ErrorCount != 1 {
		t.Errorf("Stats mismatch: %+v", got)
	}
	if got.ScanMillis != 1250 {
		t.Errorf("Expected 1250ms scan time, got %d", got.ScanMillis)
	}
}

func TestRecentSnapshotsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		snapshot := NewSnapshot(".", &fact.Result{TotalFiles: i})
		snapshot.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := store.SaveSnapshot(snapshot); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	loaded, err := store.RecentSnapshots(".", 3)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d", len(loaded))
	}
	for i := 1; i < len(loaded); i++ {
		if loaded[i].Timestamp.After(loaded[i-1].Timestamp) {
			t.Errorf("Snapshots not sorted newest first: %v", loaded)
		}
	}
	if loaded[0].TotalFiles != 4 {
		t.Errorf("Expected newest snapshot first, got %+v", loaded[0])
	}
}

func TestRecentSnapshotsTargetFilter(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSnapshot(NewSnapshot("alpha", &fact.Result{})); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveSnapshot(NewSnapshot("beta", &fact.Result{})); err != nil {
		t.Fatal(err)
	}

	alpha, err := store.RecentSnapshots("alpha", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(alpha) != 1 || alpha[0].Target != "alpha" {
		t.Errorf("Target filter failed: %+v", alpha)
	}

	all, err := store.RecentSnapshots("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 snapshots with empty target filter, got %d", len(all))
	}
}

func TestSaveSnapshotValidation(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveSnapshot(Snapshot{}); err == nil {
		t.Error("Expected error for snapshot without run id")
	}

	bad := NewSnapshot(".", &fact.Result{})
	bad.SchemaVersion = 99
	if err := store.SaveSnapshot(bad); err == nil {
		t.Error("Expected error for unsupported schema version")
	}
}

func TestOpenReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.SaveSnapshot(NewSnapshot(".", &fact.Result{})); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.RecentSnapshots("", 10)
	if err != nil {
		t.Fatalf("RecentSnapshots failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("Expected snapshot to survive reopen, got %d", len(loaded))
	}
}

func TestOpenRejectsDirectory(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Expected error when history path is a directory")
	}
}
