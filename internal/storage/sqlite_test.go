package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreCreatesNestedDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	store := openTestStore(t)

	vars := map[string]any{"score": 150.0, "best": "ace", "alive": true}
	if err := store.PutSave("demo", 1, "play", vars); err != nil {
		t.Fatalf("PutSave() failed: %v", err)
	}

	save, err := store.LoadSave("demo", 1)
	if err != nil {
		t.Fatalf("LoadSave() failed: %v", err)
	}
	if save == nil {
		t.Fatal("LoadSave() returned nil for an existing slot")
	}
	if save.SceneID != "play" {
		t.Errorf("SceneID = %q, want play", save.SceneID)
	}
	if save.Variables["score"] != 150.0 || save.Variables["best"] != "ace" || save.Variables["alive"] != true {
		t.Errorf("Variables did not round-trip: %v", save.Variables)
	}
}

func TestSaveSlotReplaces(t *testing.T) {
	store := openTestStore(t)

	store.PutSave("demo", 1, "title", map[string]any{"score": 10.0})
	if err := store.PutSave("demo", 1, "play", map[string]any{"score": 99.0}); err != nil {
		t.Fatalf("PutSave() overwrite failed: %v", err)
	}

	saves, err := store.ListSaves("demo")
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(saves) != 1 {
		t.Fatalf("Expected 1 save after overwrite, got %d", len(saves))
	}
	if saves[0].SceneID != "play" || saves[0].Variables["score"] != 99.0 {
		t.Errorf("Overwrite did not replace: %+v", saves[0])
	}
}

func TestLoadSaveEmptySlot(t *testing.T) {
	store := openTestStore(t)

	save, err := store.LoadSave("demo", 3)
	if err != nil {
		t.Fatalf("LoadSave() failed: %v", err)
	}
	if save != nil {
		t.Errorf("Expected nil for an empty slot, got %+v", save)
	}
}

func TestListSavesOrderedBySlot(t *testing.T) {
	store := openTestStore(t)

	store.PutSave("demo", 3, "a", nil)
	store.PutSave("demo", 1, "b", nil)
	store.PutSave("demo", 2, "c", nil)
	store.PutSave("other", 1, "d", nil)

	saves, err := store.ListSaves("demo")
	if err != nil {
		t.Fatalf("ListSaves() failed: %v", err)
	}
	if len(saves) != 3 {
		t.Fatalf("Expected 3 saves, got %d", len(saves))
	}
	for i, want := range []int{1, 2, 3} {
		if saves[i].Slot != want {
			t.Errorf("saves[%d].Slot = %d, want %d", i, saves[i].Slot, want)
		}
	}
}

func TestDeleteSave(t *testing.T) {
	store := openTestStore(t)

	store.PutSave("demo", 1, "play", nil)
	if err := store.DeleteSave("demo", 1); err != nil {
		t.Fatalf("DeleteSave() failed: %v", err)
	}

	save, _ := store.LoadSave("demo", 1)
	if save != nil {
		t.Error("Save still present after delete")
	}

	// Deleting an empty slot is fine.
	if err := store.DeleteSave("demo", 9); err != nil {
		t.Errorf("DeleteSave() on empty slot failed: %v", err)
	}
}

func TestSessionsAndStats(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.RecordSession("demo", 42, 3600, time.Minute); err != nil {
		t.Fatalf("RecordSession() failed: %v", err)
	}
	store.RecordSession("demo", 7, 7200, 2*time.Minute)
	store.RecordSession("other", 1, 100, time.Second)

	sessions, err := store.RecentSessions("demo", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d", len(sessions))
	}
	// Most recent first.
	if sessions[0].Seed != 7 || sessions[0].Ticks != 7200 {
		t.Errorf("Unexpected most recent session: %+v", sessions[0])
	}

	stats, err := store.GetSessionStats("demo")
	if err != nil {
		t.Fatalf("GetSessionStats() failed: %v", err)
	}
	if stats.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", stats.SessionCount)
	}
	if stats.TotalTicks != 10800 {
		t.Errorf("TotalTicks = %d, want 10800", stats.TotalTicks)
	}
	if stats.TotalSecs != 180 {
		t.Errorf("TotalSecs = %d, want 180", stats.TotalSecs)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed is zero")
	}
}

func TestSessionStatsEmptyCartridge(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetSessionStats("nothing")
	if err != nil {
		t.Fatalf("GetSessionStats() failed: %v", err)
	}
	if stats.SessionCount != 0 || stats.TotalTicks != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
