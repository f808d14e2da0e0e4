package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testRun(id string, startedAt time.Time) Run {
	return Run{
		ID:          id,
		StartedAt:   startedAt,
		InputSize:   784,
		LayerSizes:  []int{100, 10},
		Activations: []string{"sigmoid", "sigmoid"},
		LearnRate:   0.5,
		BatchSize:   32,
		Epochs:      100,
	}
}

// exerciseStore runs the shared Store contract against an
// implementation.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	first := testRun("run-a", base)
	second := testRun("run-b", base.Add(time.Hour))

	if err := store.SaveRun(ctx, second); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.SaveRun(ctx, first); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	got, ok, err := store.GetRun(ctx, "run-a")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !ok {
		t.Fatal("GetRun did not find run-a")
	}
	if got.InputSize != 784 || len(got.LayerSizes) != 2 || got.LayerSizes[0] != 100 {
		t.Errorf("GetRun returned %+v", got)
	}
	if got.Activations[1] != "sigmoid" {
		t.Errorf("activations = %v", got.Activations)
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Errorf("GetRun(missing) = ok=%v err=%v, want not found", ok, err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-a" || runs[1].ID != "run-b" {
		t.Errorf("ListRuns order = %v", runIDs(runs))
	}

	// Record epochs out of order; reads must come back sorted.
	for _, epoch := range []int{2, 0, 1} {
		record := EpochRecord{
			RunID:      "run-a",
			Epoch:      epoch,
			Loss:       1.0 / float64(epoch+1),
			RecordedAt: base.Add(time.Duration(epoch) * time.Minute),
		}
		if err := store.RecordEpoch(ctx, record); err != nil {
			t.Fatalf("RecordEpoch failed: %v", err)
		}
	}

	records, err := store.GetEpochRecords(ctx, "run-a")
	if err != nil {
		t.Fatalf("GetEpochRecords failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, record := range records {
		if record.Epoch != i {
			t.Errorf("record %d has epoch %d", i, record.Epoch)
		}
	}
	if records[0].Loss != 1.0 {
		t.Errorf("epoch 0 loss = %v, want 1.0", records[0].Loss)
	}

	if records, err := store.GetEpochRecords(ctx, "run-b"); err != nil || len(records) != 0 {
		t.Errorf("GetEpochRecords(run-b) = %v, %v; want empty", records, err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func runIDs(runs []Run) []string {
	ids := make([]string, len(runs))
	for i, run := range runs {
		ids[i] = run.ID
	}
	return ids
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	exerciseStore(t, NewSQLiteStore(path))
}

// TestSQLiteStorePersistsAcrossReopen verifies data written before
// Close is readable after re-initializing from the same file.
func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	store := NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	run := testRun("run-persisted", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := NewSQLiteStore(path)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen Init failed: %v", err)
	}
	defer reopened.Close()

	_, ok, err := reopened.GetRun(ctx, "run-persisted")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if !ok {
		t.Error("run not found after reopen")
	}
}

// TestStoreRequiresInit verifies operations before Init fail cleanly on
// both implementations.
func TestStoreRequiresInit(t *testing.T) {
	stores := map[string]Store{
		"sqlite": NewSQLiteStore(filepath.Join(t.TempDir(), "unused.db")),
		"memory": NewMemoryStore(),
	}
	for name, store := range stores {
		if err := store.SaveRun(context.Background(), Run{ID: "x"}); err == nil {
			t.Errorf("%s: SaveRun before Init should fail", name)
		}
		if err := store.RecordEpoch(context.Background(), EpochRecord{RunID: "x"}); err == nil {
			t.Errorf("%s: RecordEpoch before Init should fail", name)
		}
		if _, _, err := store.GetRun(context.Background(), "x"); err == nil {
			t.Errorf("%s: GetRun before Init should fail", name)
		}
		if _, err := store.ListRuns(context.Background()); err == nil {
			t.Errorf("%s: ListRuns before Init should fail", name)
		}
	}
}
