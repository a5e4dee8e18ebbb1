package store

import (
	"context"
	"testing"
	"time"
)

// openTestStore opens an in-memory SQLiteStore for use in tests.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_Store_SaveAndRecent(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{
		RunID:         "lawrag_naive_20260830-120000",
		Version:       "naive",
		Dataset:       "data/questions.json",
		TopK:          3,
		QueryCount:    50,
		MeanRecall:    0.82,
		MeanPrecision: 0.31,
		MAP:           0.74,
		MRR:           0.74,
	}
	if err := s.Save(ctx, run); err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := s.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("want 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.RunID != run.RunID || got.Version != "naive" || got.QueryCount != 50 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.MeanRecall != 0.82 || got.MRR != 0.74 {
		t.Errorf("metrics mismatch: %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not defaulted on save")
	}
}

func Test_Store_VersionFilter(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for i, version := range []string{"naive", "parent-child-fine", "naive"} {
		run := Run{
			RunID:     "run-" + string(rune('a'+i)),
			Version:   version,
			Dataset:   "data/questions.json",
			TopK:      3,
			CreatedAt: time.Unix(int64(1000+i), 0),
		}
		if err := s.Save(ctx, run); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	naive, err := s.Recent(ctx, "naive", 10)
	if err != nil {
		t.Fatalf("recent naive: %v", err)
	}
	if len(naive) != 2 {
		t.Fatalf("want 2 naive runs, got %d", len(naive))
	}
	for _, r := range naive {
		if r.Version != "naive" {
			t.Errorf("version filter leaked %q", r.Version)
		}
	}

	all, err := s.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("want 3 runs total, got %d", len(all))
	}
}

func Test_Store_NewestFirstAndLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	ids := []string{"r1", "r2", "r3", "r4"}
	for i, id := range ids {
		run := Run{
			RunID:     id,
			Version:   "naive",
			Dataset:   "d",
			TopK:      3,
			CreatedAt: time.Unix(int64(2000+i), 0),
		}
		if err := s.Save(ctx, run); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := s.Recent(ctx, "naive", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("want 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "r4" || runs[1].RunID != "r3" {
		t.Errorf("ordering wrong: got %s, %s", runs[0].RunID, runs[1].RunID)
	}
}

func Test_Store_DuplicateRunIDRejected(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	run := Run{RunID: "dup", Version: "naive", Dataset: "d", TopK: 3}
	if err := s.Save(ctx, run); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.Save(ctx, run); err == nil {
		t.Fatal("expected unique constraint error on duplicate run_id")
	}
}

func Test_Store_EmptyHistoryReturnsNil(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	runs, err := s.Recent(context.Background(), "", 10)
	if err != nil {
		t.Fatalf("recent empty: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("want 0 runs, got %d", len(runs))
	}
}
