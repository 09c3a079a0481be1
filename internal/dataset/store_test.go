package dataset

import (
	"errors"
	"testing"
	"time"
)

func TestStoreLoadsOncePerCacheLifetime(t *testing.T) {
	t.Parallel()
	calls := 0
	store := NewStore(func() (LoadResult, error) {
		calls++
		return LoadResult{
			Trips:    sampleRows(),
			Warnings: []string{"avviso"},
		}, nil
	})

	for i := 0; i < 3; i++ {
		rows, err := store.Snapshot()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if len(rows) != 4 {
			t.Fatalf("snapshot has %d rows, want 4", len(rows))
		}
	}
	if calls != 1 {
		t.Fatalf("loader ran %d times, want 1", calls)
	}
	if w := store.Warnings(); len(w) != 1 || w[0] != "avviso" {
		t.Fatalf("warnings = %v", w)
	}
	if _, ok := store.LoadedAt(); !ok {
		t.Fatal("LoadedAt should report loaded")
	}
}

func TestStoreInvalidateForcesReload(t *testing.T) {
	t.Parallel()
	calls := 0
	store := NewStore(func() (LoadResult, error) {
		calls++
		return LoadResult{Trips: sampleRows()}, nil
	})
	if _, err := store.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	store.Invalidate()
	if _, ok := store.LoadedAt(); ok {
		t.Fatal("invalidated store should not report loaded")
	}
	if _, err := store.Snapshot(); err != nil {
		t.Fatalf("Snapshot after invalidate: %v", err)
	}
	if calls != 2 {
		t.Fatalf("loader ran %d times, want 2", calls)
	}
}

func TestStoreLoaderFailure(t *testing.T) {
	t.Parallel()
	boom := errors.New("file system gone")
	store := NewStore(func() (LoadResult, error) { return LoadResult{}, boom })
	if _, err := store.Snapshot(); !errors.Is(err, boom) {
		t.Fatalf("Snapshot error = %v, want %v", err, boom)
	}
}

func TestStoreSetExpenses(t *testing.T) {
	t.Parallel()
	store := NewStore(func() (LoadResult, error) { return LoadResult{}, nil })
	if _, err := store.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	store.SetExpenses([]ExpenseRecord{{
		Date:          time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Cost:          Float(1250),
		MacroCategory: "Spese fisse",
	}})
	expenses, err := store.Expenses()
	if err != nil {
		t.Fatalf("Expenses: %v", err)
	}
	if len(expenses) != 1 || *expenses[0].Cost != 1250 {
		t.Fatalf("expenses = %+v", expenses)
	}
}
