package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/foxhub/foxhub/internal/storage"
	"github.com/foxhub/foxhub/internal/store"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ============================================================
// Fetch
// ============================================================

func TestFetchCachesSnapshot(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return []string{"a", "b"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(ctx, c, "slot", load)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Fatalf("got %v", got)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("loader ran %d times, want 1", n)
	}
}

func TestInvalidateForcesReload(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]int, error) {
		return []int{int(atomic.AddInt32(&calls, 1))}, nil
	}

	first, _ := Fetch(ctx, c, "slot", load)
	c.Invalidate("slot")
	second, _ := Fetch(ctx, c, "slot", load)

	if first[0] == second[0] {
		t.Fatal("invalidate did not force a reload")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("loader ran %d times, want 2", atomic.LoadInt32(&calls))
	}
}

func TestFailedLoadIsNotCached(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("backend down")
	fail := true
	load := func(context.Context) ([]string, error) {
		if fail {
			return nil, boom
		}
		return []string{"ok"}, nil
	}

	if _, err := Fetch(ctx, c, "slot", load); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}

	// Recovery on the next read, without an invalidate in between.
	fail = false
	got, err := Fetch(ctx, c, "slot", load)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("got %v", got)
	}
}

func TestConcurrentFetchesShareOneLoad(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	gate := make(chan struct{})
	load := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return []string{"x"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Fetch(ctx, c, "slot", load); err != nil {
				t.Error(err)
			}
		}()
	}
	close(gate)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("loader ran %d times under concurrency, want 1", n)
	}
}

func TestInvalidateAll(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	var calls int32
	load := func(context.Context) ([]string, error) {
		atomic.AddInt32(&calls, 1)
		return nil, nil
	}

	Fetch(ctx, c, "a", load)
	Fetch(ctx, c, "b", load)
	c.InvalidateAll()
	Fetch(ctx, c, "a", load)
	Fetch(ctx, c, "b", load)

	if n := atomic.LoadInt32(&calls); n != 4 {
		t.Fatalf("loader ran %d times, want 4", n)
	}
}

// ============================================================
// Queries over a real store
// ============================================================

func newTestQueries(t *testing.T) (*Queries, *store.Store) {
	t.Helper()
	kv, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(log)
	s := store.New(kv, c, log)
	return NewQueries(c, s), s
}

func TestQueriesSeeTheirOwnWrites(t *testing.T) {
	q, s := newTestQueries(t)
	ctx := context.Background()

	before, err := q.Tasks(ctx)
	if err != nil {
		t.Fatal(err)
	}

	created, err := s.Tasks.Create(ctx, store.Task{Title: "fresh"})
	if err != nil {
		t.Fatal(err)
	}

	after, err := q.Tasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("snapshot is stale: %d tasks, want %d", len(after), len(before)+1)
	}
	if after[0].ID != created.ID {
		t.Fatal("created task missing from snapshot")
	}
}

func TestQueriesSnapshotStableWithoutWrites(t *testing.T) {
	q, _ := newTestQueries(t)
	ctx := context.Background()

	a, err := q.Goals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := q.Goals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatal("two reads without writes disagree")
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatal("two reads without writes disagree")
		}
	}
}

func TestQueriesCoverEverySlot(t *testing.T) {
	q, _ := newTestQueries(t)
	ctx := context.Background()

	if _, err := q.Tasks(ctx); err != nil {
		t.Errorf("tasks: %v", err)
	}
	if _, err := q.Goals(ctx); err != nil {
		t.Errorf("goals: %v", err)
	}
	if _, err := q.Notes(ctx); err != nil {
		t.Errorf("notes: %v", err)
	}
	if _, err := q.Entries(ctx); err != nil {
		t.Errorf("entries: %v", err)
	}
	if _, err := q.Sessions(ctx); err != nil {
		t.Errorf("sessions: %v", err)
	}
}
