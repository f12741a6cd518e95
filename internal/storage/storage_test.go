package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

// backends under test share one suite; both must satisfy the same contract.
func backends(t *testing.T) map[string]KV {
	t.Helper()

	sqlite, err := OpenMemory()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bdg, err := OpenBadger("", log)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { bdg.Close() })

	return map[string]KV{"sqlite": sqlite, "badger": bdg}
}

func TestGetMissingSlot(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := kv.Get(context.Background(), "never-written")
			if !errors.Is(err, ErrSlotNotFound) {
				t.Fatalf("expected ErrSlotNotFound, got %v", err)
			}
		})
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			payload := []byte(`[{"id":"1"}]`)

			if err := kv.Set(ctx, "tasks", payload); err != nil {
				t.Fatal(err)
			}
			got, err := kv.Get(ctx, "tasks")
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Fatalf("got %q, want %q", got, payload)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := kv.Set(ctx, "slot", []byte("old")); err != nil {
				t.Fatal(err)
			}
			if err := kv.Set(ctx, "slot", []byte("new")); err != nil {
				t.Fatal(err)
			}
			got, err := kv.Get(ctx, "slot")
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != "new" {
				t.Fatalf("got %q, want overwrite", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := kv.Set(ctx, "slot", []byte("x")); err != nil {
				t.Fatal(err)
			}
			if err := kv.Delete(ctx, "slot"); err != nil {
				t.Fatal(err)
			}
			if _, err := kv.Get(ctx, "slot"); !errors.Is(err, ErrSlotNotFound) {
				t.Fatalf("expected ErrSlotNotFound after delete, got %v", err)
			}

			// Deleting an absent slot is not an error.
			if err := kv.Delete(ctx, "slot"); err != nil {
				t.Fatalf("double delete errored: %v", err)
			}
		})
	}
}

func TestSlotsAreIndependent(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			kv.Set(ctx, "a", []byte("aaa"))
			kv.Set(ctx, "b", []byte("bbb"))
			if err := kv.Delete(ctx, "a"); err != nil {
				t.Fatal(err)
			}

			got, err := kv.Get(ctx, "b")
			if err != nil || string(got) != "bbb" {
				t.Fatalf("slot b damaged: %q, %v", got, err)
			}
		})
	}
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "foxhub.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tasks", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	got, err := s2.Get(ctx, "tasks")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Fatalf("got %q after reopen", got)
	}
}

func TestBadgerPersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	b, err := OpenBadger(dir, log)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(ctx, "goals", []byte("persisted")); err != nil {
		t.Fatal(err)
	}
	b.Close()

	b2, err := OpenBadger(dir, log)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()

	got, err := b2.Get(ctx, "goals")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "persisted" {
		t.Fatalf("got %q after reopen", got)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}
