package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/foxhub/foxhub/internal/storage"
)

func newTestKV(t *testing.T) storage.KV {
	t.Helper()
	kv, err := storage.OpenMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(newTestKV(t), nil, log)
}

// ============================================================
// Seeding
// ============================================================

func TestListSeedsMissingSlot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tasks, err := s.Tasks.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) == 0 {
		t.Fatal("expected seed tasks on first read")
	}

	// The seed must be persisted, not regenerated per read.
	again, err := s.Tasks.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(tasks) {
		t.Fatalf("second read returned %d tasks, first %d", len(again), len(tasks))
	}
	if again[0].ID != tasks[0].ID {
		t.Fatal("seed was regenerated between reads")
	}
}

func TestListReseedsCorruptPayload(t *testing.T) {
	kv := newTestKV(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(kv, nil, log)
	ctx := context.Background()

	if err := kv.Set(ctx, SlotTasks, []byte("{not json")); err != nil {
		t.Fatal(err)
	}

	tasks, err := s.Tasks.List(ctx)
	if err != nil {
		t.Fatalf("corrupt slot should reseed, got error: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("expected seed tasks after reseed")
	}

	// The slot must now hold valid JSON.
	if _, err := s.Tasks.List(ctx); err != nil {
		t.Fatalf("reseeded slot still unreadable: %v", err)
	}
}

func TestEverySlotSeeds(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if l, _ := s.Goals.List(ctx); len(l) == 0 {
		t.Error("goals slot did not seed")
	}
	if l, _ := s.Notes.List(ctx); len(l) == 0 {
		t.Error("notes slot did not seed")
	}
	if l, _ := s.Entries.List(ctx); len(l) == 0 {
		t.Error("time entries slot did not seed")
	}
	if l, _ := s.Sessions.List(ctx); len(l) == 0 {
		t.Error("pomodoro sessions slot did not seed")
	}
}

// ============================================================
// Create
// ============================================================

func TestCreateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, _ := s.Tasks.List(ctx)

	task, err := s.Tasks.Create(ctx, Task{Title: "Write report", Category: "work"})
	if err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if task.Priority != PriorityMedium {
		t.Fatalf("expected default priority medium, got %q", task.Priority)
	}
	if task.Tags == nil || task.Subtasks == nil {
		t.Fatal("nil slices should be normalized to empty")
	}

	after, _ := s.Tasks.List(ctx)
	if len(after) != len(before)+1 {
		t.Fatalf("expected %d tasks, got %d", len(before)+1, len(after))
	}
	// New records go to the front.
	if after[0].ID != task.ID {
		t.Fatal("created task should be first in the list")
	}
}

func TestCreateIDsAreUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Tasks.Create(ctx, Task{Title: "one"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Tasks.Create(ctx, Task{Title: "two"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate ids: %q", a.ID)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, _ := s.Tasks.List(ctx)

	_, err := s.Tasks.Create(ctx, Task{Title: "   "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "title" {
		t.Fatalf("expected field title, got %q", verr.Field)
	}

	after, _ := s.Tasks.List(ctx)
	if len(after) != len(before) {
		t.Fatal("failed create must not persist anything")
	}
}

func TestCreateGoalValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		goal  Goal
		field string
	}{
		{"blank title", Goal{Category: "health", Unit: "km", TargetValue: 10}, "title"},
		{"zero target", Goal{Title: "Run", Category: "health", Unit: "km"}, "targetValue"},
		{"negative progress", Goal{Title: "Run", Category: "health", Unit: "km", TargetValue: 10, CurrentValue: -1}, "currentValue"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Goals.Create(ctx, tc.goal)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, verr.Field)
			}
		})
	}
}

func TestCreateSessionValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Sessions.Create(ctx, PomodoroSession{Type: "nap", Duration: 25}); err == nil {
		t.Fatal("unknown session type should fail")
	}
	if _, err := s.Sessions.Create(ctx, PomodoroSession{Type: SessionWork}); err == nil {
		t.Fatal("zero duration should fail")
	}
}

// ============================================================
// Update
// ============================================================

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, err := s.Tasks.Create(ctx, Task{Title: "Original"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := s.Tasks.Update(ctx, task.ID, func(x *Task) {
		x.Completed = true
		x.Title = "Changed"
	})
	if err != nil {
		t.Fatal(err)
	}
	if !updated.Completed || updated.Title != "Changed" {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.UpdatedAt.Before(task.UpdatedAt) {
		t.Fatal("UpdatedAt went backwards")
	}
	if !updated.CreatedAt.Equal(task.CreatedAt) {
		t.Fatal("CreatedAt must not change on update")
	}

	// The change must be persisted.
	list, _ := s.Tasks.List(ctx)
	for _, x := range list {
		if x.ID == task.ID && !x.Completed {
			t.Fatal("update not persisted")
		}
	}
}

func TestUpdateCannotChangeID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, _ := s.Tasks.Create(ctx, Task{Title: "Keep my id"})

	updated, err := s.Tasks.Update(ctx, task.ID, func(x *Task) {
		x.ID = "hijacked"
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.ID != task.ID {
		t.Fatalf("id changed to %q", updated.ID)
	}
}

func TestUpdateMissingID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, _ := s.Tasks.List(ctx)

	_, err := s.Tasks.Update(ctx, "no-such-id", func(x *Task) {
		x.Completed = true
	})
	var nfe *NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nfe.Slot != SlotTasks || nfe.ID != "no-such-id" {
		t.Fatalf("unexpected error detail: %+v", nfe)
	}

	after, _ := s.Tasks.List(ctx)
	if len(after) != len(before) {
		t.Fatal("failed update changed the list")
	}
}

func TestGoalCompletionDerived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goal, err := s.Goals.Create(ctx, Goal{Title: "Read", Category: "learning", Unit: "books", TargetValue: 3})
	if err != nil {
		t.Fatal(err)
	}
	if goal.Completed {
		t.Fatal("fresh goal should not be completed")
	}

	goal, err = s.Goals.Update(ctx, goal.ID, func(g *Goal) {
		g.CurrentValue = 3
	})
	if err != nil {
		t.Fatal(err)
	}
	if !goal.Completed {
		t.Fatal("reaching the target should mark the goal completed")
	}

	// Lowering progress afterwards keeps the completed flag.
	goal, err = s.Goals.Update(ctx, goal.ID, func(g *Goal) {
		g.CurrentValue = 2
	})
	if err != nil {
		t.Fatal(err)
	}
	if !goal.Completed {
		t.Fatal("completed flag must not be cleared by lowering progress")
	}
}

// ============================================================
// Delete
// ============================================================

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	task, _ := s.Tasks.Create(ctx, Task{Title: "Doomed"})
	before, _ := s.Tasks.List(ctx)

	if err := s.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatal(err)
	}

	after, _ := s.Tasks.List(ctx)
	if len(after) != len(before)-1 {
		t.Fatalf("expected %d tasks, got %d", len(before)-1, len(after))
	}
	for _, x := range after {
		if x.ID == task.ID {
			t.Fatal("deleted task still present")
		}
	}
}

func TestDeleteAbsentIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, _ := s.Tasks.List(ctx)
	if err := s.Tasks.Delete(ctx, "no-such-id"); err != nil {
		t.Fatalf("deleting an absent id should not error: %v", err)
	}
	after, _ := s.Tasks.List(ctx)
	if len(after) != len(before) {
		t.Fatal("no-op delete changed the list")
	}
}

// ============================================================
// Invalidation
// ============================================================

type recordingInvalidator struct {
	keys []string
}

func (r *recordingInvalidator) Invalidate(key string) {
	r.keys = append(r.keys, key)
}

func (r *recordingInvalidator) count(key string) int {
	n := 0
	for _, k := range r.keys {
		if k == key {
			n++
		}
	}
	return n
}

func TestMutationsInvalidate(t *testing.T) {
	inv := &recordingInvalidator{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(newTestKV(t), inv, log)
	ctx := context.Background()

	task, err := s.Tasks.Create(ctx, Task{Title: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if inv.count(SlotTasks) != 1 {
		t.Fatalf("create should invalidate once, got %d", inv.count(SlotTasks))
	}

	if _, err := s.Tasks.Update(ctx, task.ID, func(x *Task) { x.Completed = true }); err != nil {
		t.Fatal(err)
	}
	if err := s.Tasks.Delete(ctx, task.ID); err != nil {
		t.Fatal(err)
	}
	if inv.count(SlotTasks) != 3 {
		t.Fatalf("expected 3 invalidations after create+update+delete, got %d", inv.count(SlotTasks))
	}
}

func TestFailedCreateDoesNotInvalidate(t *testing.T) {
	inv := &recordingInvalidator{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(newTestKV(t), inv, log)
	ctx := context.Background()

	if _, err := s.Tasks.Create(ctx, Task{}); err == nil {
		t.Fatal("expected validation error")
	}
	if inv.count(SlotTasks) != 0 {
		t.Fatal("rejected create must not invalidate")
	}
}

// ============================================================
// Reset
// ============================================================

func TestResetClearsDataKeepsIdentity(t *testing.T) {
	inv := &recordingInvalidator{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(newTestKV(t), inv, log)
	ctx := context.Background()

	created, _ := s.Tasks.Create(ctx, Task{Title: "gone after reset"})
	if _, err := s.Identity.Login(ctx, "ada@example.com", "Ada"); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	for _, slot := range DataSlots {
		if inv.count(slot) == 0 {
			t.Errorf("reset did not invalidate %s", slot)
		}
	}

	// Data slots fall back to seeds; the created record is gone.
	tasks, _ := s.Tasks.List(ctx)
	for _, x := range tasks {
		if x.ID == created.ID {
			t.Fatal("reset kept a user record")
		}
	}

	user, err := s.Identity.Current(ctx)
	if err != nil {
		t.Fatalf("identity should survive reset: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("unexpected identity: %+v", user)
	}
}

// ============================================================
// Identity
// ============================================================

func TestIdentityLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Identity.Current(ctx); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}

	user, err := s.Identity.Login(ctx, "grace@example.com", "")
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "grace" {
		t.Fatalf("name should default to the email local part, got %q", user.Name)
	}
	if user.ID == "" || user.Avatar == "" || user.CreatedAt.IsZero() {
		t.Fatalf("incomplete profile: %+v", user)
	}

	got, err := s.Identity.Current(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Email != "grace@example.com" {
		t.Fatalf("unexpected current user: %+v", got)
	}

	if err := s.Identity.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Identity.Current(ctx); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity after logout, got %v", err)
	}
}

func TestIdentityRejectsBadEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := s.Identity.Login(ctx, email, "x"); err == nil {
			t.Errorf("login with %q should fail", email)
		}
	}
}

func TestIdentityCorruptSlotCleared(t *testing.T) {
	kv := newTestKV(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(kv, nil, log)
	ctx := context.Background()

	if err := kv.Set(ctx, SlotUser, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Identity.Current(ctx); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("corrupt user slot should read as no identity, got %v", err)
	}
	// The slot is cleared, not reseeded.
	if _, err := kv.Get(ctx, SlotUser); !errors.Is(err, storage.ErrSlotNotFound) {
		t.Fatalf("expected cleared user slot, got %v", err)
	}
}

// ============================================================
// Timestamps
// ============================================================

func TestTimeEntryCreateTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry, err := s.Entries.Create(ctx, TimeEntry{Description: "standup", Category: "work", Duration: 15})
	if err != nil {
		t.Fatal(err)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
	if entry.StartTime.IsZero() {
		t.Fatal("StartTime should default to now")
	}

	// An explicit start time is kept.
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	entry, err = s.Entries.Create(ctx, TimeEntry{Description: "review", Duration: 30, StartTime: start})
	if err != nil {
		t.Fatal(err)
	}
	if !entry.StartTime.Equal(start) {
		t.Fatalf("explicit start time overwritten: %v", entry.StartTime)
	}
}
