// Package store implements the persistent record stores: one named slot per
// record kind, full-list read-modify-write on every mutation, seed data
// written on first read or on unparseable payloads.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foxhub/foxhub/internal/storage"
)

// ValidationError is returned by Create when a required field is missing or a
// numeric field is out of range. Nothing is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError is returned by Update when no record with the given id exists
// in the slot.
type NotFoundError struct {
	Slot string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no record with id %q", e.Slot, e.ID)
}

// Invalidator marks a cached snapshot stale. Mutations call it with the slot
// name after a successful persist, never on failure.
type Invalidator interface {
	Invalidate(key string)
}

// record is implemented (on the pointer type) by every stored entity.
type record interface {
	id() string
	setID(string)
	touch(now time.Time, created bool)
	validate() error
}

type recordOf[T any] interface {
	*T
	record
}

// Records is the store for one record kind. All operations read and rewrite
// the whole slot; per-slot ordering is the caller's call order.
type Records[T any, PT recordOf[T]] struct {
	kv   storage.KV
	slot string
	seed func(now time.Time) []T
	inv  Invalidator
	log  *slog.Logger
}

func newRecords[T any, PT recordOf[T]](kv storage.KV, slot string, seed func(time.Time) []T, inv Invalidator, log *slog.Logger) *Records[T, PT] {
	return &Records[T, PT]{kv: kv, slot: slot, seed: seed, inv: inv, log: log}
}

// List returns the slot's current records. A missing slot is initialized with
// the seed sequence; an unparseable payload is replaced by it (fail-open:
// logged, never surfaced).
func (r *Records[T, PT]) List(ctx context.Context) ([]T, error) {
	payload, err := r.kv.Get(ctx, r.slot)
	if errors.Is(err, storage.ErrSlotNotFound) {
		return r.reseed(ctx, nil)
	}
	if err != nil {
		return nil, err
	}

	var list []T
	if err := json.Unmarshal(payload, &list); err != nil {
		return r.reseed(ctx, err)
	}
	return list, nil
}

func (r *Records[T, PT]) reseed(ctx context.Context, cause error) ([]T, error) {
	if cause != nil {
		r.log.Warn("slot payload unreadable, resetting to seed data",
			"slot", r.slot, "error", cause)
	}
	list := r.seed(time.Now())
	if err := r.persist(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Create validates item, assigns a fresh id and timestamps, prepends it to
// the list and persists. The stored record is returned.
func (r *Records[T, PT]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := PT(&item).validate(); err != nil {
		return zero, err
	}

	list, err := r.List(ctx)
	if err != nil {
		return zero, err
	}

	pt := PT(&item)
	pt.setID(uuid.NewString())
	pt.touch(time.Now(), true)

	list = append([]T{item}, list...)
	if err := r.persist(ctx, list); err != nil {
		return zero, err
	}
	r.invalidate()
	return item, nil
}

// Update applies the patch to the record with the given id and refreshes its
// updated timestamp. The id itself cannot be changed by the patch.
func (r *Records[T, PT]) Update(ctx context.Context, id string, apply func(*T)) (T, error) {
	var zero T
	list, err := r.List(ctx)
	if err != nil {
		return zero, err
	}

	idx := -1
	for i := range list {
		if PT(&list[i]).id() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return zero, &NotFoundError{Slot: r.slot, ID: id}
	}

	apply(&list[idx])
	pt := PT(&list[idx])
	pt.setID(id)
	pt.touch(time.Now(), false)

	if err := r.persist(ctx, list); err != nil {
		return zero, err
	}
	r.invalidate()
	return list[idx], nil
}

// Delete removes the record with the given id. Deleting an absent id is a
// no-op, not an error.
func (r *Records[T, PT]) Delete(ctx context.Context, id string) error {
	list, err := r.List(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for i := range list {
		if PT(&list[i]).id() != id {
			kept = append(kept, list[i])
		}
	}

	if err := r.persist(ctx, kept); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Replace overwrites the whole slot. Used by the import surface.
func (r *Records[T, PT]) Replace(ctx context.Context, list []T) error {
	if err := r.persist(ctx, list); err != nil {
		return err
	}
	r.invalidate()
	return nil
}

// Slot returns the slot name, which doubles as the cache key.
func (r *Records[T, PT]) Slot() string { return r.slot }

func (r *Records[T, PT]) persist(ctx context.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", r.slot, err)
	}
	return r.kv.Set(ctx, r.slot, payload)
}

func (r *Records[T, PT]) invalidate() {
	if r.inv != nil {
		r.inv.Invalidate(r.slot)
	}
}

// Store bundles the per-kind record stores over one backend.
type Store struct {
	kv  storage.KV
	inv Invalidator
	log *slog.Logger

	Tasks    *Records[Task, *Task]
	Goals    *Records[Goal, *Goal]
	Notes    *Records[Note, *Note]
	Entries  *Records[TimeEntry, *TimeEntry]
	Sessions *Records[PomodoroSession, *PomodoroSession]
	Identity *Identity
}

// New wires the record stores to kv. inv may be nil when no query cache is
// attached (tests).
func New(kv storage.KV, inv Invalidator, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		kv:  kv,
		inv: inv,
		log: log,

		Tasks:    newRecords[Task](kv, SlotTasks, seedTasks, inv, log),
		Goals:    newRecords[Goal](kv, SlotGoals, seedGoals, inv, log),
		Notes:    newRecords[Note](kv, SlotNotes, seedNotes, inv, log),
		Entries:  newRecords[TimeEntry](kv, SlotEntries, seedEntries, inv, log),
		Sessions: newRecords[PomodoroSession](kv, SlotSessions, seedSessions, inv, log),
		Identity: &Identity{kv: kv, log: log},
	}
}

// Reset removes every data slot in one step. Irreversible; the caller is
// responsible for confirming with the user first. The identity slot is kept.
func (s *Store) Reset(ctx context.Context) error {
	for _, slot := range DataSlots {
		if err := s.kv.Delete(ctx, slot); err != nil {
			return fmt.Errorf("reset %s: %w", slot, err)
		}
		if s.inv != nil {
			s.inv.Invalidate(slot)
		}
	}
	s.log.Info("all data slots cleared")
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
