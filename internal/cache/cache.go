// Package cache holds the most recent list() snapshot per slot so every view
// in one frame observes the same data, and re-reads only after a mutation
// invalidates the slot's key.
package cache

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/foxhub/foxhub/internal/store"
)

// Cache maps slot names to snapshots. It satisfies store.Invalidator.
type Cache struct {
	mu        sync.RWMutex
	snapshots map[string]any
	group     singleflight.Group
	log       *slog.Logger
}

func New(log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		snapshots: make(map[string]any),
		log:       log,
	}
}

// Invalidate drops the snapshot for key; the next Fetch recomputes it.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.snapshots, key)
	c.mu.Unlock()
}

// InvalidateAll drops every snapshot (import/reset surfaces).
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.snapshots = make(map[string]any)
	c.mu.Unlock()
}

// Fetch returns the cached snapshot for key, loading it once on miss.
// Concurrent first reads of the same key share a single load. A failed load
// caches nothing and the error is passed through.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.RLock()
	v, ok := c.snapshots[key]
	c.mu.RUnlock()
	if ok {
		return v.([]T), nil
	}

	res, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have filled the snapshot already.
		c.mu.RLock()
		v, ok := c.snapshots[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		list, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.snapshots[key] = list
		c.mu.Unlock()
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]T), nil
}

// Queries is the read facade the UI consumes: typed snapshot reads per slot.
type Queries struct {
	cache *Cache
	store *store.Store
}

func NewQueries(c *Cache, s *store.Store) *Queries {
	return &Queries{cache: c, store: s}
}

func (q *Queries) Tasks(ctx context.Context) ([]store.Task, error) {
	return Fetch(ctx, q.cache, store.SlotTasks, q.store.Tasks.List)
}

func (q *Queries) Goals(ctx context.Context) ([]store.Goal, error) {
	return Fetch(ctx, q.cache, store.SlotGoals, q.store.Goals.List)
}

func (q *Queries) Notes(ctx context.Context) ([]store.Note, error) {
	return Fetch(ctx, q.cache, store.SlotNotes, q.store.Notes.List)
}

func (q *Queries) Entries(ctx context.Context) ([]store.TimeEntry, error) {
	return Fetch(ctx, q.cache, store.SlotEntries, q.store.Entries.List)
}

func (q *Queries) Sessions(ctx context.Context) ([]store.PomodoroSession, error) {
	return Fetch(ctx, q.cache, store.SlotSessions, q.store.Sessions.List)
}
