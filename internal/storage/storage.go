// Package storage defines the key-value port the record stores persist
// through. A slot is a single named location holding the serialized list for
// one record kind; backends only move opaque payloads and know nothing about
// record shapes.
package storage

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by Get when a slot has never been written.
var ErrSlotNotFound = errors.New("storage: slot not found")

// KV is a minimal slot store. Implementations must be safe for use from
// multiple goroutines within one process; cross-process writers race with
// last-writer-wins semantics.
type KV interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, payload []byte) error
	Delete(ctx context.Context, slot string) error
	Close() error
}
