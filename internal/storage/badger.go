package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

// Badger is an alternate embedded backend. Each slot maps to one key; useful
// when the data dir lives on storage where sqlite's locking misbehaves
// (network mounts).
type Badger struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB slot store in dir. An empty dir
// opens an in-memory database.
func OpenBadger(dir string, log *slog.Logger) (*Badger, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	if log != nil {
		opts = opts.WithLogger(badgerLogger{log: log})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", dir, err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Close() error {
	return b.db.Close()
}

func (b *Badger) Get(_ context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(slot))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", slot, err)
	}
	return payload, nil
}

func (b *Badger) Set(_ context.Context, slot string, payload []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(slot), payload)
	})
	if err != nil {
		return fmt.Errorf("set slot %q: %w", slot, err)
	}
	return nil
}

func (b *Badger) Delete(_ context.Context, slot string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(slot))
	})
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", slot, err)
	}
	return nil
}

// badgerLogger adapts slog to Badger's Logger interface.
type badgerLogger struct {
	log *slog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, args...))
}
