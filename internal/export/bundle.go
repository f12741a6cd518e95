// Package export implements the backup surface: a single JSON document
// bundling every data slot, the matching import, and a CSV export of time
// entries.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/foxhub/foxhub/internal/store"
)

// Bundle is the backup document. Absent slots are omitted on export and left
// untouched on import.
type Bundle struct {
	ExportedAt       time.Time               `json:"exportedAt"`
	Tasks            []store.Task            `json:"tasks,omitempty"`
	Goals            []store.Goal            `json:"goals,omitempty"`
	Notes            []store.Note            `json:"notes,omitempty"`
	TimeEntries      []store.TimeEntry       `json:"timeEntries,omitempty"`
	PomodoroSessions []store.PomodoroSession `json:"pomodoroSessions,omitempty"`
}

// ImportFormatError wraps any parse failure of an import document. Nothing
// has been applied when it is returned.
type ImportFormatError struct {
	Path string
	Err  error
}

func (e *ImportFormatError) Error() string {
	return fmt.Sprintf("import %s: %v", e.Path, e.Err)
}

func (e *ImportFormatError) Unwrap() error { return e.Err }

// Snapshot reads every data slot into a Bundle.
func Snapshot(ctx context.Context, s *store.Store) (Bundle, error) {
	b := Bundle{ExportedAt: time.Now()}
	var err error
	if b.Tasks, err = s.Tasks.List(ctx); err != nil {
		return Bundle{}, err
	}
	if b.Goals, err = s.Goals.List(ctx); err != nil {
		return Bundle{}, err
	}
	if b.Notes, err = s.Notes.List(ctx); err != nil {
		return Bundle{}, err
	}
	if b.TimeEntries, err = s.Entries.List(ctx); err != nil {
		return Bundle{}, err
	}
	if b.PomodoroSessions, err = s.Sessions.List(ctx); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

// WriteJSON writes the full backup document to path.
func WriteJSON(ctx context.Context, s *store.Store, path string) error {
	b, err := Snapshot(ctx, s)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write backup file: %w", err)
	}
	return nil
}

// ReadJSON parses a backup document. A document that fails to parse yields an
// ImportFormatError and must not be applied.
func ReadJSON(path string) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read backup file: %w", err)
	}

	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, &ImportFormatError{Path: path, Err: err}
	}
	return b, nil
}

// Apply overwrites every slot the bundle carries. Slots absent from the
// bundle keep their current contents. The whole bundle was parsed up front,
// so a malformed document never applies partially.
func Apply(ctx context.Context, s *store.Store, b Bundle) error {
	if b.Tasks != nil {
		if err := s.Tasks.Replace(ctx, b.Tasks); err != nil {
			return err
		}
	}
	if b.Goals != nil {
		if err := s.Goals.Replace(ctx, b.Goals); err != nil {
			return err
		}
	}
	if b.Notes != nil {
		if err := s.Notes.Replace(ctx, b.Notes); err != nil {
			return err
		}
	}
	if b.TimeEntries != nil {
		if err := s.Entries.Replace(ctx, b.TimeEntries); err != nil {
			return err
		}
	}
	if b.PomodoroSessions != nil {
		if err := s.Sessions.Replace(ctx, b.PomodoroSessions); err != nil {
			return err
		}
	}
	return nil
}

// Import reads and applies a backup document in one step.
func Import(ctx context.Context, s *store.Store, path string) error {
	b, err := ReadJSON(path)
	if err != nil {
		return err
	}
	return Apply(ctx, s, b)
}

// DefaultPath returns a dated backup filename in the user's home directory.
func DefaultPath(ext string) string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, fmt.Sprintf("foxhub-backup-%s.%s", time.Now().Format("2006-01-02"), ext))
}
