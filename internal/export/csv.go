package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/foxhub/foxhub/internal/store"
)

// WriteCSV exports the time entries to a spreadsheet-friendly file.
func WriteCSV(ctx context.Context, s *store.Store, path string) error {
	entries, err := s.Entries.List(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"ID", "Description", "Category", "Start", "End", "Duration (min)", "Duration"}); err != nil {
		return err
	}

	for _, e := range entries {
		endStr := ""
		if e.EndTime != nil {
			endStr = e.EndTime.Local().Format(time.RFC3339)
		}
		row := []string{
			e.ID,
			e.Description,
			e.Category,
			e.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", e.Duration),
			formatMinutes(e.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatMinutes(mins int) string {
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
