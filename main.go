package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/foxhub/foxhub/internal/cache"
	"github.com/foxhub/foxhub/internal/config"
	"github.com/foxhub/foxhub/internal/storage"
	"github.com/foxhub/foxhub/internal/store"
	"github.com/foxhub/foxhub/internal/tui"
)

func main() {
	// Optional .env in the working dir; real env wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, logClose, err := openLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer logClose()

	kv, err := openBackend(cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening data store: %v\n", err)
		os.Exit(1)
	}
	defer kv.Close()

	c := cache.New(log)
	s := store.New(kv, c, log)
	q := cache.NewQueries(c, s)

	app := tui.NewApp(tui.Deps{
		Store:   s,
		Queries: q,
		Cache:   c,
		Config:  cfg,
		Log:     log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	log.Info("starting", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to a file in the data dir. Stderr is
// owned by the TUI, so it never gets log lines.
func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(cfg.DataDir, "foxhub.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()}))
	return log, func() { f.Close() }, nil
}

func openBackend(cfg config.Config, log *slog.Logger) (storage.KV, error) {
	switch cfg.Backend {
	case "badger":
		return storage.OpenBadger(filepath.Join(cfg.DataDir, "badger"), log)
	default:
		return storage.OpenSQLite(filepath.Join(cfg.DataDir, "foxhub.db"))
	}
}
