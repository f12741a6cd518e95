package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	// DataDir holds the slot database (and the log file). Defaults to the
	// platform config dir.
	DataDir string `env:"FOXHUB_DATA_DIR" env-default:""`
	// Backend selects the slot store: "sqlite" (default) or "badger".
	Backend  string `env:"FOXHUB_BACKEND" env-default:"sqlite"`
	LogLevel string `env:"FOXHUB_LOG_LEVEL" env-default:"info"`

	Pomodoro PomodoroConfig
}

// PomodoroConfig are the timer defaults, all in minutes.
type PomodoroConfig struct {
	Work       int `env:"FOXHUB_POMODORO_WORK" env-default:"25"`
	ShortBreak int `env:"FOXHUB_POMODORO_SHORT_BREAK" env-default:"5"`
	LongBreak  int `env:"FOXHUB_POMODORO_LONG_BREAK" env-default:"15"`
	Target     int `env:"FOXHUB_POMODORO_TARGET" env-default:"4"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "foxhub")
	}

	switch cfg.Backend {
	case "sqlite", "badger":
	default:
		return Config{}, fmt.Errorf("FOXHUB_BACKEND must be sqlite or badger, got %q", cfg.Backend)
	}

	if cfg.Pomodoro.Work <= 0 || cfg.Pomodoro.ShortBreak <= 0 || cfg.Pomodoro.LongBreak <= 0 || cfg.Pomodoro.Target <= 0 {
		return Config{}, fmt.Errorf("pomodoro durations and target must be positive")
	}

	return cfg, nil
}

// Level maps the configured log level onto slog's.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
