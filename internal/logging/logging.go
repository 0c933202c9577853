package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MrJamesThe3rd/stockroom/internal/config"
)

// New builds the process logger from the log settings. Unknown levels fall back to info.
func New(cfg *config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}

	if strings.EqualFold(cfg.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)).With("app", cfg.App.Name)
	}

	return slog.New(slog.NewTextHandler(w, opts)).With("app", cfg.App.Name)
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return level
}
