// Package logging builds the slog logger shared by the reader and its collaborators.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/fortuna/sofifa/internal/config"
)

// New creates a logger writing to w (stdout when nil) with the configured
// level and format.
func New(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("service", "sofifa"), nil
}
