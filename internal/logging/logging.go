// Package logging builds the slog loggers used across sf2kmem.
//
// Library packages never log unless handed a logger or unless their debug
// environment variable is set; the CLI configures its own handler.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// FromEnv returns a debug-level text logger on stderr when the environment
// variable key is non-empty, and a discarding logger otherwise.
func FromEnv(key string) *slog.Logger {
	if os.Getenv(key) == "" {
		return Discard()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Options configures New.
type Options struct {
	Out   io.Writer  // Destination. Default: os.Stderr
	JSON  bool       // Emit JSON records instead of key=value text
	Level slog.Level // Minimum level. Default: LevelInfo
	Quiet bool       // If true, all output is discarded
}

// New builds a logger from opts. A nil opts yields an info-level text logger on stderr.
func New(opts *Options) *slog.Logger {
	if opts == nil {
		opts = &Options{}
	}
	if opts.Quiet {
		return Discard()
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, ho))
	}
	return slog.New(slog.NewTextHandler(out, ho))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
