// Package logging initialises a [log/slog] logger from the semconvert
// configuration and provides context-based logger propagation. Conversion
// runs log every prefix and quad decision at debug level, so --verbose
// (or --log-level debug) turns stderr into a filter trace.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/semconvert/internal/config"
	"github.com/hupe1980/semconvert/internal/rdf"
)

// AppName is attached to every JSON record so shipped logs can be told
// apart from those of other tools.
const AppName = "semconvert"

type ctxKey struct{}

// Setup creates a *slog.Logger configured according to cfg, writing to stderr,
// and installs it as the process-wide default via slog.SetDefault.
func Setup(cfg *config.Config) *slog.Logger {
	return SetupWithWriter(cfg, os.Stderr)
}

// SetupWithWriter creates a *slog.Logger configured according to cfg, writing
// to w, and installs it as the process-wide default via slog.SetDefault.
// Use this variant in tests to capture or suppress log output.
func SetupWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	level := ParseLevel(cfg.EffectiveLogLevel())
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler

	switch cfg.LogFormat {
	case config.LogFormatJSON:
		handler = slog.NewJSONHandler(w, opts).WithAttrs([]slog.Attr{slog.String("app", AppName)})
	default: // text
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ForInput tags every record of a conversion run with its input source, so
// quad traces of several watched runs stay apart.
func ForInput(logger *slog.Logger, source, format string) *slog.Logger {
	return logger.With(slog.String("input", source), slog.String("from", format))
}

// Quad groups the terms of q under "quad". The graph is only present for
// quads outside the default graph.
func Quad(q rdf.Quad) slog.Attr {
	attrs := []any{
		slog.String("s", q.Subject.String()),
		slog.String("p", q.Predicate.String()),
		slog.String("o", q.Object.String()),
	}

	if !q.Graph.IsDefaultGraph() && q.Graph.Value != "" {
		attrs = append(attrs, slog.String("g", q.Graph.String()))
	}

	return slog.Group("quad", attrs...)
}

// ParseLevel converts a string log level to slog.Level. Unknown levels map
// to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn, "warning":
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewContext returns a child context carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext extracts a logger from ctx, falling back to slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}

	return slog.Default()
}
