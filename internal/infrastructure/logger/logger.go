package logger

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	ctxutil "sedeges/ms_hojas_ruta/internal/infrastructure/context"
)

const colorReset = "\033[0m"

var levelColors = map[string]string{
	"level=DEBUG": "\033[36m",
	"level=INFO":  "\033[32m",
	"level=WARN":  "\033[33m",
	"level=ERROR": "\033[31m",
}

// colorWriter highlights the level attribute of slog text lines.
type colorWriter struct {
	w io.Writer
}

func (cw colorWriter) Write(p []byte) (int, error) {
	out := p
	for marker, color := range levelColors {
		if bytes.Contains(out, []byte(marker)) {
			out = bytes.Replace(out, []byte(marker), []byte(color+marker+colorReset), 1)
			break
		}
	}
	if _, err := cw.w.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// New builds a structured slog logger honoring the configured level and environment.
// Development environments (local, dev, development) get text output, colored on a
// terminal; everything else gets JSON.
func New(appName, level, environment string) *slog.Logger {
	return newWithWriter(os.Stdout, appName, level, environment)
}

func newWithWriter(w io.Writer, appName, level, environment string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "local", "dev", "development":
		if isTerminal(w) {
			w = colorWriter{w: w}
		}
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("app", appName)
}

// FromContext returns log enriched with the request's correlation ID, when
// the context carries one.
func FromContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id := ctxutil.GetCorrelationID(ctx); id != "" {
		return log.With("correlation_id", id)
	}
	return log
}

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
