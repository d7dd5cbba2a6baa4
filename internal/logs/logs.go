// Package logs provides the editor's event log: JSON lines in a file, never
// on the terminal the editor is drawing to.
package logs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultFile is used when logging is enabled without a file name.
const DefaultFile = "linea.log"

// Logger is a slog.Logger bound to the file it writes.
type Logger struct {
	*slog.Logger
	f io.Closer
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Open returns a JSON logger appending to file, or a discarding logger when
// disabled. If the file cannot be opened logging is silently disabled.
func Open(enabled bool, file string) *Logger {
	if !enabled {
		return Discard()
	}
	if file == "" {
		file = filepath.Join(".", DefaultFile)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return Discard()
	}
	return New(f)
}

// New returns a logger writing JSON lines to w at debug level. If w is an
// io.Closer, Close closes it.
func New(w io.Writer) *Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := &Logger{Logger: slog.New(h)}
	if c, ok := w.(io.Closer); ok {
		l.f = c
	}
	return l
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	return l.f.Close()
}
