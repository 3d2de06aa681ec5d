package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
)

// Writer is an io.Writer that forwards external command output to slog, one record per line.
// Partial lines are buffered until a newline arrives or Flush is called.
type Writer struct {
	logger *slog.Logger
	level  slog.Level
	source string

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewWriter constructs a Writer that logs lines from source at the given level.
func NewWriter(logger *slog.Logger, level Level, source string) *Writer {
	return &Writer{logger: logger, level: slog.Level(level), source: source}
}

// Write logs every complete line in p.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := string(w.buf.Next(idx + 1))
		w.emit(line)
	}
	return len(p), nil
}

// Flush logs any buffered partial line.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *Writer) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if w.logger == nil || strings.TrimSpace(line) == "" {
		return
	}
	w.logger.Log(context.Background(), w.level, "command output", "source", w.source, "line", line)
}
