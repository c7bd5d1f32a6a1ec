package hal

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func newHostLogger() *hostLogger { return &hostLogger{w: os.Stderr} }

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// LogWriter adapts a line Logger into an io.Writer.
//
// Partial writes are buffered until a newline arrives.
type LogWriter struct {
	mu  sync.Mutex
	l   Logger
	buf []byte
}

func NewLogWriter(l Logger) *LogWriter { return &LogWriter{l: l} }

func (w *LogWriter) Write(p []byte) (int, error) {
	if w == nil || w.l == nil {
		return len(p), nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.l.WriteLineBytes(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) == 0 {
		w.buf = nil
	}
	return len(p), nil
}

// NewSlog returns a text slog.Logger writing through l.
func NewSlog(l Logger, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(NewLogWriter(l), &slog.HandlerOptions{Level: level}))
}

// NewLineLogger returns a Logger that writes each line to w.
func NewLineLogger(w io.Writer) Logger {
	if w == nil {
		w = io.Discard
	}
	return &hostLogger{w: w}
}
