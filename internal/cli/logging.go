package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// newLogger writes text logs to w, or to LEADROUTER_LOG_PATH when set. The
// returned close func releases the log file.
func newLogger(level string, w io.Writer) (*slog.Logger, func(), error) {
	closeFn := func() {}
	if path := os.Getenv("LEADROUTER_LOG_PATH"); path != "" {
		fw, err := openLogFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = fw
		closeFn = func() { _ = fw.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	return logger, closeFn, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogBytes  = 6 << 20
	keepLogBytes = 5 << 20
)

// logFile is an append-only log that keeps only its newest keepLogBytes once
// it grows past maxLogBytes.
type logFile struct {
	mu   sync.Mutex
	file *os.File
}

func openLogFile(path string) (*logFile, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	lf := &logFile{file: f}
	if err := lf.trim(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return lf, nil
}

func (l *logFile) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, l.trim()
}

func (l *logFile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func (l *logFile) trim() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogBytes {
		return nil
	}

	tail := make([]byte, keepLogBytes)
	n, err := l.file.ReadAt(tail, size-keepLogBytes)
	if err != nil && err != io.EOF {
		return err
	}
	if err := l.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes land at the new end after truncation.
	_, err = l.file.Write(tail[:n])
	return err
}
