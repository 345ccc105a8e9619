package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// Options configure the process logger.
type Options struct {
	Level string
	// LogsDir receives one <YYYY-MM-DD>.log file per day; empty disables it.
	LogsDir string
	// Console defaults to os.Stdout.
	Console io.Writer
	Now     func() time.Time
}

// New creates a slog.Logger writing to the console and to the daily log file.
// The returned closer releases the file and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	handlerOpts := &slog.HandlerOptions{Level: levelFromString(opts.Level)}

	consoleHandler := slog.Handler(slog.NewJSONHandler(console, handlerOpts))
	if isTerminal(console) {
		consoleHandler = slog.NewTextHandler(console, handlerOpts)
	}

	if strings.TrimSpace(opts.LogsDir) == "" {
		return slog.New(consoleHandler), nopCloser{}, nil
	}

	file, err := openDailyFile(opts.LogsDir, now())
	if err != nil {
		return slog.New(consoleHandler), nopCloser{}, err
	}
	fileHandler := slog.NewTextHandler(file, handlerOpts)
	return slog.New(newFanoutHandler(consoleHandler, fileHandler)), file, nil
}

// DailyFileName is the log file name used for the day of t.
func DailyFileName(t time.Time) string {
	return t.Format(time.DateOnly) + ".log"
}

func openDailyFile(dir string, t time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	path := filepath.Join(dir, DailyFileName(t))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
