package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	ERROR
)

var (
	Logger *slog.Logger

	mu           sync.RWMutex
	currentLevel = INFO
	sink         io.Writer = os.Stdout
)

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// Options selects the minimum level and an optional log file that receives
// a copy of everything written to stdout.
type Options struct {
	Level string
	File  string
}

// Configure rebuilds the global logger. Invalid options are reported but the
// logger is still usable: a bad level keeps INFO, a bad file keeps stdout.
func Configure(opts Options) error {
	level := INFO
	var levelErr error
	if strings.TrimSpace(opts.Level) != "" {
		level, levelErr = ParseLevel(opts.Level)
	}

	out := io.Writer(os.Stdout)
	var fileErr error
	if path := strings.TrimSpace(opts.File); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fileErr = err
		} else if f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			fileErr = err
		} else {
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	mu.Lock()
	currentLevel = level
	sink = out
	Logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: toSlog(level)}))
	mu.Unlock()

	return errors.Join(levelErr, fileErr)
}

func SetLevel(level Level) {
	mu.Lock()
	currentLevel = level
	mu.Unlock()
}

// Enabled reports whether messages at level pass the current filter.
func Enabled(level Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return currentLevel <= level
}

// Writer is the sink the logger currently writes to; the HTTP access log
// shares it.
func Writer() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return sink
}

func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "error":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("invalid log level %q", value)
}

func toSlog(level Level) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Debug(msg string, args ...any) {
	if Enabled(DEBUG) {
		Logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if Enabled(INFO) {
		Logger.Info(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Enabled(ERROR) {
		Logger.Error(msg, args...)
	}
}
