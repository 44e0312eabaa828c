package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"alarmclock/logger"
)

const (
	slowQueryThreshold = 200 * time.Millisecond
	defaultGormLevel   = gormlogger.Warn
)

// gormLogger routes gorm's query log into the application slog logger.
type gormLogger struct {
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

func newGormLogger(value string) (gormlogger.Interface, error) {
	l := &gormLogger{slowThreshold: slowQueryThreshold, level: defaultGormLevel}
	if strings.TrimSpace(value) == "" {
		return l, nil
	}
	level, err := parseGormLevel(value)
	l.level = level
	return l, err
}

func parseGormLevel(value string) (gormlogger.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "silent":
		return gormlogger.Silent, nil
	case "error":
		return gormlogger.Error, nil
	case "warn":
		return gormlogger.Warn, nil
	case "info":
		return gormlogger.Info, nil
	}
	return defaultGormLevel, fmt.Errorf("invalid gorm log level %q", value)
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.allows(gormlogger.Info) {
		logger.Logger.Log(ctx, slog.LevelInfo, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.allows(gormlogger.Warn) {
		logger.Logger.Log(ctx, slog.LevelWarn, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.allows(gormlogger.Error) {
		logger.Logger.Log(ctx, slog.LevelError, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		if l.allows(gormlogger.Error) {
			sql, rows := fc()
			logger.Logger.Log(ctx, slog.LevelError, "gorm query error",
				"elapsed", elapsed, "rows", rows, "sql", sql, "error", err)
		}
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		if l.allows(gormlogger.Warn) {
			sql, rows := fc()
			logger.Logger.Log(ctx, slog.LevelWarn, "gorm slow query",
				"elapsed", elapsed, "rows", rows, "sql", sql, "threshold", l.slowThreshold)
		}
	case err == nil:
		if l.allows(gormlogger.Info) {
			sql, rows := fc()
			logger.Logger.Log(ctx, slog.LevelInfo, "gorm query", "elapsed", elapsed, "rows", rows, "sql", sql)
		}
	}
}

func (l *gormLogger) allows(level gormlogger.LogLevel) bool {
	if l.level == gormlogger.Silent || l.level < level {
		return false
	}
	if level == gormlogger.Error {
		return logger.Enabled(logger.ERROR)
	}
	return logger.Enabled(logger.INFO)
}
