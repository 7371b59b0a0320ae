// Package log is the process-wide leveled logger.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	cblog "github.com/charmbracelet/log"
)

const envLevel = "ATSPI_BRIDGE_LOG_LEVEL"

var (
	logger     *cblog.Logger
	loggerOnce sync.Once
)

func get() *cblog.Logger {
	loggerOnce.Do(func() {
		logger = cblog.NewWithOptions(os.Stderr, cblog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Level:           cblog.InfoLevel,
		})
		if lvl, err := cblog.ParseLevel(strings.ToLower(os.Getenv(envLevel))); err == nil {
			logger.SetLevel(lvl)
		}
	})
	return logger
}

// SetLevel accepts debug, info, warn, error or fatal. Unknown values are
// ignored and reported.
func SetLevel(level string) {
	lvl, err := cblog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		get().Warnf("Unknown log level %q, keeping %s", level, get().GetLevel())
		return
	}
	get().SetLevel(lvl)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) { get().SetOutput(w) }

func Debug(msg any, keyvals ...any) { get().Debug(msg, keyvals...) }

func Debugf(format string, args ...any) { get().Debugf(format, args...) }

func Info(msg any, keyvals ...any) { get().Info(msg, keyvals...) }

func Infof(format string, args ...any) { get().Infof(format, args...) }

func Warn(msg any, keyvals ...any) { get().Warn(msg, keyvals...) }

func Warnf(format string, args ...any) { get().Warnf(format, args...) }

func Error(msg any, keyvals ...any) { get().Error(msg, keyvals...) }

func Errorf(format string, args ...any) { get().Errorf(format, args...) }

func Fatal(msg any, keyvals ...any) { get().Fatal(msg, keyvals...) }

func Fatalf(format string, args ...any) { get().Fatalf(format, args...) }
