package mdblog

import (
	"fmt"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

// Logger is the structured logger used across the application. Arguments
// after msg are alternating keys and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NewLogger builds the root go-logger instance for the given level and format.
func NewLogger(level, format string) (*glog.BaseLogger, error) {
	options := []glog.Option{}

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		options = append(options, glog.WithLevel(glog.Info))
	case "trace":
		options = append(options, glog.WithLevel(glog.Trace))
	case "debug":
		options = append(options, glog.WithLevel(glog.Debug))
	case "warn", "warning":
		options = append(options, glog.WithLevel(glog.Warn))
	case "error":
		options = append(options, glog.WithLevel(glog.Error))
	default:
		return nil, fmt.Errorf("mdblog: unsupported log level %q", level)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		options = append(options, glog.WithLoggerTypeConsole())
	case "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("mdblog: unsupported log format %q", format)
	}

	return glog.NewLogger(options...), nil
}

// loggerFactory hands out the logger for a named component.
type loggerFactory func(name string) Logger

func rootLoggers(root *glog.BaseLogger) loggerFactory {
	return func(name string) Logger {
		if name == "" {
			return root
		}
		return root.GetLogger(name)
	}
}

func fixedLoggers(l Logger) loggerFactory {
	return func(string) Logger {
		return l
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
