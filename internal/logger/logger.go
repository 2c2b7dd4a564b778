// Package logger wraps a charmbracelet logger that always writes to a
// rotated file under the config directory and, for debug or long-running
// commands, to stderr as well.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/dailypunch/internal/constants"
)

// Logger is nil until Init runs; the helpers below are no-ops until then.
var Logger *log.Logger

type Config struct {
	Debug     bool
	ConfigDir string
	// Console tees output to stderr at info level.
	Console bool
}

const (
	rotateMaxMB      = 10
	rotateMaxBackups = 3
	rotateMaxAgeDays = 28
)

func (c Config) level() log.Level {
	if c.Debug {
		return log.DebugLevel
	}
	if c.Console {
		return log.InfoLevel
	}
	return log.WarnLevel
}

func rotatingFile(dir string) (io.Writer, error) {
	logDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	return &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    rotateMaxMB,
		MaxBackups: rotateMaxBackups,
		MaxAge:     rotateMaxAgeDays,
		Compress:   true,
	}, nil
}

func Init(cfg Config) error {
	w, err := rotatingFile(cfg.ConfigDir)
	if err != nil {
		return err
	}
	if cfg.Debug || cfg.Console {
		w = io.MultiWriter(os.Stderr, w)
	}
	Logger = New(w, cfg.level(), cfg.Debug)
	return nil
}

// New builds a logger with the application's options. Tests use it to
// capture output in a buffer.
func New(w io.Writer, level log.Level, reportCaller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    reportCaller,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1.
func Fatal(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
