package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/daybook/internal/constants"
)

var (
	// Logger is the global logger instance, nil until Init
	Logger *log.Logger

	file string
	nop  = log.New(io.Discard)
)

// Config says where daybook.log lives and how much history to keep.
// Zero sizes fall back to 10 MB, 3 backups and 28 days.
type Config struct {
	Debug      bool
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func (c Config) withDefaults() Config {
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 3
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 28
	}
	return c
}

// Init opens the rotating log file and installs the global logger
func Init(cfg Config) error {
	cfg = cfg.withDefaults()
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(cfg.Dir, constants.AppName+".log")
	fileWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	// The TUI owns the terminal, so stderr only gets log lines in debug mode
	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	file = path

	return nil
}

// File is the active log file, "" before Init
func File() string {
	if Logger == nil {
		return ""
	}
	return file
}

// Request returns a logger tagged with one outbound call, so every line
// about it can be matched to the service's logs by request id.
func Request(method, path, requestID string) *log.Logger {
	if Logger == nil {
		return nop
	}
	return Logger.With("method", method, "path", path, "request_id", requestID)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
