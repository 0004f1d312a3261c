package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

const (
	// LogLevelEnvVar controls logging verbosity.
	// When unset or empty, logging is silent (no zap output).
	// Valid values: "debug", "info", "warn", "error"
	LogLevelEnvVar = "ARTFRAME_LOG_LEVEL"

	// LogFileEnvVar redirects log output to a rotating file instead of stderr.
	LogFileEnvVar = "ARTFRAME_LOG_FILE"
)

// Options configures Initialize.
type Options struct {
	// Level is one of debug, info, warn, error. Empty falls back to
	// ARTFRAME_LOG_LEVEL; if that is empty too, logging is silent.
	Level string

	// File, when set, sends output to a lumberjack-rotated file. The TUI
	// always sets this since it owns the terminal.
	File string

	// MaxSizeMB, MaxBackups and MaxAgeDays tune rotation. Zero values get
	// the defaults below.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const (
	defaultMaxSizeMB  = 10
	defaultMaxBackups = 3
	defaultMaxAgeDays = 14
)

// Initialize creates the global logger.
func Initialize(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	file := opts.File
	if file == "" {
		file = os.Getenv(LogFileEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel := parseLevel(level)

	if file != "" {
		logger = newFileLogger(file, zapLevel, opts)
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return nil
}

func newFileLogger(path string, level zapcore.Level, opts Options) *zap.Logger {
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    valueOr(opts.MaxSizeMB, defaultMaxSizeMB),
		MaxBackups: valueOr(opts.MaxBackups, defaultMaxBackups),
		MaxAge:     valueOr(opts.MaxAgeDays, defaultMaxAgeDays),
		Compress:   true,
		LocalTime:  true,
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})

	core := zapcore.NewCore(encoder, zapcore.AddSync(writer), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown level - use info as default when explicitly set to something
		return zapcore.InfoLevel
	}
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so CLI output stays clean
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRequest logs an outgoing backend request
func LogRequest(requestID, method, path string) {
	Debug("Backend request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// LogResponse logs the outcome of a backend request. err is the normalized
// failure, if any.
func LogResponse(requestID, path string, statusCode int, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", path),
		zap.Int("status_code", statusCode),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Backend request failed", append(fields, zap.Error(err))...)
		return
	}
	Info("Backend request completed", fields...)
}

// LogTransition logs a workflow status change
func LogTransition(operation, from, to, message string) {
	Debug("Workflow transition",
		zap.String("operation", operation),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("message", message),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
