// Package logger holds the process-wide zap logger used by the executor, the
// dispatch facade and the catalog.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brizzai/httpmapper/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Library code logs nothing until InitLogger or SetLogger is called
var globalLogger = zap.NewNop()

// encoderFor returns the zap encoding name and encoder settings for a log format
func encoderFor(format string) (string, zapcore.EncoderConfig, error) {
	switch format {
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		ec.EncodeDuration = zapcore.MillisDurationEncoder
		return "json", ec, nil
	case "console", "":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.EncodeDuration = zapcore.StringDurationEncoder
		return "console", ec, nil
	default:
		return "", zapcore.EncoderConfig{}, fmt.Errorf("invalid log format: %q", format)
	}
}

// outputsFor lists the sinks for cfg. Console output goes to stderr so that
// response bodies printed on stdout stay clean.
func outputsFor(cfg *config.LoggingConfig) ([]string, error) {
	var outputs []string
	if !cfg.DisableConsole {
		outputs = append(outputs, "stderr")
	}
	if cfg.OutputPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		if !cfg.AppendToFile {
			_ = os.Remove(cfg.OutputPath)
		}
		outputs = append(outputs, cfg.OutputPath)
	}
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}
	return outputs, nil
}

// InitLogger builds a logger from cfg and installs it globally
func InitLogger(cfg *config.LoggingConfig) error {
	l, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

// SetLogger installs l as the global logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	globalLogger = l
}

// NewLogger creates a zap logger from cfg. An empty level means info.
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	levelName := cfg.Level
	if levelName == "" {
		levelName = "info"
	}
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoding, encoderConfig, err := encoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	outputs, err := outputsFor(cfg)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      encoding == "console",
		Encoding:         encoding,
		OutputPaths:      outputs,
		ErrorOutputPaths: outputs,
		EncoderConfig:    encoderConfig,
	}

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	return zapConfig.Build(opts...)
}

func Debug(msg string, fields ...zap.Field) {
	globalLogger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	globalLogger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	globalLogger.Error(msg, fields...)
}

// Sync flushes buffered entries
func Sync() error {
	return globalLogger.Sync()
}
