package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a configured level name to a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "", "info", "normal":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// NewLogger builds the process logger writing to stderr. The returned level
// can be adjusted at runtime.
func NewLogger(conf LoggingConfig) (*zap.Logger, zap.AtomicLevel, error) {
	return NewLoggerTo(conf, zapcore.Lock(os.Stderr))
}

// NewLoggerTo builds a logger writing to ws.
func NewLoggerTo(conf LoggingConfig, ws zapcore.WriteSyncer) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(conf.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	var encoder zapcore.Encoder
	switch conf.Format {
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(ec)
	default:
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	}

	core := zapcore.NewCore(encoder, ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), level, nil
}

// LevelUpdater returns a reload hook that applies the configured level.
func LevelUpdater(level zap.AtomicLevel, logger *zap.Logger) func(*Config) {
	return func(c *Config) {
		lvl, err := ParseLevel(c.Logging.Level)
		if err != nil {
			logger.Warn("ignoring log level", zap.Error(err))
			return
		}
		if level.Level() != lvl {
			level.SetLevel(lvl)
			logger.Info("log level changed", zap.Stringer("level", lvl))
		}
	}
}
