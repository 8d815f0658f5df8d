// Package logging provides a zap-based pipeline plugin that logs the
// lifecycle of every call, plus a logger constructor configurable for
// console or JSON output with optional file rotation.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jvillano/hookgate"
)

// New returns a plugin logging onBefore, onSuccess, and onError across all
// calls. Fields: the call's name (the action), its ID, and — on success and
// error — the elapsed time and pass bookkeeping.
func New[P any](log *zap.Logger) *hookgate.Plugin[P] {
	return hookgate.NewPlugin[P]("logging").
		On(hookgate.HookBefore, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			log.Info("call started",
				zap.String("call", ec.Name()),
				zap.String("call_id", ec.ID()))
			return hookgate.Continue(), nil
		}).
		On(hookgate.HookSuccess, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			log.Info("call succeeded",
				zap.String("call", ec.Name()),
				zap.String("call_id", ec.ID()),
				zap.Duration("elapsed", ec.Elapsed()))
			return hookgate.Continue(), nil
		}).
		On(hookgate.HookError, func(
			ctx context.Context, ec *hookgate.ExecutionContext[P], args ...any,
		) (hookgate.HookResult, error) {
			rt := ec.Runtimes()
			log.Error("call failed",
				zap.String("call", ec.Name()),
				zap.String("call_id", ec.ID()),
				zap.Duration("elapsed", ec.Elapsed()),
				zap.Int("error_hooks_run", rt.Times),
				zap.Error(ec.Err()))
			return hookgate.Continue(), nil
		})
}

// Config controls logger construction.
type Config struct {
	Level      string `koanf:"level"`    // debug, info, warn, error
	Format     string `koanf:"format"`   // json, console
	Output     string `koanf:"output"`   // stdout, file, both
	FilePath   string `koanf:"filepath"` // used when Output includes file
	MaxSizeMB  int    `koanf:"maxsize"`
	MaxBackups int    `koanf:"maxbackups"`
	MaxAgeDays int    `koanf:"maxage"`
}

// NewLogger builds a zap logger from cfg. Zero-value fields fall back to
// info-level console output on stdout.
func NewLogger(cfg Config) *zap.Logger {
	level := zapcore.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var cores []zapcore.Core
	if cfg.Output == "stdout" || cfg.Output == "both" || cfg.Output == "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if (cfg.Output == "file" || cfg.Output == "both") && cfg.FilePath != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
