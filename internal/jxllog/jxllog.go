// Package jxllog provides the codec core's only logging surface: a
// lazily-constructed, package-level zap logger (with an optional
// lumberjack-backed file writer underneath), scoped down to a
// sync.Once-guarded singleton since the core has no per-command
// flags to configure it from.
//
// The codec core itself never logs on its hot path; this package
// exists only for the SharedEncodingPools lifecycle and worker-pool
// start/stop.
package jxllog

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger *zap.SugaredLogger
)

// L returns the process-wide sugared logger, constructing it on first
// use with a production encoder config.
func L() *zap.SugaredLogger {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewNop().Sugar()
			return
		}
		logger = l.Sugar()
	})
	return logger
}

// NewFileLogger builds a SugaredLogger that rotates through
// lumberjack, for callers that want the core's pool/worker-pool
// lifecycle events captured to a file instead of stderr.
func NewFileLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) *zap.SugaredLogger {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(lj),
		zap.InfoLevel,
	)
	return zap.New(core).Sugar()
}

// Reset clears the singleton; intended for tests that need a fresh
// logger instance.
func Reset() {
	once = sync.Once{}
	logger = nil
}
