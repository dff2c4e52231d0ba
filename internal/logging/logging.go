// Package logging builds the process logger for the CLI. Commands run silent
// by default; --verbose switches on debug output without touching the tables
// written to stdout.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the process logger. Verbose enables debug output on stderr with
// a console encoder; otherwise all logging is discarded.
func New(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}
