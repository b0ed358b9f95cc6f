package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yacobolo/cssclean/internal/cssclean"
)

// newLogger builds the console logger for a log level: none, normal or debug.
// Everything goes to stderr so stdout stays clean for --json output.
func newLogger(level string, forceColor bool) (*zap.Logger, error) {
	var min zapcore.Level
	switch level {
	case "none":
		return zap.NewNop(), nil
	case "normal":
		min = zapcore.InfoLevel
	case "debug":
		min = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("invalid log level %q (want none, normal or debug)", level)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if cssclean.ShouldUseColors(forceColor) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr),
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= min
		}))
	return zap.New(core).Named("cssclean"), nil
}

// loggerFromConfig builds the logger from koanf state
func loggerFromConfig() (*zap.Logger, error) {
	return newLogger(
		getStringWithFallback("log-level", "log.level", defaultLogLevel),
		getBoolWithFallback("color", "color", false))
}
