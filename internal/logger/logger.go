// Package logger configures the process-wide zap logger.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

// Init builds a JSON logger writing to stdout and, when logsDir is
// non-empty, to invoice_agent.log inside it. Debug lowers the level.
func Init(logsDir string, debug bool) error {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}

	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(logsDir, "invoice_agent.log"),
			os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(f), level))
	}

	Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	Sugar = Log.Sugar()
	return nil
}

func init() {
	// Safe default so packages can log before Init runs (tests included).
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}
