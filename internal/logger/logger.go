package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality
type Logger struct {
	*zap.Logger
}

// NewLogger creates a new logger instance with production configuration writing to stdout.
func NewLogger() (*Logger, error) {
	return NewLoggerWithConfig("info", []string{"stdout"})
}

// NewLoggerWithConfig creates a production logger with the given level and output paths.
// An empty outputPaths slice discards all log output.
func NewLoggerWithConfig(level string, outputPaths []string) (*Logger, error) {
	if len(outputPaths) == 0 {
		return NewNopLogger(), nil
	}

	parsedLevel, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = outputPaths
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(parsedLevel)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// NewNopLogger returns a logger that drops everything. Used by the terminal dashboard
// when no log file is configured and by tests.
func NewNopLogger() *Logger {
	return &Logger{
		Logger: zap.NewNop(),
	}
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
