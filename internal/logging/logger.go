package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a keyvals-style structured logger.
type Logger interface {
	Debug(msg string, keyVals ...interface{})
	Info(msg string, keyVals ...interface{})
	Error(msg string, keyVals ...interface{})
	With(keyVals ...interface{}) Logger
}

// ZeroLogger passes messages to a Zerolog logger.
type ZeroLogger struct {
	Zerolog zerolog.Logger
}

// New constructs a Logger that writes to w at the given level.
func New(w io.Writer, level string) (Logger, error) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %v", err)
	}

	zl := zerolog.New(w).Level(logLevel).With().Timestamp().Logger()
	return &ZeroLogger{zl}, nil
}

// NewConsole constructs a Logger that writes human-readable output to
// stderr.
func NewConsole(level string) (Logger, error) {
	return New(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func (l *ZeroLogger) Debug(msg string, keyVals ...interface{}) {
	l.Zerolog.Debug().Fields(getLogFields(keyVals...)).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, keyVals ...interface{}) {
	l.Zerolog.Info().Fields(getLogFields(keyVals...)).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, keyVals ...interface{}) {
	l.Zerolog.Error().Fields(getLogFields(keyVals...)).Msg(msg)
}

func (l *ZeroLogger) With(keyVals ...interface{}) Logger {
	return &ZeroLogger{l.Zerolog.With().Fields(getLogFields(keyVals...)).Logger()}
}

func getLogFields(keyVals ...interface{}) map[string]interface{} {
	if len(keyVals)%2 != 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(keyVals))
	for i := 0; i < len(keyVals); i += 2 {
		fields[fmt.Sprint(keyVals[i])] = keyVals[i+1]
	}

	return fields
}
