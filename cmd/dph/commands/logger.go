package commands

import (
	"fmt"
	"sort"

	"github.com/fivetwenty-io/dph-client/pkg/dph"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts a zap logger to dph.Logger.
type zapLogger struct {
	logger *zap.Logger
}

var _ dph.Logger = (*zapLogger)(nil)

// NewLogger builds a JSON logger writing to stderr. Debug entries are kept only when verbose is set.
func NewLogger(verbose bool) (dph.Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stderr"}
	config.Sampling = nil

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &zapLogger{logger: logger}, nil
}

func newZapLogger(logger *zap.Logger) *zapLogger {
	return &zapLogger{logger: logger}
}

func (l *zapLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, zapFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, zapFields(fields)...)
}

// zapFields converts a field map in key order so log lines are stable.
func zapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	result := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		result = append(result, zap.Any(key, fields[key]))
	}

	return result
}
