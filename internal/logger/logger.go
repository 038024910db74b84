// =============================================================================
// Freight Tracker - Logging
// =============================================================================
//
// Structured JSON logs on stderr, so command output on stdout stays clean
// for piping. Library packages receive the *zap.Logger explicitly.
//
// =============================================================================

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON zap logger tagged with the application name.
// Debug mode keeps JSON output but lowers the level to debug.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]any{"app": "freight"}
	return cfg.Build()
}
