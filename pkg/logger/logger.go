package logger

import (
	"go.uber.org/zap"
)

var l = zap.NewNop()

// Init replaces the no-op default with a real production logger.
// Call once from main before anything logs.
func Init() error {
	zl, err := zap.NewProduction()
	if err != nil {
		return err
	}
	l = zl
	return nil
}

// Sync flushes buffered entries. Best-effort; safe to defer from main.
func Sync() { _ = l.Sync() }

func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }
