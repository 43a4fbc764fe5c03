package common

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// Logger returns the process-wide diagnostics logger.
func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger installs l as the diagnostics logger and returns the previous
// one. A nil l restores the no-op logger.
func SetLogger(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return logger.Swap(l)
}
