package log

import "sync"

var (
	defaultLogger *Logger
	loggerMu      sync.RWMutex
)

// SetDefaultLogger installs the process-wide logger, typically once after
// configuration is loaded.
func SetDefaultLogger(logger *Logger) {
	loggerMu.Lock()
	defaultLogger = logger
	loggerMu.Unlock()
}

// DefaultLogger returns the process-wide logger, lazily installing the
// standard defaults when none was configured yet.
func DefaultLogger() *Logger {
	loggerMu.RLock()
	logger := defaultLogger
	loggerMu.RUnlock()

	if logger == nil {
		logger = Default()
		SetDefaultLogger(logger)
	}
	return logger
}
