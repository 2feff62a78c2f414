package logging

import (
	"log/slog"
)

// NewNopLogger returns a logger that discards every record. Tests and code
// running before Configure get one from GetLogger.
func NewNopLogger() Logger {
	return slog.New(slog.DiscardHandler)
}
