package observability

import (
	"log/slog"
	"testing"
)

// SetTestDebugLogging assigns DEBUG level to slog Default logger for test duration.
// Store and Persistence log through slog.Default when the Context carries no Observability.
func SetTestDebugLogging(t testing.TB) {
	oldLevel := slog.SetLogLoggerLevel(slog.LevelDebug)
	if oldLevel != slog.LevelDebug {
		t.Cleanup(func() {
			slog.SetLogLoggerLevel(oldLevel)
		})
	}
}
