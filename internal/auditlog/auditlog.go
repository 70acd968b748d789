// Package auditlog records the outcome of mutating use cases for audit
// purposes. Services call the recorder after the operation has finished;
// recording never influences the result of the operation itself.
package auditlog

import (
	"context"
	"log/slog"
	"time"
)

// Recorder writes one structured entry per mutating use case.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder creates a Recorder on top of the given logger. A nil logger
// disables recording.
func NewRecorder(logger *slog.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record logs the action name, the acting user, the outcome and the elapsed
// time. Extra key/value attributes carry operation context (currency,
// amount). It never fails the caller.
func (r *Recorder) Record(ctx context.Context, action string, userID int, start time.Time, opErr error, attrs ...any) {
	if r == nil || r.logger == nil {
		return
	}

	base := []any{
		slog.String("action", action),
		slog.Int("user_id", userID),
		slog.Duration("duration", time.Since(start)),
	}
	base = append(base, attrs...)

	if opErr != nil {
		base = append(base, slog.String("error", opErr.Error()))
		r.logger.ErrorContext(ctx, action+" failed", base...)
		return
	}
	r.logger.InfoContext(ctx, action+" completed", base...)
}
