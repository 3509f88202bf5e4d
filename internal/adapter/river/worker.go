package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// ChangeWorker records every published change in the structured log, which
// is what ships it to Fluent Bit when that sink is enabled.
type ChangeWorker struct {
	river.WorkerDefaults[ChangeJobArgs]

	logger *slog.Logger
}

// NewChangeWorker creates a worker logging through logger, or slog.Default when nil.
func NewChangeWorker(logger *slog.Logger) *ChangeWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChangeWorker{logger: logger}
}

// Work processes a single change job.
func (w *ChangeWorker) Work(ctx context.Context, job *river.Job[ChangeJobArgs]) error {
	attrs := []any{
		"event", job.Args.Event,
		"listing_id", job.Args.ListingID,
		"job_id", job.ID,
		"queue", job.Queue,
		"attempt", job.Attempt,
	}
	if job.Args.UserID != "" {
		attrs = append(attrs, "user_id", job.Args.UserID)
	}
	if job.Args.Status != "" {
		attrs = append(attrs, "status", job.Args.Status)
	}
	if job.Args.ConversationID != "" {
		attrs = append(attrs, "conversation_id", job.Args.ConversationID)
	}

	w.logger.InfoContext(ctx, "change published", attrs...)
	return nil
}
