package river

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riversqlite"
	"github.com/riverqueue/river/rivermigrate"
)

const (
	// QueueFavorites carries favorite added/removed jobs.
	QueueFavorites = "favorites"
	// QueueMessages carries conversation and message jobs.
	QueueMessages = "messages"
)

// Setup migrates River's tables in db and returns a client with the change
// worker registered. The caller owns Start and Stop.
func Setup(ctx context.Context, db *sql.DB, logger *slog.Logger) (*Client, error) {
	driver := riversqlite.New(db)

	// River keeps its own schema version, separate from goose.
	migrator, err := rivermigrate.New(driver, nil)
	if err != nil {
		return nil, fmt.Errorf("creating river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		return nil, fmt.Errorf("running river migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewChangeWorker(logger))

	client, err := river.NewClient(driver, &river.Config{
		Logger: logger,
		// Change jobs only feed the log; finished rows need not linger.
		CompletedJobRetentionPeriod: time.Hour,
		JobTimeout:                  30 * time.Second,
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 2},
			QueueFavorites:     {MaxWorkers: 1},
			QueueMessages:      {MaxWorkers: 1},
		},
		Workers: workers,
	})
	if err != nil {
		return nil, fmt.Errorf("creating river client: %w", err)
	}

	return client, nil
}
