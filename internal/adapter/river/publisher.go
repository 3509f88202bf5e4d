package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.EventPublisher = (*Publisher)(nil)

// ChangeJobArgs is the JSON payload River stores for a domain change.
type ChangeJobArgs struct {
	Event          string `json:"event"`
	ListingID      string `json:"listing_id"`
	UserID         string `json:"user_id,omitempty"`
	Status         string `json:"status,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (ChangeJobArgs) Kind() string { return "change.published" }

// InsertOpts keeps favorite and chat churn out of the listing lifecycle queue.
func (a ChangeJobArgs) InsertOpts() river.InsertOpts {
	switch domain.Event(a.Event) {
	case domain.EventFavoriteAdded, domain.EventFavoriteRemoved:
		return river.InsertOpts{Queue: QueueFavorites}
	case domain.EventConversationStarted, domain.EventMessageSent:
		return river.InsertOpts{Queue: QueueMessages}
	default:
		return river.InsertOpts{Queue: river.QueueDefault}
	}
}

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues change as a job; it returns once the job is stored.
func (p *Publisher) Publish(ctx context.Context, change domain.Change) error {
	_, err := p.client.Insert(ctx, ChangeJobArgs{
		Event:          string(change.Event),
		ListingID:      change.ListingID,
		UserID:         change.UserID,
		Status:         string(change.Status),
		ConversationID: change.ConversationID,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing change job: %w", err)
	}
	return nil
}
