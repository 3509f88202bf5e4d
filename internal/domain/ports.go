package domain

import "context"

// ListingRepository defines the persistence contract for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing Listing) error
	GetByID(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context, filter ListFilter) ([]Listing, error)
	Update(ctx context.Context, listing Listing) error
}

// ListFilter holds optional storage-level criteria for listing listings.
// It is a coarse pre-selection; text and numeric narrowing is done by Evaluate.
type ListFilter struct {
	OwnerID string
	Status  *Status
	IDs     []string
	Limit   int
	Offset  int
}

// FavoriteRepository defines the persistence contract for a user's favorites.
type FavoriteRepository interface {
	IDs(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, listingID string) error
	Remove(ctx context.Context, userID, listingID string) error
}

// ConversationRepository defines the persistence contract for conversations
// and their messages.
type ConversationRepository interface {
	Create(ctx context.Context, c Conversation) error
	GetByID(ctx context.Context, id string) (Conversation, error)
	FindByListing(ctx context.Context, listingID, renterID string) (Conversation, error)
	// ListForUser returns userID's conversations, latest activity first, with
	// LastMessage and Unread filled in from userID's point of view.
	ListForUser(ctx context.Context, userID string) ([]Conversation, error)
	// AddMessage stores m and moves its conversation's UpdatedAt to m.SentAt.
	AddMessage(ctx context.Context, m Message) error
	// Messages returns a conversation's messages, oldest first.
	Messages(ctx context.Context, conversationID string) ([]Message, error)
	// MarkRead marks every message not sent by readerID as read.
	MarkRead(ctx context.Context, conversationID, readerID string) error
	SetParticipantName(ctx context.Context, conversationID, userID, name string) error
}

// Change describes an event worth telling the outside world about.
// UserID is the owner for listing events and the acting user otherwise.
type Change struct {
	Event          Event
	ListingID      string
	UserID         string
	Status         Status
	ConversationID string
}

// EventPublisher defines the contract for emitting domain events.
type EventPublisher interface {
	Publish(ctx context.Context, change Change) error
}

// TransitionValidator resolves a lifecycle event against the current status.
type TransitionValidator interface {
	Apply(ctx context.Context, current Status, event Event) (Status, error)
}
