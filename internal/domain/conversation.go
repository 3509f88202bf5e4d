package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MaxMessageLength caps a message body, in characters.
const MaxMessageLength = 2000

// Participant is one side of a conversation. Name is whatever display name
// the user last sent with; it may be empty.
type Participant struct {
	UserID string
	Name   string
}

// DisplayName falls back to the user ID when no name is known.
func (p Participant) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserID
}

// Conversation is a thread between a listing's owner and one prospective
// renter about that listing. There is at most one per (listing, renter).
type Conversation struct {
	ID           string
	ListingID    string
	ListingTitle string
	Owner        Participant
	Renter       Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Set when listed for a user: the newest message and how many messages
	// from the other side that user has not read.
	LastMessage *Message
	Unread      int
}

// Includes reports whether userID is one of the two participants.
func (c Conversation) Includes(userID string) bool {
	return userID != "" && (c.Owner.UserID == userID || c.Renter.UserID == userID)
}

// Member returns userID's own side of the conversation.
func (c Conversation) Member(userID string) Participant {
	if c.Owner.UserID == userID {
		return c.Owner
	}
	return c.Renter
}

// Recipient returns the participant on the other side from viewer.
func (c Conversation) Recipient(viewer string) Participant {
	if c.Owner.UserID == viewer {
		return c.Renter
	}
	return c.Owner
}

// NewConversation opens a thread about listing on behalf of renter.
func NewConversation(id string, listing Listing, renter Participant) (Conversation, error) {
	if isBlank(renter.UserID) {
		return Conversation{}, &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	if renter.UserID == listing.OwnerID {
		return Conversation{}, &ValidationError{Field: "listing_id", Reason: "is your own listing"}
	}
	if listing.Status != StatusActive {
		return Conversation{}, &ValidationError{Field: "listing_id", Reason: "is not active"}
	}

	now := time.Now().UTC()
	return Conversation{
		ID:           id,
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		Owner:        Participant{UserID: listing.OwnerID},
		Renter:       Participant{UserID: renter.UserID, Name: strings.TrimSpace(renter.Name)},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Message is a single chat message. Read is set once the recipient has
// loaded the conversation.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	SentAt         time.Time
	Read           bool
}

// NewMessage builds an unread message with surrounding whitespace trimmed.
func NewMessage(id, conversationID, senderID, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return Message{}, &ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("must be at most %d characters", MaxMessageLength),
		}
	}

	return Message{
		ID:             id,
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		SentAt:         time.Now().UTC(),
	}, nil
}

// FilterConversations keeps the conversations whose recipient (as seen by
// viewer) or listing title contains query, ignoring case. A blank query
// keeps everything. The input is not modified.
func FilterConversations(conversations []Conversation, viewer, query string) []Conversation {
	out := make([]Conversation, 0, len(conversations))
	query = strings.TrimSpace(query)
	if query == "" {
		return append(out, conversations...)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	for _, c := range conversations {
		if strings.Contains(fold.String(c.Recipient(viewer).DisplayName()), needle) ||
			strings.Contains(fold.String(c.ListingTitle), needle) {
			out = append(out, c)
		}
	}
	return out
}
