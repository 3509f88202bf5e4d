package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neomorfeo/pango/internal/domain"
)

// ConversationService runs the messages screens: renters asking owners about
// a listing, and both sides reading and answering.
type ConversationService struct {
	repo      domain.ConversationRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	hub       *MessagesHub
}

// NewConversationService creates a service with the given adapters.
func NewConversationService(repo domain.ConversationRepository, listings domain.ListingRepository, publisher domain.EventPublisher, hub *MessagesHub) *ConversationService {
	return &ConversationService{
		repo:      repo,
		listings:  listings,
		publisher: publisher,
		hub:       hub,
	}
}

// Start opens renter's conversation about listingID, or returns the one that
// already exists. The boolean reports whether a new conversation was created.
func (s *ConversationService) Start(ctx context.Context, renter domain.Participant, listingID string) (domain.Conversation, bool, error) {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return domain.Conversation{}, false, err
	}

	existing, err := s.repo.FindByListing(ctx, listingID, renter.UserID)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrConversationNotFound):
		return domain.Conversation{}, false, fmt.Errorf("looking up conversation: %w", err)
	}

	id, err := generateID()
	if err != nil {
		return domain.Conversation{}, false, fmt.Errorf("generating conversation id: %w", err)
	}

	conversation, err := domain.NewConversation(id, listing, renter)
	if err != nil {
		return domain.Conversation{}, false, err
	}

	if err := s.repo.Create(ctx, conversation); err != nil {
		return domain.Conversation{}, false, fmt.Errorf("creating conversation: %w", err)
	}

	if err := s.publisher.Publish(ctx, domain.Change{
		Event:          domain.EventConversationStarted,
		ListingID:      listing.ID,
		UserID:         renter.UserID,
		ConversationID: conversation.ID,
	}); err != nil {
		return domain.Conversation{}, false, fmt.Errorf("publishing event %q: %w", domain.EventConversationStarted, err)
	}

	return conversation, true, nil
}

// List returns userID's conversations narrowed by query, latest activity first.
func (s *ConversationService) List(ctx context.Context, userID, query string) ([]domain.Conversation, error) {
	all, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading conversations: %w", err)
	}
	return domain.FilterConversations(all, userID, query), nil
}

// Get returns a conversation userID takes part in.
func (s *ConversationService) Get(ctx context.Context, userID, id string) (domain.Conversation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Conversation{}, err
	}
	if !c.Includes(userID) {
		return domain.Conversation{}, domain.ErrNotParticipant
	}
	return c, nil
}

// Messages returns the conversation's messages, oldest first, and marks the
// ones addressed to userID as read.
func (s *ConversationService) Messages(ctx context.Context, userID, id string) ([]domain.Message, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		return nil, fmt.Errorf("marking messages read: %w", err)
	}
	messages, err := s.repo.Messages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	return messages, nil
}

// Send stores a message from sender and pushes it to both participants.
// A non-empty sender name is remembered when the conversation has none yet.
func (s *ConversationService) Send(ctx context.Context, sender domain.Participant, conversationID, text string) (domain.Message, error) {
	c, err := s.Get(ctx, sender.UserID, conversationID)
	if err != nil {
		return domain.Message{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Message{}, fmt.Errorf("generating message id: %w", err)
	}

	msg, err := domain.NewMessage(id, c.ID, sender.UserID, text)
	if err != nil {
		return domain.Message{}, err
	}

	name := strings.TrimSpace(sender.Name)
	if name != "" && c.Member(sender.UserID).Name == "" {
		if err := s.repo.SetParticipantName(ctx, c.ID, sender.UserID, name); err != nil {
			return domain.Message{}, fmt.Errorf("saving participant name: %w", err)
		}
	}

	if err := s.repo.AddMessage(ctx, msg); err != nil {
		return domain.Message{}, fmt.Errorf("storing message: %w", err)
	}

	if err := s.publisher.Publish(ctx, domain.Change{
		Event:          domain.EventMessageSent,
		ListingID:      c.ListingID,
		UserID:         sender.UserID,
		ConversationID: c.ID,
	}); err != nil {
		return domain.Message{}, fmt.Errorf("publishing event %q: %w", domain.EventMessageSent, err)
	}

	if s.hub != nil {
		update := MessageUpdate{Message: msg, ListingID: c.ListingID}
		s.hub.Notify(c.Owner.UserID, update)
		s.hub.Notify(c.Renter.UserID, update)
	}

	return msg, nil
}

// Subscribe registers for new messages in any of userID's conversations.
func (s *ConversationService) Subscribe(userID string) (<-chan MessageUpdate, func()) {
	return s.hub.Subscribe(userID)
}
