package app_test

import (
	"context"
	"sort"

	"github.com/neomorfeo/pango/internal/domain"
)

// --- Mocks ---

type mockListingRepo struct {
	listings map[string]domain.Listing
	order    []string
}

func newMockListingRepo() *mockListingRepo {
	return &mockListingRepo{listings: make(map[string]domain.Listing)}
}

func (m *mockListingRepo) Create(_ context.Context, l domain.Listing) error {
	m.listings[l.ID] = l
	m.order = append(m.order, l.ID)
	return nil
}

func (m *mockListingRepo) GetByID(_ context.Context, id string) (domain.Listing, error) {
	l, ok := m.listings[id]
	if !ok {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, nil
}

func (m *mockListingRepo) List(_ context.Context, f domain.ListFilter) ([]domain.Listing, error) {
	var want map[string]bool
	if f.IDs != nil {
		want = make(map[string]bool, len(f.IDs))
		for _, id := range f.IDs {
			want[id] = true
		}
	}

	out := make([]domain.Listing, 0, len(m.order))
	for _, id := range m.order {
		l := m.listings[id]
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		if want != nil && !want[id] {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *mockListingRepo) Update(_ context.Context, l domain.Listing) error {
	if _, ok := m.listings[l.ID]; !ok {
		return domain.ErrListingNotFound
	}
	m.listings[l.ID] = l
	return nil
}

type mockFavoriteRepo struct {
	sets map[string]map[string]bool
}

func newMockFavoriteRepo() *mockFavoriteRepo {
	return &mockFavoriteRepo{sets: make(map[string]map[string]bool)}
}

func (m *mockFavoriteRepo) IDs(_ context.Context, userID string) ([]string, error) {
	ids := make([]string, 0, len(m.sets[userID]))
	for id := range m.sets[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *mockFavoriteRepo) Add(_ context.Context, userID, listingID string) error {
	if m.sets[userID] == nil {
		m.sets[userID] = make(map[string]bool)
	}
	m.sets[userID][listingID] = true
	return nil
}

func (m *mockFavoriteRepo) Remove(_ context.Context, userID, listingID string) error {
	delete(m.sets[userID], listingID)
	return nil
}

type mockConversationRepo struct {
	conversations map[string]domain.Conversation
	messages      map[string][]domain.Message
}

func newMockConversationRepo() *mockConversationRepo {
	return &mockConversationRepo{
		conversations: make(map[string]domain.Conversation),
		messages:      make(map[string][]domain.Message),
	}
}

func (m *mockConversationRepo) Create(_ context.Context, c domain.Conversation) error {
	m.conversations[c.ID] = c
	return nil
}

func (m *mockConversationRepo) GetByID(_ context.Context, id string) (domain.Conversation, error) {
	c, ok := m.conversations[id]
	if !ok {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return c, nil
}

func (m *mockConversationRepo) FindByListing(_ context.Context, listingID, renterID string) (domain.Conversation, error) {
	for _, c := range m.conversations {
		if c.ListingID == listingID && c.Renter.UserID == renterID {
			return c, nil
		}
	}
	return domain.Conversation{}, domain.ErrConversationNotFound
}

func (m *mockConversationRepo) ListForUser(_ context.Context, userID string) ([]domain.Conversation, error) {
	out := make([]domain.Conversation, 0)
	for _, c := range m.conversations {
		if c.Includes(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *mockConversationRepo) AddMessage(_ context.Context, msg domain.Message) error {
	c, ok := m.conversations[msg.ConversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	c.UpdatedAt = msg.SentAt
	m.conversations[c.ID] = c
	m.messages[c.ID] = append(m.messages[c.ID], msg)
	return nil
}

func (m *mockConversationRepo) Messages(_ context.Context, conversationID string) ([]domain.Message, error) {
	return append([]domain.Message{}, m.messages[conversationID]...), nil
}

func (m *mockConversationRepo) MarkRead(_ context.Context, conversationID, readerID string) error {
	for i, msg := range m.messages[conversationID] {
		if msg.SenderID != readerID {
			m.messages[conversationID][i].Read = true
		}
	}
	return nil
}

func (m *mockConversationRepo) SetParticipantName(_ context.Context, conversationID, userID, name string) error {
	c, ok := m.conversations[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	switch userID {
	case c.Owner.UserID:
		c.Owner.Name = name
	case c.Renter.UserID:
		c.Renter.Name = name
	}
	m.conversations[conversationID] = c
	return nil
}

type mockPublisher struct {
	changes []domain.Change
}

func (m *mockPublisher) Publish(_ context.Context, c domain.Change) error {
	m.changes = append(m.changes, c)
	return nil
}

// tableValidator resolves transitions straight from domain.Transitions.
type tableValidator struct{}

func (v *tableValidator) Apply(_ context.Context, current domain.Status, event domain.Event) (domain.Status, error) {
	for _, t := range domain.Transitions {
		if t.Event == event && t.Src == current {
			return t.Dst, nil
		}
	}
	return "", &domain.TransitionError{Event: event, Current: current}
}

func intPtr(v int) *int { return &v }

func draft(owner, title, location string, price int64, beds int, propertyType string) domain.ListingDraft {
	return domain.ListingDraft{
		OwnerID:      owner,
		Title:        title,
		Location:     location,
		Price:        price,
		Beds:         intPtr(beds),
		Baths:        intPtr(1),
		PropertyType: propertyType,
	}
}
