package app

import (
	"log/slog"
	"sync"

	"github.com/neomorfeo/pango/internal/domain"
)

// Hub fans updates out to every open subscription of a user, so all views
// of the same user observe one state.
type Hub[T any] struct {
	name    string
	mu      sync.RWMutex
	clients map[string][]chan T
	buffer  int
}

// NewHub creates a hub whose subscriber channels hold up to buffer pending
// updates. Updates for a full channel are dropped; name labels those drops
// in the log.
func NewHub[T any](name string, buffer int) *Hub[T] {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub[T]{
		name:    name,
		clients: make(map[string][]chan T),
		buffer:  buffer,
	}
}

// Subscribe registers a new subscriber for userID. The returned cancel
// function unregisters it and closes the channel; it is safe to call twice.
func (h *Hub[T]) Subscribe(userID string) (<-chan T, func()) {
	ch := make(chan T, h.buffer)

	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], ch)
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() { h.remove(userID, ch) })
	}
	return ch, cancel
}

// Notify delivers update to userID's subscribers without blocking.
func (h *Hub[T]) Notify(userID string, update T) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.clients[userID] {
		select {
		case ch <- update:
		default:
			slog.Warn("subscriber is full, dropping update", "hub", h.name, "user_id", userID)
		}
	}
}

// Subscribers returns the number of open subscriptions for userID.
func (h *Hub[T]) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub[T]) remove(userID string, ch chan T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channels := h.clients[userID]
	for i, c := range channels {
		if c == ch {
			channels = append(channels[:i], channels[i+1:]...)
			break
		}
	}
	if len(channels) == 0 {
		delete(h.clients, userID)
	} else {
		h.clients[userID] = channels
	}
	close(ch)
}

// FavoriteUpdate is delivered to subscribers after a favorite is toggled.
type FavoriteUpdate struct {
	UserID    string
	ListingID string
	Added     bool
	Favorites []string
}

// FavoritesHub streams favorite toggles.
type FavoritesHub = Hub[FavoriteUpdate]

func NewFavoritesHub(buffer int) *FavoritesHub {
	return NewHub[FavoriteUpdate]("favorites", buffer)
}

// MessageUpdate is delivered to both participants after a message is sent.
type MessageUpdate struct {
	Message   domain.Message
	ListingID string
}

// MessagesHub streams new chat messages.
type MessagesHub = Hub[MessageUpdate]

func NewMessagesHub(buffer int) *MessagesHub {
	return NewHub[MessageUpdate]("messages", buffer)
}
