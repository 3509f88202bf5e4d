package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/pango/internal/domain"
)

// FavoriteService keeps a user's favorite set in the repository, which is the
// single source of truth every view reads from.
type FavoriteService struct {
	repo      domain.FavoriteRepository
	listings  domain.ListingRepository
	publisher domain.EventPublisher
	hub       *FavoritesHub
}

// NewFavoriteService creates a service with the given adapters.
func NewFavoriteService(repo domain.FavoriteRepository, listings domain.ListingRepository, publisher domain.EventPublisher, hub *FavoritesHub) *FavoriteService {
	return &FavoriteService{
		repo:      repo,
		listings:  listings,
		publisher: publisher,
		hub:       hub,
	}
}

// Set returns the user's current favorite set.
func (s *FavoriteService) Set(ctx context.Context, userID string) (domain.FavoriteSet, error) {
	ids, err := s.repo.IDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}
	return domain.NewFavoriteSet(ids...), nil
}

// Toggle flips listingID in the user's favorites, persists the difference and
// returns the new set together with whether the listing is now a favorite.
func (s *FavoriteService) Toggle(ctx context.Context, userID, listingID string) (domain.FavoriteSet, bool, error) {
	current, err := s.Set(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	// Only an existing listing can be added; removal must work for listings
	// that have since disappeared.
	if !current.Has(listingID) {
		if _, err := s.listings.GetByID(ctx, listingID); err != nil {
			return nil, false, err
		}
	}

	next := domain.Toggle(current, listingID)
	added := next.Has(listingID)

	event := domain.EventFavoriteRemoved
	if added {
		event = domain.EventFavoriteAdded
		err = s.repo.Add(ctx, userID, listingID)
	} else {
		err = s.repo.Remove(ctx, userID, listingID)
	}
	if err != nil {
		return nil, false, fmt.Errorf("persisting favorite: %w", err)
	}

	if err := s.publisher.Publish(ctx, domain.Change{
		Event:     event,
		ListingID: listingID,
		UserID:    userID,
	}); err != nil {
		return nil, false, fmt.Errorf("publishing event %q: %w", event, err)
	}

	if s.hub != nil {
		s.hub.Notify(userID, FavoriteUpdate{
			UserID:    userID,
			ListingID: listingID,
			Added:     added,
			Favorites: next.IDs(),
		})
	}

	return next, added, nil
}

// Listings returns the user's favorite listings for the favorites screen.
func (s *FavoriteService) Listings(ctx context.Context, userID string) ([]domain.Listing, error) {
	ids, err := s.repo.IDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading favorites: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Listing{}, nil
	}
	return s.listings.List(ctx, domain.ListFilter{IDs: ids})
}

// Subscribe registers for the user's favorite updates.
func (s *FavoriteService) Subscribe(userID string) (<-chan FavoriteUpdate, func()) {
	return s.hub.Subscribe(userID)
}
