package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/pango/internal/domain"
)

// ListingService orchestrates listing management and search.
type ListingService struct {
	repo      domain.ListingRepository
	publisher domain.EventPublisher
	validator domain.TransitionValidator
}

// NewListingService creates a service with the given adapters.
func NewListingService(repo domain.ListingRepository, publisher domain.EventPublisher, validator domain.TransitionValidator) *ListingService {
	return &ListingService{
		repo:      repo,
		publisher: publisher,
		validator: validator,
	}
}

// Create validates and persists a new listing, then publishes a creation event.
func (s *ListingService) Create(ctx context.Context, draft domain.ListingDraft) (domain.Listing, error) {
	if err := draft.Validate(); err != nil {
		return domain.Listing{}, err
	}

	id, err := generateID()
	if err != nil {
		return domain.Listing{}, fmt.Errorf("generating listing id: %w", err)
	}

	listing := domain.NewListing(id, draft)

	if err := s.repo.Create(ctx, listing); err != nil {
		return domain.Listing{}, fmt.Errorf("creating listing: %w", err)
	}

	if err := s.publisher.Publish(ctx, changeFor(domain.EventListingCreated, listing)); err != nil {
		return domain.Listing{}, fmt.Errorf("publishing creation event: %w", err)
	}

	return listing, nil
}

// GetByID returns a listing by its unique identifier.
func (s *ListingService) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns listings matching the given storage filter.
func (s *ListingService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Listing, error) {
	return s.repo.List(ctx, filter)
}

// Search narrows the active listings down to those matching the criteria.
func (s *ListingService) Search(ctx context.Context, criteria domain.Criteria) ([]domain.Listing, error) {
	active := domain.StatusActive
	candidates, err := s.repo.List(ctx, domain.ListFilter{Status: &active})
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	if criteria.IsEmpty() {
		return candidates, nil
	}
	return domain.Evaluate(candidates, criteria), nil
}

// Transition applies a lifecycle event to one of ownerID's listings.
func (s *ListingService) Transition(ctx context.Context, ownerID, id string, event domain.Event) (domain.Listing, error) {
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}
	if listing.OwnerID != ownerID {
		return domain.Listing{}, domain.ErrNotListingOwner
	}

	newStatus, err := s.validator.Apply(ctx, listing.Status, event)
	if err != nil {
		return domain.Listing{}, err
	}

	listing.Status = newStatus
	listing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, listing); err != nil {
		return domain.Listing{}, fmt.Errorf("updating listing: %w", err)
	}

	if err := s.publisher.Publish(ctx, changeFor(event, listing)); err != nil {
		return domain.Listing{}, fmt.Errorf("publishing event %q: %w", event, err)
	}

	return listing, nil
}

func changeFor(event domain.Event, l domain.Listing) domain.Change {
	return domain.Change{
		Event:     event,
		ListingID: l.ID,
		UserID:    l.OwnerID,
		Status:    l.Status,
	}
}
