package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
)

type UserInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1"`
}

type FavoriteIDsOutput struct {
	Body struct {
		IDs []string `json:"ids" doc:"Saved listing IDs in ascending order"`
	}
}

type FavoriteListingsOutput struct {
	Body []ListingResponse
}

type ToggleFavoriteInput struct {
	UserID    string `header:"X-User-ID" required:"true" minLength:"1"`
	ListingID string `path:"listingId" doc:"Listing ID"`
}

// ToggleResponse reports the outcome of a favorite toggle.
type ToggleResponse struct {
	ListingID  string   `json:"listing_id"`
	IsFavorite bool     `json:"is_favorite"`
	Favorites  []string `json:"favorites" doc:"Full favorite set after the toggle"`
}

type ToggleFavoriteOutput struct {
	Body ToggleResponse
}

// FavoriteEvent is streamed to subscribers whenever the user's favorites change.
type FavoriteEvent struct {
	ListingID  string   `json:"listing_id"`
	IsFavorite bool     `json:"is_favorite"`
	Favorites  []string `json:"favorites"`
}

func (h *handlers) registerFavorites(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-favorite-ids",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List the caller's favorite listing IDs",
		Tags:        []string{"Favorites"},
	}, func(ctx context.Context, input *UserInput) (*FavoriteIDsOutput, error) {
		set, err := h.favorites.Set(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &FavoriteIDsOutput{}
		out.Body.IDs = set.IDs()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-favorite-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites/listings",
		Summary:     "List the caller's favorite listings",
		Tags:        []string{"Favorites"},
	}, func(ctx context.Context, input *UserInput) (*FavoriteListingsOutput, error) {
		listings, err := h.favorites.Listings(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}
		set, err := h.favorites.Set(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FavoriteListingsOutput{Body: h.toListingResponses(listings, set)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-favorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/{listingId}/toggle",
		Summary:     "Save or unsave a listing",
		Tags:        []string{"Favorites"},
	}, func(ctx context.Context, input *ToggleFavoriteInput) (*ToggleFavoriteOutput, error) {
		set, added, err := h.favorites.Toggle(ctx, input.UserID, input.ListingID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ToggleFavoriteOutput{Body: ToggleResponse{
			ListingID:  input.ListingID,
			IsFavorite: added,
			Favorites:  set.IDs(),
		}}, nil
	})

	sse.Register(api, huma.Operation{
		OperationID: "stream-favorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites/events",
		Summary:     "Stream the caller's favorite changes",
		Description: "Every open view of the same user receives each toggle, so they all show one favorites set.",
		Tags:        []string{"Favorites"},
	}, map[string]any{
		"favorite": FavoriteEvent{},
	}, func(ctx context.Context, input *UserInput, send sse.Sender) {
		updates, cancel := h.favorites.Subscribe(input.UserID)
		defer cancel()

		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				if err := send.Data(FavoriteEvent{
					ListingID:  u.ListingID,
					IsFavorite: u.Added,
					Favorites:  u.Favorites,
				}); err != nil {
					return
				}
			}
		}
	})
}
