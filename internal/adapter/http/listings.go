package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/pango/internal/domain"
)

// --- Create Listing ---

type CreateListingInput struct {
	UserID string `header:"X-User-ID" required:"true" minLength:"1" doc:"Calling user, becomes the owner"`
	Body   struct {
		Title        string           `json:"title" minLength:"1" maxLength:"200"`
		Description  string           `json:"description,omitempty" maxLength:"5000"`
		Location     string           `json:"location" minLength:"1" maxLength:"200" doc:"Neighbourhood, e.g. \"Kinondoni\""`
		Price        int64            `json:"price" doc:"Monthly rent in whole Tanzanian shillings"`
		Beds         *int             `json:"beds,omitempty"`
		Baths        *int             `json:"baths,omitempty"`
		Area         *float64         `json:"area,omitempty"`
		PropertyType string           `json:"property_type,omitempty" doc:"House, Apartment, Room, Studio, ..."`
		Coordinates  *CoordinatesBody `json:"coordinates,omitempty"`
		Amenities    []string         `json:"amenities,omitempty"`
		ImageURL     string           `json:"image_url,omitempty" format:"uri"`
	}
}

type ListingOutput struct {
	Body ListingResponse
}

// --- Get Listing ---

type GetListingInput struct {
	ID     string `path:"id" doc:"Listing ID"`
	UserID string `header:"X-User-ID" required:"false" doc:"Calling user, used for the favorite flag"`
}

// --- List Listings ---

type ListListingsInput struct {
	UserID string `header:"X-User-ID" required:"false"`
	Owner  string `query:"owner" required:"false" doc:"Only listings of this owner"`
	Status string `query:"status" required:"false" enum:"active,inactive" doc:"Filter by status"`
	Limit  int    `query:"limit" required:"false" default:"50" minimum:"1" maximum:"200" doc:"Max results"`
	Offset int    `query:"offset" required:"false" default:"0" minimum:"0" doc:"Pagination offset"`
}

type ListListingsOutput struct {
	Body []ListingResponse
}

// --- Transition ---

type TransitionInput struct {
	ID     string `path:"id" doc:"Listing ID"`
	UserID string `header:"X-User-ID" required:"true" minLength:"1"`
	Body   struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"activate,deactivate"`
	}
}

func (h *handlers) registerListings(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-listing",
		Method:        http.MethodPost,
		Path:          "/api/v1/listings",
		Summary:       "Publish a new listing",
		Tags:          []string{"Listings"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateListingInput) (*ListingOutput, error) {
		b := input.Body
		draft := domain.ListingDraft{
			OwnerID:      input.UserID,
			Title:        b.Title,
			Description:  b.Description,
			Location:     b.Location,
			Price:        b.Price,
			Beds:         b.Beds,
			Baths:        b.Baths,
			Area:         b.Area,
			PropertyType: b.PropertyType,
			Amenities:    b.Amenities,
			ImageURL:     b.ImageURL,
		}
		if b.Coordinates != nil {
			draft.Coordinates = &domain.Coordinates{
				Latitude:  b.Coordinates.Latitude,
				Longitude: b.Coordinates.Longitude,
			}
		}

		listing, err := h.listings.Create(ctx, draft)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListingOutput{Body: h.toListingResponse(listing, nil)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *GetListingInput) (*ListingOutput, error) {
		listing, err := h.listings.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		favorites, err := h.favoriteSet(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListingOutput{Body: h.toListingResponse(listing, favorites)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings, newest first",
		Description: "Serves both the recent listings on the home screen and an owner's listings.",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *ListListingsInput) (*ListListingsOutput, error) {
		filter := domain.ListFilter{
			OwnerID: input.Owner,
			Limit:   input.Limit,
			Offset:  input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		listings, err := h.listings.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}
		favorites, err := h.favoriteSet(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListListingsOutput{Body: h.toListingResponses(listings, favorites)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings/{id}/events",
		Summary:     "Activate or deactivate one of your listings",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *TransitionInput) (*ListingOutput, error) {
		listing, err := h.listings.Transition(ctx, input.UserID, input.ID, domain.Event(input.Body.Event))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListingOutput{Body: h.toListingResponse(listing, nil)}, nil
	})
}

// favoriteSet loads the caller's favorites; anonymous callers have none.
func (h *handlers) favoriteSet(ctx context.Context, userID string) (domain.FavoriteSet, error) {
	if userID == "" {
		return domain.FavoriteSet{}, nil
	}
	return h.favorites.Set(ctx, userID)
}
