package http

import (
	"time"

	"github.com/neomorfeo/pango/internal/domain"
)

// CoordinatesBody is a latitude/longitude pair.
type CoordinatesBody struct {
	Latitude  float64 `json:"latitude" minimum:"-90" maximum:"90"`
	Longitude float64 `json:"longitude" minimum:"-180" maximum:"180"`
}

// ListingResponse is the API representation of a listing.
type ListingResponse struct {
	ID              string           `json:"id" doc:"Unique identifier"`
	OwnerID         string           `json:"owner_id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Location        string           `json:"location"`
	Price           int64            `json:"price" doc:"Monthly rent in whole Tanzanian shillings"`
	PriceLabel      string           `json:"price_label" doc:"Price formatted for display, e.g. \"TSh 450,000\""`
	PriceShort      string           `json:"price_short" doc:"Compact price for map markers, e.g. \"450K\""`
	Beds            *int             `json:"beds,omitempty"`
	Baths           *int             `json:"baths,omitempty"`
	Area            *float64         `json:"area,omitempty" doc:"Floor area in square metres"`
	PropertyType    string           `json:"property_type"`
	Coordinates     *CoordinatesBody `json:"coordinates,omitempty"`
	Geohash         string           `json:"geohash,omitempty" doc:"Marker cluster cell"`
	Amenities       []string         `json:"amenities"`
	ImageURL        string           `json:"image_url,omitempty"`
	Status          string           `json:"status" doc:"Publication state"`
	AvailableEvents []string         `json:"available_events,omitempty" doc:"Lifecycle events the owner can trigger now"`
	IsFavorite      bool             `json:"is_favorite" doc:"Whether the calling user saved this listing"`
	CreatedAt       string           `json:"created_at" doc:"Creation timestamp (RFC 3339)"`
	UpdatedAt       string           `json:"updated_at" doc:"Last update timestamp (RFC 3339)"`
}

func (h *handlers) toListingResponse(l domain.Listing, favorites domain.FavoriteSet) ListingResponse {
	resp := ListingResponse{
		ID:           l.ID,
		OwnerID:      l.OwnerID,
		Title:        l.Title,
		Description:  l.Description,
		Location:     l.Location,
		Price:        l.Price,
		PriceLabel:   domain.FormatPrice(l.Price),
		PriceShort:   domain.ShortPrice(l.Price),
		Beds:         l.Beds,
		Baths:        l.Baths,
		Area:         l.Area,
		PropertyType: l.PropertyType,
		Amenities:    l.Amenities,
		ImageURL:     l.ImageURL,
		Status:       string(l.Status),
		IsFavorite:   favorites.Has(l.ID),
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Amenities == nil {
		resp.Amenities = []string{}
	}
	if l.Coordinates != nil {
		resp.Coordinates = &CoordinatesBody{
			Latitude:  l.Coordinates.Latitude,
			Longitude: l.Coordinates.Longitude,
		}
		resp.Geohash = l.Coordinates.Geohash(domain.MarkerPrecision)
	}
	if h.lifecycle != nil {
		for _, e := range h.lifecycle.Available(l.Status) {
			resp.AvailableEvents = append(resp.AvailableEvents, string(e))
		}
	}
	return resp
}

func (h *handlers) toListingResponses(listings []domain.Listing, favorites domain.FavoriteSet) []ListingResponse {
	out := make([]ListingResponse, len(listings))
	for i, l := range listings {
		out[i] = h.toListingResponse(l, favorites)
	}
	return out
}
