package domain

import (
	"time"

	"github.com/mmcloughlin/geohash"
)

// Status represents the publication state of a listing.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Event represents something that happened to a listing, a favorite or a conversation.
// Lifecycle events drive status transitions; the rest are notifications.
type Event string

const (
	EventActivate   Event = "activate"
	EventDeactivate Event = "deactivate"

	EventListingCreated  Event = "listing_created"
	EventFavoriteAdded   Event = "favorite_added"
	EventFavoriteRemoved Event = "favorite_removed"

	EventConversationStarted Event = "conversation_started"
	EventMessageSent         Event = "message_sent"
)

// Transition defines a valid status change: an event moves a listing from Src to Dst.
type Transition struct {
	Event Event
	Src   Status
	Dst   Status
}

// Transitions defines all valid status changes in the listing lifecycle.
// This is domain knowledge consumed by the FSM adapter.
var Transitions = []Transition{
	{Event: EventDeactivate, Src: StatusActive, Dst: StatusInactive},
	{Event: EventActivate, Src: StatusInactive, Dst: StatusActive},
}

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the pair lies within the WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// MarkerPrecision is the geohash length used to cluster map markers;
// seven characters resolve to roughly a city block.
const MarkerPrecision = 7

// Geohash encodes the pair with the given number of characters.
func (c Coordinates) Geohash(chars uint) string {
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, chars)
}

// Listing is a single rental-property record.
// Beds, Baths, Area and Coordinates are optional and nil when unknown.
type Listing struct {
	ID           string
	OwnerID      string
	Title        string
	Description  string
	Location     string
	Price        int64
	Beds         *int
	Baths        *int
	Area         *float64
	PropertyType string
	Coordinates  *Coordinates
	Amenities    []string
	ImageURL     string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ListingDraft carries the owner-supplied fields of a new listing.
type ListingDraft struct {
	OwnerID      string
	Title        string
	Description  string
	Location     string
	Price        int64
	Beds         *int
	Baths        *int
	Area         *float64
	PropertyType string
	Coordinates  *Coordinates
	Amenities    []string
	ImageURL     string
}

// Validate checks the draft the same way the listing form does.
func (d ListingDraft) Validate() error {
	switch {
	case isBlank(d.Title):
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	case isBlank(d.Location):
		return &ValidationError{Field: "location", Reason: "must not be empty"}
	case d.Price <= 0:
		return &ValidationError{Field: "price", Reason: "must be positive"}
	case d.Beds != nil && *d.Beds < 0:
		return &ValidationError{Field: "beds", Reason: "must not be negative"}
	case d.Baths != nil && *d.Baths < 0:
		return &ValidationError{Field: "baths", Reason: "must not be negative"}
	case d.Area != nil && *d.Area <= 0:
		return &ValidationError{Field: "area", Reason: "must be positive"}
	case d.Coordinates != nil && !d.Coordinates.Valid():
		return &ValidationError{Field: "coordinates", Reason: "out of range"}
	}
	return nil
}

// NewListing creates an active listing from a draft.
func NewListing(id string, d ListingDraft) Listing {
	now := time.Now().UTC()
	return Listing{
		ID:           id,
		OwnerID:      d.OwnerID,
		Title:        d.Title,
		Description:  d.Description,
		Location:     d.Location,
		Price:        d.Price,
		Beds:         d.Beds,
		Baths:        d.Baths,
		Area:         d.Area,
		PropertyType: d.PropertyType,
		Coordinates:  d.Coordinates,
		Amenities:    d.Amenities,
		ImageURL:     d.ImageURL,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
