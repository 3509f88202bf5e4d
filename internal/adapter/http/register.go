package http

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/pango/internal/app"
	"github.com/neomorfeo/pango/internal/domain"
)

// Lifecycle reports which status events a listing can take next.
type Lifecycle interface {
	Available(current domain.Status) []domain.Event
}

// Services groups what the handlers need. Lifecycle is optional.
type Services struct {
	Listings      *app.ListingService
	Favorites     *app.FavoriteService
	Conversations *app.ConversationService
	Lifecycle     Lifecycle
}

type handlers struct {
	listings      *app.ListingService
	favorites     *app.FavoriteService
	conversations *app.ConversationService
	lifecycle     Lifecycle
}

// Register adds the listing, favorite and conversation routes to the Huma API.
// Conversation routes are skipped when that service is nil.
func Register(api huma.API, svc Services) {
	h := &handlers{
		listings:      svc.Listings,
		favorites:     svc.Favorites,
		conversations: svc.Conversations,
		lifecycle:     svc.Lifecycle,
	}
	h.registerListings(api)
	h.registerSearch(api)
	h.registerFavorites(api)
	if h.conversations != nil {
		h.registerConversations(api)
	}
}
