package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/neomorfeo/pango/internal/adapter/fsm"
	adapter "github.com/neomorfeo/pango/internal/adapter/http"
	"github.com/neomorfeo/pango/internal/adapter/sqlite"
	"github.com/neomorfeo/pango/internal/app"
	"github.com/neomorfeo/pango/internal/domain"
)

// noopPublisher is a no-op EventPublisher for tests.
type noopPublisher struct{}

func (p *noopPublisher) Publish(context.Context, domain.Change) error { return nil }

type testServer struct {
	*httptest.Server
	hub      *app.FavoritesHub
	messages *app.MessagesHub
}

// newTestServer creates a full-stack httptest.Server with SQLite in-memory.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pub := &noopPublisher{}
	hub := app.NewFavoritesHub(8)
	messages := app.NewMessagesHub(8)
	validator := fsm.New()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("pango", "0.1.0"))
	adapter.Register(api, adapter.Services{
		Listings:  app.NewListingService(store.Listings(), pub, validator),
		Favorites: app.NewFavoriteService(store.Favorites(), store.Listings(), pub, hub),
		Conversations: app.NewConversationService(
			store.Conversations(), store.Listings(), pub, messages,
		),
		Lifecycle: validator,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, hub: hub, messages: messages}
}

// doRequest performs an HTTP request as userID (anonymous when empty).
func doRequest(t *testing.T, method, url, userID, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v", v, err)
	}
	return v
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d: %s", resp.StatusCode, want, body)
	}
}

// mustCreateListing publishes a listing as owner via the API.
func mustCreateListing(t *testing.T, srv *testServer, owner, body string) adapter.ListingResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/listings", owner, body)
	assertStatus(t, resp, http.StatusCreated)
	return decode[adapter.ListingResponse](t, resp)
}

func listingBody(title, location string, price int64, beds int, propertyType string) string {
	return fmt.Sprintf(`{"title":%q,"location":%q,"price":%d,"beds":%d,"baths":1,"property_type":%q}`,
		title, location, price, beds, propertyType)
}

// seedCatalogue creates the two listings most tests search over.
func seedCatalogue(t *testing.T, srv *testServer) (apartment, room adapter.ListingResponse) {
	t.Helper()
	apartment = mustCreateListing(t, srv, "owner-1",
		listingBody("Spacious 2 Bedroom Apartment", "Kinondoni", 450000, 2, "Apartment"))
	room = mustCreateListing(t, srv, "owner-2",
		listingBody("Modern Single Room", "Mikocheni B", 150000, 1, "Room"))
	return apartment, room
}
