package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/pango/internal/domain"
)

// SearchInput carries the search screen's fields as typed text. Numeric
// fields that do not start with a number are ignored rather than rejected.
type SearchInput struct {
	UserID        string   `header:"X-User-ID" required:"false"`
	Query         string   `query:"q" required:"false" doc:"Matched against title and location"`
	Location      string   `query:"location" required:"false"`
	PriceMin      string   `query:"price_min" required:"false"`
	PriceMax      string   `query:"price_max" required:"false"`
	PropertyTypes []string `query:"type,explode" required:"false" doc:"Property types, repeated or comma separated; any of them matches"`
	MinBeds       string   `query:"min_beds" required:"false"`
	MinBaths      string   `query:"min_baths" required:"false"`
}

// SearchResponse is the result of a search.
type SearchResponse struct {
	Results       []ListingResponse `json:"results"`
	Total         int               `json:"total"`
	ActiveFilters int               `json:"active_filters" doc:"Number of criteria that narrowed the results"`
}

type SearchOutput struct {
	Body SearchResponse
}

func (h *handlers) registerSearch(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "search-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/search",
		Summary:     "Search active listings",
		Tags:        []string{"Search"},
	}, func(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
		criteria := domain.ParseCriteria(domain.RawCriteria{
			Query:         input.Query,
			Location:      input.Location,
			PriceMin:      input.PriceMin,
			PriceMax:      input.PriceMax,
			PropertyTypes: splitValues(input.PropertyTypes),
			MinBeds:       input.MinBeds,
			MinBaths:      input.MinBaths,
		})

		listings, err := h.listings.Search(ctx, criteria)
		if err != nil {
			return nil, toHumaError(err)
		}
		favorites, err := h.favoriteSet(ctx, input.UserID)
		if err != nil {
			return nil, toHumaError(err)
		}

		return &SearchOutput{Body: SearchResponse{
			Results:       h.toListingResponses(listings, favorites),
			Total:         len(listings),
			ActiveFilters: criteria.ActiveCount(),
		}}, nil
	})
}

// splitValues flattens repeated and comma separated query values, so
// "?type=House&type=Room" and "?type=House,Room" read the same.
func splitValues(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}
