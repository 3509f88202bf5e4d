// Package seed holds the demo catalogue of Dar es Salaam listings and loads
// it into a listing repository.
package seed

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/neomorfeo/pango/internal/domain"
)

//go:embed listings.json listings.schema.json
var files embed.FS

const schemaName = "listings.schema.json"

var (
	compileOnce sync.Once
	schema      *jsonschema.Schema
	compileErr  error
)

func catalogueSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		raw, err := files.ReadFile(schemaName)
		if err != nil {
			compileErr = err
			return
		}
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaName, bytes.NewReader(raw)); err != nil {
			compileErr = fmt.Errorf("adding schema: %w", err)
			return
		}
		schema, compileErr = compiler.Compile(schemaName)
	})
	return schema, compileErr
}

type entry struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"owner_id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Location     string              `json:"location"`
	Price        int64               `json:"price"`
	Beds         *int                `json:"beds"`
	Baths        *int                `json:"baths"`
	Area         *float64            `json:"area"`
	PropertyType string              `json:"property_type"`
	Coordinates  *domain.Coordinates `json:"coordinates"`
	Amenities    []string            `json:"amenities"`
	ImageURL     string              `json:"image_url"`
}

// Parse validates data against the catalogue schema and returns its listings.
func Parse(data []byte) ([]domain.Listing, error) {
	s, err := catalogueSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling catalogue schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding catalogue: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid catalogue: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding catalogue: %w", err)
	}

	listings := make([]domain.Listing, 0, len(entries))
	for _, e := range entries {
		draft := domain.ListingDraft{
			OwnerID:      e.OwnerID,
			Title:        e.Title,
			Description:  e.Description,
			Location:     e.Location,
			Price:        e.Price,
			Beds:         e.Beds,
			Baths:        e.Baths,
			Area:         e.Area,
			PropertyType: e.PropertyType,
			Coordinates:  e.Coordinates,
			Amenities:    e.Amenities,
			ImageURL:     e.ImageURL,
		}
		if err := draft.Validate(); err != nil {
			return nil, fmt.Errorf("listing %s: %w", e.ID, err)
		}
		listings = append(listings, domain.NewListing(e.ID, draft))
	}
	return listings, nil
}

// Catalogue returns the embedded demo listings.
func Catalogue() ([]domain.Listing, error) {
	data, err := files.ReadFile("listings.json")
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Load inserts the demo listings that repo does not have yet and returns how
// many were added. Running it again is a no-op.
func Load(ctx context.Context, repo domain.ListingRepository) (int, error) {
	listings, err := Catalogue()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, l := range listings {
		_, err := repo.GetByID(ctx, l.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, domain.ErrListingNotFound):
			return added, fmt.Errorf("checking seed listing %s: %w", l.ID, err)
		}

		if err := repo.Create(ctx, l); err != nil {
			return added, fmt.Errorf("seeding listing %s: %w", l.ID, err)
		}
		added++
	}

	slog.InfoContext(ctx, "seed catalogue loaded", "added", added, "total", len(listings))
	return added, nil
}
