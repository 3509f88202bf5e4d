package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.ListingRepository = (*ListingRepository)(nil)

// Fixed width so that lexical order in SQLite equals chronological order.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

const listingColumns = `id, owner_id, title, description, location, price, beds, baths, area,
	property_type, latitude, longitude, amenities, image_url, status, created_at, updated_at`

// ListingRepository implements domain.ListingRepository using SQLite.
type ListingRepository struct {
	db *sql.DB
}

func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) error {
	amenities, err := encodeAmenities(l.Amenities)
	if err != nil {
		return err
	}
	lat, lng, hash := coordinateColumns(l.Coordinates)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO listings (id, owner_id, title, description, location, price, beds, baths, area,
			property_type, latitude, longitude, geohash, amenities, image_url, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.OwnerID, l.Title, l.Description, l.Location, l.Price,
		nullInt(l.Beds), nullInt(l.Baths), nullFloat(l.Area),
		l.PropertyType, lat, lng, hash, amenities, l.ImageURL, string(l.Status),
		formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrListingNotFound
	}
	return l, err
}

// List returns listings newest first. A non-nil but empty IDs filter matches nothing.
func (r *ListingRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Listing, error) {
	listings := make([]domain.Listing, 0)
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return listings, nil
	}

	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing listings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

func buildListQuery(filter domain.ListFilter) (string, []any) {
	var where []string
	var args []any

	if filter.OwnerID != "" {
		where = append(where, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if len(filter.IDs) > 0 {
		where = append(where, "id IN (?"+strings.Repeat(", ?", len(filter.IDs)-1)+")")
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}

	query := `SELECT ` + listingColumns + ` FROM listings`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, max(filter.Offset, 0))
	}

	return query, args
}

func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) error {
	amenities, err := encodeAmenities(l.Amenities)
	if err != nil {
		return err
	}
	lat, lng, hash := coordinateColumns(l.Coordinates)

	result, err := r.db.ExecContext(ctx,
		`UPDATE listings SET title = ?, description = ?, location = ?, price = ?, beds = ?, baths = ?,
			area = ?, property_type = ?, latitude = ?, longitude = ?, geohash = ?, amenities = ?,
			image_url = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		l.Title, l.Description, l.Location, l.Price,
		nullInt(l.Beds), nullInt(l.Baths), nullFloat(l.Area),
		l.PropertyType, lat, lng, hash, amenities, l.ImageURL, string(l.Status),
		formatTime(l.UpdatedAt), l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating listing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrListingNotFound
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanListing(s scanner) (domain.Listing, error) {
	var (
		l                    domain.Listing
		beds, baths          sql.NullInt64
		area, lat, lng       sql.NullFloat64
		amenities, status    string
		createdAt, updatedAt string
	)

	err := s.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Location, &l.Price,
		&beds, &baths, &area, &l.PropertyType, &lat, &lng,
		&amenities, &l.ImageURL, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Listing{}, err
		}
		return domain.Listing{}, fmt.Errorf("scanning listing: %w", err)
	}

	if beds.Valid {
		v := int(beds.Int64)
		l.Beds = &v
	}
	if baths.Valid {
		v := int(baths.Int64)
		l.Baths = &v
	}
	if area.Valid {
		l.Area = &area.Float64
	}
	if lat.Valid && lng.Valid {
		l.Coordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if err := json.Unmarshal([]byte(amenities), &l.Amenities); err != nil {
		return domain.Listing{}, fmt.Errorf("decoding amenities of %s: %w", l.ID, err)
	}

	l.Status = domain.Status(status)
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Listing{}, fmt.Errorf("scanning listing %s created_at: %w", l.ID, err)
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.Listing{}, fmt.Errorf("scanning listing %s updated_at: %w", l.ID, err)
	}

	return l, nil
}

func encodeAmenities(amenities []string) (string, error) {
	if amenities == nil {
		amenities = []string{}
	}
	b, err := json.Marshal(amenities)
	if err != nil {
		return "", fmt.Errorf("encoding amenities: %w", err)
	}
	return string(b), nil
}

func coordinateColumns(c *domain.Coordinates) (lat, lng, hash any) {
	if c == nil {
		return nil, nil, nil
	}
	return c.Latitude, c.Longitude, c.Geohash(domain.MarkerPrecision)
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(timeFormat, v)
}
