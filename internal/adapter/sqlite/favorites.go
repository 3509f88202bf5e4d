package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.FavoriteRepository = (*FavoriteRepository)(nil)

// FavoriteRepository implements domain.FavoriteRepository using SQLite.
// Add and Remove are idempotent.
type FavoriteRepository struct {
	db *sql.DB
}

// IDs returns the user's favorite listing IDs in ascending order.
func (r *FavoriteRepository) IDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT listing_id FROM favorites WHERE user_id = ? ORDER BY listing_id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, listing_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, listingID, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND listing_id = ?`, userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}
