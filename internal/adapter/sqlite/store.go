package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store owns the SQLite connection and hands out the repositories built on it.
type Store struct {
	db        *sql.DB
	listings  *ListingRepository
	favorites *FavoriteRepository
	convs     *ConversationRepository
}

// New opens a SQLite database, runs migrations, and returns a ready store.
func New(dataSourceName string) (*Store, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and avoids
	// SQLITE_BUSY between the API and the job queue.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an already configured connection (for example one opened
// with otelsql), runs migrations, and returns a ready store.
func NewFromDB(db *sql.DB) (*Store, error) {
	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Store{
		db:        db,
		listings:  &ListingRepository{db: db},
		favorites: &FavoriteRepository{db: db},
		convs:     &ConversationRepository{db: db},
	}, nil
}

// Listings returns the listing repository.
func (s *Store) Listings() *ListingRepository { return s.listings }

// Favorites returns the favorite repository.
func (s *Store) Favorites() *FavoriteRepository { return s.favorites }

// Conversations returns the conversation repository.
func (s *Store) Conversations() *ConversationRepository { return s.convs }

// DB returns the underlying connection for other adapters (river).
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	dir, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, dir)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
