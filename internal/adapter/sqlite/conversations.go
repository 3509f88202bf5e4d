package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/pango/internal/domain"
)

var _ domain.ConversationRepository = (*ConversationRepository)(nil)

// ConversationRepository implements domain.ConversationRepository using SQLite.
type ConversationRepository struct {
	db *sql.DB
}

const conversationColumns = `c.id, c.listing_id, c.listing_title, c.owner_id, c.owner_name,
	c.renter_id, c.renter_name, c.created_at, c.updated_at`

func (r *ConversationRepository) Create(ctx context.Context, c domain.Conversation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversations (id, listing_id, listing_title, owner_id, owner_name,
			renter_id, renter_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ListingID, c.ListingTitle, c.Owner.UserID, c.Owner.Name,
		c.Renter.UserID, c.Renter.Name, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations c WHERE c.id = ?`, id,
	)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return c, err
}

// FindByListing returns renterID's conversation about listingID.
func (r *ConversationRepository) FindByListing(ctx context.Context, listingID, renterID string) (domain.Conversation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+conversationColumns+` FROM conversations c
		 WHERE c.listing_id = ? AND c.renter_id = ?`, listingID, renterID,
	)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return c, err
}

// ListForUser returns every conversation userID takes part in, most recently
// active first, each with its newest message and userID's unread count.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+conversationColumns+`,
			m.id, m.sender_id, m.body, m.read, m.sent_at,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.conversation_id = c.id AND u.sender_id <> ? AND u.read = 0)
		 FROM conversations c
		 LEFT JOIN messages m ON m.rowid = (
			SELECT x.rowid FROM messages x WHERE x.conversation_id = c.id
			ORDER BY x.sent_at DESC, x.rowid DESC LIMIT 1)
		 WHERE c.owner_id = ? OR c.renter_id = ?
		 ORDER BY c.updated_at DESC, c.rowid DESC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0)
	for rows.Next() {
		var (
			c                domain.Conversation
			createdAt, updAt string
			msgID, sender    sql.NullString
			body, sentAt     sql.NullString
			read             sql.NullInt64
		)
		err := rows.Scan(&c.ID, &c.ListingID, &c.ListingTitle, &c.Owner.UserID, &c.Owner.Name,
			&c.Renter.UserID, &c.Renter.Name, &createdAt, &updAt,
			&msgID, &sender, &body, &read, &sentAt, &c.Unread,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if err := parseConversationTimes(&c, createdAt, updAt); err != nil {
			return nil, err
		}

		if msgID.Valid {
			last := domain.Message{
				ID:             msgID.String,
				ConversationID: c.ID,
				SenderID:       sender.String,
				Text:           body.String,
				Read:           read.Int64 != 0,
			}
			if last.SentAt, err = parseTime(sentAt.String); err != nil {
				return nil, fmt.Errorf("scanning message %s sent_at: %w", last.ID, err)
			}
			c.LastMessage = &last
		}

		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

// AddMessage stores m and bumps its conversation's activity time.
func (r *ConversationRepository) AddMessage(ctx context.Context, m domain.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		formatTime(m.SentAt), m.ConversationID,
	)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}
	if err := requireRow(result, domain.ErrConversationNotFound); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, body, read, sent_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.SenderID, m.Text, m.Read, formatTime(m.SentAt),
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	return tx.Commit()
}

// Messages returns a conversation's messages, oldest first.
func (r *ConversationRepository) Messages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender_id, body, read, sent_at FROM messages
		 WHERE conversation_id = ? ORDER BY sent_at, rowid`, conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var (
			m      domain.Message
			sentAt string
		)
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.Read, &sentAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if m.SentAt, err = parseTime(sentAt); err != nil {
			return nil, fmt.Errorf("scanning message %s sent_at: %w", m.ID, err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead marks every message readerID did not send as read.
func (r *ConversationRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = 1
		 WHERE conversation_id = ? AND sender_id <> ? AND read = 0`,
		conversationID, readerID,
	)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	return nil
}

func (r *ConversationRepository) SetParticipantName(ctx context.Context, conversationID, userID, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE conversations SET
			owner_name = CASE WHEN owner_id = ? THEN ? ELSE owner_name END,
			renter_name = CASE WHEN renter_id = ? THEN ? ELSE renter_name END
		 WHERE id = ?`,
		userID, name, userID, name, conversationID,
	)
	if err != nil {
		return fmt.Errorf("updating participant name: %w", err)
	}
	return requireRow(result, domain.ErrConversationNotFound)
}

func scanConversation(s scanner) (domain.Conversation, error) {
	var (
		c                    domain.Conversation
		createdAt, updatedAt string
	)
	err := s.Scan(&c.ID, &c.ListingID, &c.ListingTitle, &c.Owner.UserID, &c.Owner.Name,
		&c.Renter.UserID, &c.Renter.Name, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Conversation{}, err
		}
		return domain.Conversation{}, fmt.Errorf("scanning conversation: %w", err)
	}
	if err := parseConversationTimes(&c, createdAt, updatedAt); err != nil {
		return domain.Conversation{}, err
	}
	return c, nil
}

func parseConversationTimes(c *domain.Conversation, createdAt, updatedAt string) error {
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("scanning conversation %s created_at: %w", c.ID, err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return fmt.Errorf("scanning conversation %s updated_at: %w", c.ID, err)
	}
	return nil
}

func requireRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
