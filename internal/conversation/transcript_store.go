package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptStore persists one row per conversation turn for later review.
// A nil store is valid and turns persistence off.
type TranscriptStore struct {
	db *sql.DB
}

// NewTranscriptStore creates a transcript store over an open database.
func NewTranscriptStore(db *sql.DB) *TranscriptStore {
	if db == nil {
		return nil
	}
	return &TranscriptStore{db: db}
}

// TranscriptEntry is one recorded turn: what the customer said and which
// branch the bot took.
type TranscriptEntry struct {
	ID          uuid.UUID
	Phone       string
	MessageID   string
	ProfileName string
	Text        string
	Intent      string
	Replies     int
	CreatedAt   time.Time
}

// Append records a turn. Safe to call on a nil store.
func (s *TranscriptStore) Append(ctx context.Context, entry TranscriptEntry) error {
	if s == nil || s.db == nil {
		return nil
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_log (
			id, phone, message_id, profile_name, body, intent, replies, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.Phone, entry.MessageID, entry.ProfileName,
		entry.Text, entry.Intent, entry.Replies, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("conversation: append transcript: %w", err)
	}
	return nil
}

// RecentByPhone returns the latest turns for one customer, newest first.
func (s *TranscriptStore) RecentByPhone(ctx context.Context, phone string, limit int) ([]TranscriptEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phone, message_id, profile_name, body, intent, replies, created_at
		FROM conversation_log
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("conversation: query transcript: %w", err)
	}
	defer rows.Close()

	var entries []TranscriptEntry
	for rows.Next() {
		var e TranscriptEntry
		if err := rows.Scan(&e.ID, &e.Phone, &e.MessageID, &e.ProfileName,
			&e.Text, &e.Intent, &e.Replies, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("conversation: scan transcript: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation: iterate transcript: %w", err)
	}
	return entries, nil
}
