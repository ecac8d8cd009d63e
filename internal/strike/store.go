// Package strike provides PostgreSQL-backed storage for contact-sharing
// strikes. Strikes are append-only: this package never updates or deletes
// them, retention is handled elsewhere.
package strike

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/whisper/market-chat/internal/escalation"
)

// maxReasonLen bounds the reason column, in characters.
const maxReasonLen = 500

// Store manages strikes in PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ escalation.StrikeStore = (*Store)(nil)

// NewStore creates a new strike store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a strike and returns it with its id and creation time.
func (s *Store) Create(ctx context.Context, userID int64, reason string) (escalation.StrikeRecord, error) {
	reason = strings.TrimSpace(reason)
	if r := []rune(reason); len(r) > maxReasonLen {
		reason = string(r[:maxReasonLen])
	}

	const query = `
		INSERT INTO strikes (user_id, reason)
		VALUES ($1, $2)
		RETURNING id, created_at`

	rec := escalation.StrikeRecord{UserID: userID, Reason: reason}
	err := s.db.QueryRowContext(ctx, query, userID, reason).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return escalation.StrikeRecord{}, fmt.Errorf("strike: insert: %w", err)
	}
	return rec, nil
}

// Count returns the number of strikes ever recorded for a user.
func (s *Store) Count(ctx context.Context, userID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM strikes WHERE user_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("strike: count: %w", err)
	}
	return count, nil
}

// ListRecent returns up to limit strikes for a user, newest first.
func (s *Store) ListRecent(ctx context.Context, userID int64, limit int) ([]escalation.StrikeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, user_id, reason, created_at
		FROM strikes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("strike: list: %w", err)
	}
	defer rows.Close()

	var out []escalation.StrikeRecord
	for rows.Next() {
		var rec escalation.StrikeRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Reason, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("strike: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("strike: rows: %w", err)
	}
	return out, nil
}
