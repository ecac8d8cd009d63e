// Package account applies the account state transitions requested by strike
// escalation: blocking a user and deactivating a seller. It never unblocks.
package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/whisper/market-chat/internal/escalation"
)

const (
	SellerStatusActive   = "active"
	SellerStatusInactive = "inactive"
)

// ErrUserNotFound is returned when a transition targets an unknown user.
var ErrUserNotFound = errors.New("account: user not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store reads and updates users and sellers in PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ escalation.AccountStore = (*Store)(nil)

// NewStore creates a new account store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// IsSeller reports whether userID has a seller profile.
func (s *Store) IsSeller(ctx context.Context, userID int64) (bool, error) {
	query, args, err := psql.Select("1").
		From("sellers").
		Where(sq.Eq{"user_id": userID}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("account: build is seller: %w", err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("account: is seller: %w", err)
	}
	return exists, nil
}

// BlockUser sets the user's blocked flag. Blocking an already blocked user
// is a no-op and keeps the original blocked_at.
func (s *Store) BlockUser(ctx context.Context, userID int64) error {
	query, args, err := psql.Update("users").
		Set("blocked", true).
		Set("blocked_at", sq.Expr("COALESCE(blocked_at, NOW())")).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("account: build block user: %w", err)
	}
	return s.execOne(ctx, "block user", query, args)
}

// SetSellerInactive sets the seller's status to inactive.
func (s *Store) SetSellerInactive(ctx context.Context, userID int64) error {
	query, args, err := psql.Update("sellers").
		Set("status", SellerStatusInactive).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("account: build set seller inactive: %w", err)
	}
	return s.execOne(ctx, "set seller inactive", query, args)
}

// IsBlocked reports the user's blocked flag.
func (s *Store) IsBlocked(ctx context.Context, userID int64) (bool, error) {
	query, args, err := psql.Select("blocked").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("account: build is blocked: %w", err)
	}

	var blocked bool
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&blocked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, fmt.Errorf("account: is blocked: %w", err)
	}
	return blocked, nil
}

// SellerStatus returns the seller's status.
func (s *Store) SellerStatus(ctx context.Context, userID int64) (string, error) {
	query, args, err := psql.Select("status").
		From("sellers").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("account: build seller status: %w", err)
	}

	var status string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("account: seller status: %w", err)
	}
	return status, nil
}

func (s *Store) execOne(ctx context.Context, op, query string, args []interface{}) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("account: %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("account: %s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("account: %s %w", op, ErrUserNotFound)
	}
	return nil
}
