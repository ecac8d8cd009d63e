// Package escalation turns flagged chat messages into strikes and blocks
// seller accounts once their strike count reaches a threshold.
//
// For one user the sequence persist → count → compare → block runs under a
// per-user lock, so two concurrent strikes near the threshold cannot both
// observe a sub-threshold count. Accounts are never unblocked here.
package escalation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/whisper/market-chat/internal/metrics"
)

// DefaultStrikeThreshold is used when a caller passes a non-positive
// threshold.
const DefaultStrikeThreshold = 3

// StrikeRecord is a persisted strike.
type StrikeRecord struct {
	ID        int64
	UserID    int64
	Reason    string
	CreatedAt time.Time
}

// StrikeStore persists strikes and counts them per user.
type StrikeStore interface {
	Create(ctx context.Context, userID int64, reason string) (StrikeRecord, error)
	Count(ctx context.Context, userID int64) (int, error)
}

// AccountStore exposes the account state transitions this package may
// request. BlockUser must be idempotent.
type AccountStore interface {
	IsSeller(ctx context.Context, userID int64) (bool, error)
	BlockUser(ctx context.Context, userID int64) error
	SetSellerInactive(ctx context.Context, userID int64) error
}

// EventSink receives strike and block events for notification delivery.
type EventSink interface {
	Emit(ctx context.Context, event Event) error
}

// Locker serializes escalation for a single user. The returned func
// releases the lock.
type Locker interface {
	Lock(ctx context.Context, userID int64) (unlock func(), err error)
}

// Outcome describes what RegisterStrike did.
type Outcome struct {
	Strike      StrikeRecord
	Seller      bool
	StrikeCount int // only counted for sellers
	Blocked     bool
}

// Engine registers strikes and escalates seller accounts.
type Engine struct {
	strikes  StrikeStore
	accounts AccountStore
	events   EventSink
	locker   Locker
	now      func() time.Time
}

// NewEngine creates an Engine. A nil locker falls back to an in-process
// KeyedMutex, which is only correct when a single process enforces.
func NewEngine(strikes StrikeStore, accounts AccountStore, events EventSink, locker Locker) *Engine {
	if locker == nil {
		locker = NewKeyedMutex()
	}
	return &Engine{
		strikes:  strikes,
		accounts: accounts,
		events:   events,
		locker:   locker,
		now:      time.Now,
	}
}

// RegisterStrike records a strike for userID. Every user accumulates strike
// history; only sellers are escalated. Once a seller's strike count reaches
// threshold the account is blocked, the seller is set inactive and an
// AccountBlocked event is emitted. Calls past the threshold repeat the
// blocking side effects, which the stores treat as no-ops.
//
// Event delivery failures do not interrupt escalation: the account is still
// blocked and the emit errors are returned joined with any later error.
func (e *Engine) RegisterStrike(ctx context.Context, userID int64, threshold int, reason string) (Outcome, error) {
	if threshold <= 0 {
		threshold = DefaultStrikeThreshold
	}

	unlock, err := e.locker.Lock(ctx, userID)
	if err != nil {
		return Outcome{}, fmt.Errorf("escalation: lock user %d: %w", userID, err)
	}
	defer unlock()

	var out Outcome

	out.Strike, err = e.strikes.Create(ctx, userID, reason)
	if err != nil {
		return out, fmt.Errorf("escalation: create strike: %w", err)
	}

	out.Seller, err = e.accounts.IsSeller(ctx, userID)
	if err != nil {
		return out, fmt.Errorf("escalation: is seller: %w", err)
	}
	if !out.Seller {
		metrics.StrikesTotal.WithLabelValues("buyer").Inc()
		log.Printf("[escalation] strike recorded user=%d (not a seller)", userID)
		return out, nil
	}
	metrics.StrikesTotal.WithLabelValues("seller").Inc()

	// A failed notification must not stop escalation; it is reported with
	// whatever happens next.
	emitErr := e.emit(ctx, newStrikeAdded(userID, out.Strike, e.now()))

	out.StrikeCount, err = e.strikes.Count(ctx, userID)
	if err != nil {
		return out, errors.Join(emitErr, fmt.Errorf("escalation: count strikes: %w", err))
	}
	log.Printf("[escalation] strike recorded user=%d count=%d threshold=%d", userID, out.StrikeCount, threshold)

	if out.StrikeCount < threshold {
		return out, emitErr
	}

	if err := e.accounts.BlockUser(ctx, userID); err != nil {
		return out, errors.Join(emitErr, fmt.Errorf("escalation: block user: %w", err))
	}
	if err := e.accounts.SetSellerInactive(ctx, userID); err != nil {
		return out, errors.Join(emitErr, fmt.Errorf("escalation: set seller inactive: %w", err))
	}
	out.Blocked = true
	metrics.AccountsBlocked.Inc()
	log.Printf("[escalation] BLOCKED seller user=%d strikes=%d", userID, out.StrikeCount)

	return out, errors.Join(emitErr, e.emit(ctx, newAccountBlocked(userID, out.StrikeCount, reason, e.now())))
}

func (e *Engine) emit(ctx context.Context, event Event) error {
	if e.events == nil {
		return nil
	}
	if err := e.events.Emit(ctx, event); err != nil {
		return fmt.Errorf("escalation: emit %s: %w", event.Kind(), err)
	}
	return nil
}
