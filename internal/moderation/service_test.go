package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/whisper/market-chat/internal/config"
	"github.com/whisper/market-chat/internal/escalation"
)

type strikeCall struct {
	userID    int64
	threshold int
	reason    string
}

type fakeEnforcer struct {
	mu    sync.Mutex
	calls []strikeCall
	err   error
}

func (e *fakeEnforcer) RegisterStrike(_ context.Context, userID int64, threshold int, reason string) (escalation.Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, strikeCall{userID, threshold, reason})
	if e.err != nil {
		return escalation.Outcome{}, e.err
	}
	return escalation.Outcome{StrikeCount: len(e.calls)}, nil
}

func TestLoadThresholds(t *testing.T) {
	ctx := context.Background()

	if got := LoadThresholds(ctx, nil); got != DefaultThresholds() {
		t.Errorf("LoadThresholds(nil) = %+v, want defaults", got)
	}

	r := config.NewReader(config.MapSource{
		KeyMinimumContactScore: "12",
		KeyStrikesToBlock:      "5",
		KeyStrongBusinessBonus: "not a number",
	})
	got := LoadThresholds(ctx, r)

	want := DefaultThresholds()
	want.MinimumContactScore = 12
	want.StrikesToBlock = 5
	if got != want {
		t.Errorf("LoadThresholds() = %+v, want %+v", got, want)
	}
}

func TestService_Classify(t *testing.T) {
	s := NewService(nil, nil, nil)
	ctx := context.Background()

	tests := []struct {
		input string
		rule  Rule
	}{
		{"llamame al 0991234567", RulePhoneNumber},
		{"pasame tu whatsapp", RuleContactRequest},
		{"tengo 12 unidades disponibles, el precio es 45 dolares", RuleNone},
	}
	for _, tt := range tests {
		result := s.Classify(ctx, tt.input)
		if result.Rule != tt.rule || result.Blocked != (tt.rule != RuleNone) {
			t.Errorf("Classify(%q) = %+v, want rule %q", tt.input, result, tt.rule)
		}
	}
}

func TestService_ReadsConfigOnEveryCall(t *testing.T) {
	settings := config.MapSource{}
	s := NewService(nil, config.NewReader(settings), nil)
	ctx := context.Background()
	msg := "llamame al cero nueve ocho siete seis cinco cuatro tres dos uno"

	if !s.Classify(ctx, msg).Blocked {
		t.Fatalf("Classify(%q) with defaults should block", msg)
	}

	settings[KeyMinimumContactScore] = "100"
	if result := s.Classify(ctx, msg); result.Blocked {
		t.Errorf("Classify(%q) after raising the minimum score = %+v, want clean", msg, result)
	}

	delete(settings, KeyMinimumContactScore)
	if !s.Classify(ctx, msg).Blocked {
		t.Errorf("Classify(%q) after removing the override should block again", msg)
	}
}

func TestService_ClassifyAndEnforce(t *testing.T) {
	ctx := context.Background()
	settings := config.NewReader(config.MapSource{KeyStrikesToBlock: "5"})

	t.Run("flagged message records a strike", func(t *testing.T) {
		enforcer := &fakeEnforcer{}
		s := NewService(nil, settings, enforcer)

		result, err := s.ClassifyAndEnforce(ctx, "llamame al 0991234567", 42, nil)
		if err != nil {
			t.Fatalf("ClassifyAndEnforce() error: %v", err)
		}
		if !result.Blocked {
			t.Fatal("expected message to be blocked")
		}
		if len(enforcer.calls) != 1 {
			t.Fatalf("enforcer called %d times, want 1", len(enforcer.calls))
		}
		call := enforcer.calls[0]
		if call.userID != 42 || call.threshold != 5 || call.reason != result.Reason {
			t.Errorf("RegisterStrike(%d, %d, %q), want (42, 5, %q)", call.userID, call.threshold, call.reason, result.Reason)
		}
	})

	t.Run("explicit threshold wins", func(t *testing.T) {
		enforcer := &fakeEnforcer{}
		s := NewService(nil, settings, enforcer)
		threshold := 2

		if _, err := s.ClassifyAndEnforce(ctx, "pasame tu whatsapp", 42, &threshold); err != nil {
			t.Fatalf("ClassifyAndEnforce() error: %v", err)
		}
		if len(enforcer.calls) != 1 || enforcer.calls[0].threshold != 2 {
			t.Errorf("calls = %+v, want one call with threshold 2", enforcer.calls)
		}
	})

	t.Run("non-positive threshold uses configuration", func(t *testing.T) {
		for _, v := range []int{0, -1} {
			enforcer := &fakeEnforcer{}
			s := NewService(nil, settings, enforcer)
			threshold := v

			if _, err := s.ClassifyAndEnforce(ctx, "pasame tu whatsapp", 42, &threshold); err != nil {
				t.Fatalf("ClassifyAndEnforce() error: %v", err)
			}
			if len(enforcer.calls) != 1 || enforcer.calls[0].threshold != 5 {
				t.Errorf("threshold %d: calls = %+v, want one call with configured threshold 5", v, enforcer.calls)
			}
		}
	})

	t.Run("enforcement switched off", func(t *testing.T) {
		enforcer := &fakeEnforcer{}
		off := config.NewReader(config.MapSource{KeyEnforcementEnabled: "false"})
		s := NewService(nil, off, enforcer)

		result, err := s.ClassifyAndEnforce(ctx, "llamame al 0991234567", 42, nil)
		if err != nil || !result.Blocked {
			t.Fatalf("ClassifyAndEnforce() = %+v, %v; want blocked without error", result, err)
		}
		if len(enforcer.calls) != 0 {
			t.Errorf("enforcer called %d times with enforcement disabled", len(enforcer.calls))
		}
	})

	t.Run("clean message is not enforced", func(t *testing.T) {
		enforcer := &fakeEnforcer{}
		s := NewService(nil, settings, enforcer)

		result, err := s.ClassifyAndEnforce(ctx, "cuanto cuesta?", 42, nil)
		if err != nil || result.Blocked {
			t.Fatalf("ClassifyAndEnforce() = %+v, %v; want clean", result, err)
		}
		if len(enforcer.calls) != 0 {
			t.Errorf("enforcer called %d times for a clean message", len(enforcer.calls))
		}
	})

	t.Run("unknown author is not enforced", func(t *testing.T) {
		enforcer := &fakeEnforcer{}
		s := NewService(nil, settings, enforcer)

		result, err := s.ClassifyAndEnforce(ctx, "llamame al 0991234567", 0, nil)
		if err != nil || !result.Blocked {
			t.Fatalf("ClassifyAndEnforce() = %+v, %v; want blocked without error", result, err)
		}
		if len(enforcer.calls) != 0 {
			t.Errorf("enforcer called %d times without a user", len(enforcer.calls))
		}
	})

	t.Run("verdict survives enforcement failure", func(t *testing.T) {
		storeErr := errors.New("connection reset")
		enforcer := &fakeEnforcer{err: storeErr}
		s := NewService(nil, settings, enforcer)

		result, err := s.ClassifyAndEnforce(ctx, "llamame al 0991234567", 42, nil)
		if !errors.Is(err, storeErr) {
			t.Fatalf("error = %v, want wrapped %v", err, storeErr)
		}
		if !result.Blocked || result.Rule != RulePhoneNumber {
			t.Errorf("result = %+v, want phone verdict despite the error", result)
		}
	})
}

func TestService_Censor(t *testing.T) {
	s := NewService(nil, nil, nil)
	got := s.Censor(context.Background(), "llamame al 0991234567")
	if got != "llamame al "+RedactionToken {
		t.Errorf("Censor() = %q", got)
	}
}

// accounts is an in-memory escalation store for the end-to-end test.
type accounts struct {
	mu       sync.Mutex
	strikes  map[int64]int
	sellers  map[int64]bool
	blocked  map[int64]bool
	inactive map[int64]bool
}

func (a *accounts) Create(_ context.Context, userID int64, reason string) (escalation.StrikeRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.strikes[userID]++
	return escalation.StrikeRecord{ID: int64(a.strikes[userID]), UserID: userID, Reason: reason, CreatedAt: time.Now()}, nil
}

func (a *accounts) Count(_ context.Context, userID int64) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.strikes[userID], nil
}

func (a *accounts) IsSeller(_ context.Context, userID int64) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sellers[userID], nil
}

func (a *accounts) BlockUser(_ context.Context, userID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocked[userID] = true
	return nil
}

func (a *accounts) SetSellerInactive(_ context.Context, userID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inactive[userID] = true
	return nil
}

type eventLog struct {
	mu    sync.Mutex
	kinds []string
}

func (l *eventLog) Emit(_ context.Context, e escalation.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.kinds = append(l.kinds, e.Kind())
	return nil
}

// A seller with two prior strikes sends a phone number and is blocked.
func TestService_SellerBlockedOnThirdStrike(t *testing.T) {
	const seller = int64(7)
	store := &accounts{
		strikes:  map[int64]int{seller: 2},
		sellers:  map[int64]bool{seller: true},
		blocked:  map[int64]bool{},
		inactive: map[int64]bool{},
	}
	events := &eventLog{}
	engine := escalation.NewEngine(store, store, events, nil)
	s := NewService(nil, nil, engine)

	result, err := s.ClassifyAndEnforce(context.Background(), "llamame al 0991234567", seller, nil)
	if err != nil {
		t.Fatalf("ClassifyAndEnforce() error: %v", err)
	}
	if !result.Blocked || result.Rule != RulePhoneNumber {
		t.Fatalf("result = %+v, want phone verdict", result)
	}
	if store.strikes[seller] != 3 {
		t.Errorf("strikes = %d, want 3", store.strikes[seller])
	}
	if !store.blocked[seller] || !store.inactive[seller] {
		t.Errorf("blocked=%v inactive=%v, want both true", store.blocked[seller], store.inactive[seller])
	}

	want := []string{escalation.KindStrikeAdded, escalation.KindAccountBlocked}
	if len(events.kinds) != len(want) {
		t.Fatalf("events = %v, want %v", events.kinds, want)
	}
	for i := range want {
		if events.kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, events.kinds[i], want[i])
		}
	}
}

// A buyer gets a strike but is never blocked and no event is emitted.
func TestService_BuyerOnlyRecorded(t *testing.T) {
	const buyer = int64(9)
	store := &accounts{
		strikes:  map[int64]int{buyer: 5},
		sellers:  map[int64]bool{},
		blocked:  map[int64]bool{},
		inactive: map[int64]bool{},
	}
	events := &eventLog{}
	s := NewService(nil, nil, escalation.NewEngine(store, store, events, nil))

	if _, err := s.ClassifyAndEnforce(context.Background(), "pasame tu whatsapp", buyer, nil); err != nil {
		t.Fatalf("ClassifyAndEnforce() error: %v", err)
	}
	if store.strikes[buyer] != 6 {
		t.Errorf("strikes = %d, want 6", store.strikes[buyer])
	}
	if store.blocked[buyer] || len(events.kinds) != 0 {
		t.Errorf("buyer blocked=%v events=%v, want no block and no events", store.blocked[buyer], events.kinds)
	}
}
