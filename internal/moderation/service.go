package moderation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/whisper/market-chat/internal/escalation"
	"github.com/whisper/market-chat/internal/metrics"
)

// Enforcer records a strike against a user. escalation.Engine satisfies it.
type Enforcer interface {
	RegisterStrike(ctx context.Context, userID int64, threshold int, reason string) (escalation.Outcome, error)
}

// Service ties the filter to configuration and enforcement. Thresholds are
// read from the config provider on every call so administrator edits take
// effect immediately.
type Service struct {
	filter   *Filter
	config   Settings
	enforcer Enforcer
}

// NewService creates a Service. config may be nil (defaults only) and
// enforcer may be nil (classification only).
func NewService(filter *Filter, config Settings, enforcer Enforcer) *Service {
	if filter == nil {
		filter = NewFilter()
	}
	return &Service{filter: filter, config: config, enforcer: enforcer}
}

// Classify returns the verdict for text without any enforcement.
func (s *Service) Classify(ctx context.Context, text string) FilterResult {
	t := LoadThresholds(ctx, s.config)
	return s.classify(text, t)
}

// ClassifyAndEnforce classifies text and, when it is flagged and userID is
// set, registers a strike. A positive threshold overrides the configured
// strike limit; nil, zero or negative values use the configuration.
//
// The verdict is always returned, even when enforcement fails; the
// enforcement error is returned alongside it.
func (s *Service) ClassifyAndEnforce(ctx context.Context, text string, userID int64, threshold *int) (FilterResult, error) {
	t := LoadThresholds(ctx, s.config)
	result := s.classify(text, t)
	if !result.Blocked || userID == 0 || s.enforcer == nil {
		return result, nil
	}
	if !s.enforcementEnabled(ctx) {
		log.Printf("[moderation] enforcement disabled, no strike for user=%d rule=%s", userID, result.Rule)
		return result, nil
	}

	limit := t.StrikesToBlock
	if threshold != nil && *threshold > 0 {
		limit = *threshold
	}

	outcome, err := s.enforcer.RegisterStrike(ctx, userID, limit, result.Reason)
	if err != nil {
		metrics.EnforcementErrors.Inc()
		log.Printf("[moderation] enforcement failed user=%d rule=%s: %v", userID, result.Rule, err)
		return result, fmt.Errorf("moderation: enforce: %w", err)
	}
	if outcome.Blocked {
		log.Printf("[moderation] user=%d blocked after %d strikes", userID, outcome.StrikeCount)
	}
	return result, nil
}

// Censor returns text with numeric emoji and phone numbers redacted.
func (s *Service) Censor(ctx context.Context, text string) string {
	t := LoadThresholds(ctx, s.config)
	return s.filter.Censor(text, t)
}

func (s *Service) enforcementEnabled(ctx context.Context) bool {
	if s.config == nil {
		return true
	}
	return s.config.Bool(ctx, KeyEnforcementEnabled, true)
}

func (s *Service) classify(text string, t Thresholds) FilterResult {
	start := time.Now()
	result := s.filter.Check(text, t)
	metrics.ClassifyLatency.Observe(time.Since(start).Seconds())

	if result.Blocked {
		metrics.MessagesTotal.WithLabelValues("flagged").Inc()
		metrics.FlagsTotal.WithLabelValues(string(result.Rule)).Inc()
	} else {
		metrics.MessagesTotal.WithLabelValues("clean").Inc()
	}
	return result
}
