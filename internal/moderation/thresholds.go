package moderation

import "context"

// Configuration keys read on every classification call. Administrators edit
// these through the config provider; values are never cached here.
const (
	KeyConsecutiveNumbersLimit  = "moderation.consecutive_numbers_limit"
	KeyNumbersWithContextLimit  = "moderation.numbers_with_context_limit"
	KeyMinimumContactScore      = "moderation.minimum_contact_score"
	KeyScoreDifferenceThreshold = "moderation.score_difference_threshold"
	KeySuspiciousPatternPenalty = "moderation.suspicious_pattern_penalty"
	KeyStrongBusinessBonus      = "moderation.strong_business_bonus"
	KeyStrongContactPenalty     = "moderation.strong_contact_penalty"
	KeyStrikesToBlock           = "moderation.strikes_to_block"

	// KeyEnforcementEnabled switches strike registration off while
	// classification keeps running. Defaults to true.
	KeyEnforcementEnabled = "moderation.enforcement_enabled"
)

// Thresholds holds the tunable weights and limits for one classification.
type Thresholds struct {
	ConsecutiveNumbersLimit  int
	NumbersWithContextLimit  int
	MinimumContactScore      int
	ScoreDifferenceThreshold int
	SuspiciousPatternPenalty int
	StrongBusinessBonus      int
	StrongContactPenalty     int
	StrikesToBlock           int
}

// DefaultThresholds returns the documented defaults used whenever a key is
// missing or unreadable.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConsecutiveNumbersLimit:  7,
		NumbersWithContextLimit:  3,
		MinimumContactScore:      8,
		ScoreDifferenceThreshold: 5,
		SuspiciousPatternPenalty: 3,
		StrongBusinessBonus:      15,
		StrongContactPenalty:     20,
		StrikesToBlock:           3,
	}
}

// Settings resolves typed settings, returning def when a value is missing
// or invalid. config.Reader satisfies it.
type Settings interface {
	Int(ctx context.Context, key string, def int) int
	Bool(ctx context.Context, key string, def bool) bool
}

// LoadThresholds reads every threshold from r. A nil reader yields the
// defaults.
func LoadThresholds(ctx context.Context, r Settings) Thresholds {
	t := DefaultThresholds()
	if r == nil {
		return t
	}
	t.ConsecutiveNumbersLimit = r.Int(ctx, KeyConsecutiveNumbersLimit, t.ConsecutiveNumbersLimit)
	t.NumbersWithContextLimit = r.Int(ctx, KeyNumbersWithContextLimit, t.NumbersWithContextLimit)
	t.MinimumContactScore = r.Int(ctx, KeyMinimumContactScore, t.MinimumContactScore)
	t.ScoreDifferenceThreshold = r.Int(ctx, KeyScoreDifferenceThreshold, t.ScoreDifferenceThreshold)
	t.SuspiciousPatternPenalty = r.Int(ctx, KeySuspiciousPatternPenalty, t.SuspiciousPatternPenalty)
	t.StrongBusinessBonus = r.Int(ctx, KeyStrongBusinessBonus, t.StrongBusinessBonus)
	t.StrongContactPenalty = r.Int(ctx, KeyStrongContactPenalty, t.StrongContactPenalty)
	t.StrikesToBlock = r.Int(ctx, KeyStrikesToBlock, t.StrikesToBlock)
	return t
}
