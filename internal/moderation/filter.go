// Package moderation detects attempts to move a marketplace conversation off
// the platform: phone numbers, social-media handles and meeting proposals.
// It separates contact intent from ordinary commercial language (prices,
// quantities, delivery times) with a weighted context score, and can produce
// a redacted copy of a message.
package moderation

// FilterResult is the verdict for one message. The zero value is clean.
type FilterResult struct {
	Blocked bool
	Rule    Rule
	Reason  string
}

// Filter runs an ordered chain of detectors over normalized text. It holds
// no mutable state and is safe for concurrent use.
type Filter struct {
	detectors []Detector
}

// NewFilter creates a Filter with the standard detector chain.
func NewFilter() *Filter {
	return &Filter{detectors: defaultDetectors}
}

// NewFilterWithDetectors creates a Filter that evaluates detectors in the
// given order.
func NewFilterWithDetectors(detectors []Detector) *Filter {
	return &Filter{detectors: detectors}
}

// Check normalizes text and returns the first detector hit. No further
// detectors run after a match.
func (f *Filter) Check(text string, t Thresholds) FilterResult {
	normalized := Normalize(text)
	for _, d := range f.detectors {
		if d.Detect(normalized, t) {
			return FilterResult{
				Blocked: true,
				Rule:    d.Rule(),
				Reason:  d.Reason(),
			}
		}
	}
	return FilterResult{}
}

// RejectReason returns the human-readable reason text would be rejected
// for, and false when the message is clean.
func (f *Filter) RejectReason(text string, t Thresholds) (string, bool) {
	result := f.Check(text, t)
	if !result.Blocked {
		return "", false
	}
	return result.Reason, true
}
