package moderation

import "strings"

// ContextScore is the outcome of weighing contact language against business
// language in one message.
type ContextScore struct {
	Contact  int
	Business int

	MinimumContactScore      int
	ScoreDifferenceThreshold int
}

// IsContact reports whether the scores assert a contact context. Both the
// absolute floor and the margin over business language must be met.
func (s ContextScore) IsContact() bool {
	return s.Contact >= s.MinimumContactScore &&
		s.Contact-s.Business >= s.ScoreDifferenceThreshold
}

// ScoreContext computes contact and business scores for normalized text.
func ScoreContext(normalized string, t Thresholds) ContextScore {
	score := ContextScore{
		MinimumContactScore:      t.MinimumContactScore,
		ScoreDifferenceThreshold: t.ScoreDifferenceThreshold,
	}

	score.Contact = vocabularyScore(contactVocabulary, normalized)
	score.Business = vocabularyScore(businessVocabulary, normalized)

	if HasSuspiciousPatterns(normalized) {
		score.Contact += t.SuspiciousPatternPenalty
	}
	if HasStrongBusinessIndicators(normalized) {
		score.Business += t.StrongBusinessBonus
	}
	if HasStrongContactIndicators(normalized) {
		score.Contact += t.StrongContactPenalty
	}
	return score
}

// IsInContactContext reports whether normalized text reads as an attempt to
// get in touch rather than to do business.
func IsInContactContext(normalized string, t Thresholds) bool {
	return ScoreContext(normalized, t).IsContact()
}

// HasStrongBusinessIndicators reports whether a quantity, price or time word
// is paired with a number and unit, or a commercial keyword pair occurs.
func HasStrongBusinessIndicators(normalized string) bool {
	return containsAny(strongBusinessPatterns, normalized) ||
		containsPair(businessCombos, normalized)
}

// HasStrongContactIndicators reports whether a contact word is paired
// directly with digits, or an address/meeting phrase occurs.
func HasStrongContactIndicators(normalized string) bool {
	return containsAny(strongContactPatterns, normalized)
}

// HasSuspiciousPatterns reports an international-looking number or a phrase
// that usually precedes handing over contact details.
func HasSuspiciousPatterns(normalized string) bool {
	if suspiciousNumberPattern.MatchString(normalized) {
		return true
	}
	for _, phrase := range suspiciousPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func vocabularyScore(vocabulary []weightedTerm, normalized string) int {
	total := 0
	for _, w := range vocabulary {
		if strings.Contains(normalized, w.term) {
			total += w.weight
		}
	}
	return total
}
