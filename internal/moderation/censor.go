package moderation

const (
	// WarningGlyph replaces numeric emoji in censored text.
	WarningGlyph = "⚠️"

	// RedactionToken replaces phone numbers in censored text. It must not
	// contain digits or any vocabulary term, so censoring twice is a no-op.
	RedactionToken = "[dato oculto]"
)

// Censor returns a copy of text with numeric emoji and phone numbers
// redacted. It is independent of Check: a message can be censored without
// being flagged, and vice versa. Text without matches is returned unchanged.
func (f *Filter) Censor(text string, t Thresholds) string {
	out := numericEmojiPattern.ReplaceAllString(text, WarningGlyph)
	for _, p := range definitePhonePatterns {
		out = p.ReplaceAllString(out, RedactionToken)
	}

	// Context is judged on what is left after the unconditional redactions,
	// so a second pass sees the same verdict.
	normalized := Normalize(out)
	if !IsInContactContext(normalized, t) {
		return out
	}

	out = ambiguousIntlPattern.ReplaceAllString(out, RedactionToken)
	if !HasStrongBusinessIndicators(Normalize(out)) {
		out = longDigitRunPattern.ReplaceAllString(out, RedactionToken)
		out = groupedDigitPattern.ReplaceAllString(out, RedactionToken)
	}
	return out
}
