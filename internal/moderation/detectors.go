package moderation

// Rule identifies which detector flagged a message.
type Rule string

const (
	RuleNone           Rule = ""
	RuleNumericEmoji   Rule = "numeric_emoji"
	RuleContactRequest Rule = "contact_request"
	RuleWrittenNumbers Rule = "written_numbers"
	RulePhoneNumber    Rule = "phone_number"
)

// Detector is one stage of the decision chain. Detect receives normalized
// text and must be free of side effects.
type Detector interface {
	Rule() Rule
	Reason() string
	Detect(normalized string, t Thresholds) bool
}

// detectorFunc adapts a plain function to Detector.
type detectorFunc struct {
	rule   Rule
	reason string
	detect func(normalized string, t Thresholds) bool
}

func (d detectorFunc) Rule() Rule     { return d.rule }
func (d detectorFunc) Reason() string { return d.reason }
func (d detectorFunc) Detect(normalized string, t Thresholds) bool {
	return d.detect(normalized, t)
}

// defaultDetectors is the evaluation order used by Filter. Unconditional
// rules come first; the context-dependent ones scan the vocabularies and run
// last.
var defaultDetectors = []Detector{
	detectorFunc{
		rule:   RuleNumericEmoji,
		reason: "Se detectaron emojis numericos, que no estan permitidos en el chat",
		detect: func(n string, _ Thresholds) bool { return HasProhibitedNumberEmojis(n) },
	},
	detectorFunc{
		rule:   RuleContactRequest,
		reason: "Se detecto una solicitud de contacto fuera de la plataforma",
		detect: func(n string, _ Thresholds) bool { return HasContactRequestPatterns(n) },
	},
	detectorFunc{
		rule:   RuleWrittenNumbers,
		reason: "Se detectaron numeros escritos en letras en un contexto de contacto",
		detect: HasWrittenNumbersInContactContext,
	},
	detectorFunc{
		rule:   RulePhoneNumber,
		reason: "Se detecto un numero de telefono en el mensaje",
		detect: HasPhoneNumberInContactContext,
	},
}

// HasProhibitedNumberEmojis reports keycap digit emoji. These are never
// allowed, whatever the surrounding text says.
func HasProhibitedNumberEmojis(normalized string) bool {
	return numericEmojiPattern.MatchString(normalized)
}

// HasContactRequestPatterns reports an explicit request to exchange contact
// details, or a suspicious keyword pair. The context classifier is not
// consulted.
func HasContactRequestPatterns(normalized string) bool {
	return containsAny(contactRequestPatterns, normalized) ||
		containsPair(contactRequestCombos, normalized)
}

// CountWrittenNumbers counts spelled-out numerals in normalized text.
func CountWrittenNumbers(normalized string) int {
	return len(writtenNumberPattern.FindAllStringIndex(normalized, -1))
}

// HasWrittenNumbersInContactContext reports spelled-out digits that, given
// the surrounding language, look like a dictated phone number.
func HasWrittenNumbersInContactContext(normalized string, t Thresholds) bool {
	count := CountWrittenNumbers(normalized)
	if count < t.ConsecutiveNumbersLimit && count < t.NumbersWithContextLimit {
		return false
	}

	contact := IsInContactContext(normalized, t)
	if count >= t.ConsecutiveNumbersLimit && contact {
		return true
	}
	return count >= t.NumbersWithContextLimit && contact
}

// HasPhoneNumberInContactContext reports a phone number. Definite local
// formats always match; ambiguous digit groups only match in a contact
// context, and bare or grouped runs additionally require the absence of
// strong business indicators.
func HasPhoneNumberInContactContext(normalized string, t Thresholds) bool {
	if containsAny(definitePhonePatterns, normalized) {
		return true
	}

	intl := ambiguousIntlPattern.MatchString(normalized)
	local := longDigitRunPattern.MatchString(normalized) || groupedDigitPattern.MatchString(normalized)
	if !intl && !local {
		return false
	}
	if !IsInContactContext(normalized, t) {
		return false
	}
	if intl {
		return true
	}
	return !HasStrongBusinessIndicators(normalized)
}
