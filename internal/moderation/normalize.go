package moderation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// diacritics maps accented characters to their plain equivalents. Applied
// after lower-casing, so only lower-case forms are listed.
var diacritics = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ñ", "n", "ç", "c",
)

// Normalize lower-cases text with Spanish case rules and strips diacritics.
// The result is what every detector and the context classifier operate on.
func Normalize(text string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	lower := cases.Lower(language.Spanish).String(text)
	return diacritics.Replace(lower)
}
