package moderation

import (
	"regexp"
	"strings"
)

// All patterns run against normalized text (lower-case, no diacritics) and
// are compiled once at package init, so they are safe for concurrent use.

// platformAlternation lists the channels people try to move a conversation to.
const platformAlternation = `(?:whatsapp|whats|wasap|wsp|telegram|instagram|insta|facebook|face|fb|tiktok|correo|email|mail|gmail|numero|celular|cel|telefono|contacto)`

// messengerAlternation is platformAlternation without the generic "number"
// words, for phrasings that are too common around order numbers.
const messengerAlternation = `(?:whatsapp|whats|wasap|wsp|telegram|instagram|insta|facebook|face|fb|tiktok|correo|email|gmail|celular|telefono)`

var (
	// numericEmojiPattern matches keycap digits (digit, optional VS16,
	// combining enclosing keycap) and the keycap ten symbol.
	numericEmojiPattern = regexp.MustCompile(`[0-9]\x{FE0F}?\x{20E3}|\x{1F51F}`)

	// contactRequestPatterns are explicit requests to exchange contact
	// details or leave the platform.
	contactRequestPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:pasame|pasa|dame|mandame|manda|enviame|envia|comparteme)\s+(?:tu|su)\s+` + platformAlternation + `\b`),
		regexp.MustCompile(`\b(?:pasame|dame|mandame|enviame|comparteme)\s+el\s+` + messengerAlternation + `\b`),
		regexp.MustCompile(`\bmi\s+` + platformAlternation + `\s*(?:es\b|:)`),
		regexp.MustCompile(`\b(?:hablemos|conversemos|sigamos|negociemos|arreglemos|tratemos|escribamos)\s+(?:por\s+)?a?fuera\s+(?:de\s+)?(?:la\s+|esta\s+)?(?:plataforma|app|aplicacion|pagina)`),
		regexp.MustCompile(`\b(?:agregame|buscame|sigueme|escribeme|hablame|llamame|contactame)\s+(?:al|en|por|a\s+mi)\s+` + platformAlternation + `\b`),
		regexp.MustCompile(`\b(?:tienes|tenes|tiene|me\s+das|me\s+pasas)\s+(?:whatsapp|wsp|wasap|telegram|instagram|facebook)\b`),
	}

	// writtenNumberPattern matches spelled-out numerals as whole words.
	writtenNumberPattern = regexp.MustCompile(`\b(?:` + strings.Join(writtenNumbers, "|") + `)\b`)

	// definitePhonePatterns are local number formats with no plausible
	// business reading.
	definitePhonePatterns = []*regexp.Regexp{
		// international mobile: +593 9X XXX XXXX
		regexp.MustCompile(`(?:\+|\b00|\b)593[\s.-]?9\d[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		// local mobile: 09X XXX XXXX
		regexp.MustCompile(`\b09\d[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		// landline with trunk prefix: area code 02-07 plus a seven digit
		// subscriber number
		regexp.MustCompile(`\b0[2-7][\s.-]?[2-9]\d{2}[\s.-]?\d{4}\b`),
		// 8-digit local landline: province digit 2-7 plus the subscriber number
		regexp.MustCompile(`\b[2-7][\s.-]?[2-9]\d{2}[\s.-]?\d{4}\b`),
	}

	// ambiguousIntlPattern matches other international-looking digit groups.
	ambiguousIntlPattern = regexp.MustCompile(`(?:\+|\b00)\d{1,3}(?:[\s.-]?\d{2,4}){2,4}\b`)

	// longDigitRunPattern matches bare 8 to 12 digit runs, which may just as
	// well be order numbers or SKUs.
	longDigitRunPattern = regexp.MustCompile(`\b\d{8,12}\b`)

	// groupedDigitPattern matches phone-like groupings such as 99 123 4567.
	groupedDigitPattern = regexp.MustCompile(`\b\d{2,4}[\s.-]\d{3,4}[\s.-]\d{3,4}\b`)

	// suspiciousNumberPattern is a leading + or 00 followed by 8+ digits.
	suspiciousNumberPattern = regexp.MustCompile(`(?:\+|\b00)\d{8,}`)

	// strongBusinessPatterns pair a quantity, price or time word with a
	// number and unit.
	strongBusinessPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:tengo|hay|quedan|tenemos|dispongo\s+de)\s+\d+\s+(?:unidades|piezas|articulos|productos|pares|cajas|docenas)\b`),
		regexp.MustCompile(`\b(?:cuesta|cuestan|vale|valen|precio(?:\s+es)?(?:\s+de)?|valor(?:\s+es)?(?:\s+de)?)\s*:?\s*\$?\s*\d+(?:[.,]\d+)?`),
		regexp.MustCompile(`\$\s*\d+(?:[.,]\d+)?|\b\d+(?:[.,]\d+)?\s*(?:dolares|usd)\b`),
		regexp.MustCompile(`\b(?:envio|entrega|llega|despacho|enviamos|entregamos)\s+(?:en\s+)?\d+\s+(?:dias|horas|semanas)\b`),
		regexp.MustCompile(`\b\d+(?:[.,]\d+)?\s*(?:cm|mm|kg|gr|ml|lt|litros|metros|pulgadas)\b`),
		regexp.MustCompile(`\b(?:talla|medida|modelo|codigo|sku|pedido|orden|factura)\s*(?:#|nro\.?|no\.?|numero)?\s*:?\s*\d+`),
	}

	// strongContactPatterns pair a contact word directly with digits, or are
	// unmistakable location/meeting phrases.
	strongContactPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:numero|celular|cel|telefono|whatsapp|wsp|wasap)\s*(?:es\b|:)?\s*\+?\d[\d\s.-]{6,}`),
		regexp.MustCompile(`\b(?:llamame|escribeme|marcame|contactame)\s+(?:al|a|en)\s+\+?\d[\d\s.-]{6,}`),
		regexp.MustCompile(`\bmi\s+direccion\s+es\b`),
		regexp.MustCompile(`\b(?:nos\s+vemos|encontremos|veamonos|reunamos)\s+en\b`),
		regexp.MustCompile(`\bvivo\s+en\b`),
	}
)

// containsAny reports whether any pattern matches text.
func containsAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// containsPair reports whether both keywords of any pair occur in text.
func containsPair(pairs []keywordPair, text string) bool {
	for _, pair := range pairs {
		if strings.Contains(text, pair[0]) && strings.Contains(text, pair[1]) {
			return true
		}
	}
	return false
}
