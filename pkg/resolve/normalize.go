package resolve

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dosagePattern = regexp.MustCompile(`\d+mg`)
	formPattern   = regexp.MustCompile(`\b(tab|tablet|cap|capsule|oral|sr|xl)\b`)
	noisePattern  = regexp.MustCompile(`[^a-z0-9 ]`)
)

// Normalize turns free text (typed or OCR output) into the comparison key
// used for matching: lower-cased, accents folded, dosage tokens such as
// "500mg" and form words such as "tablet" removed, everything outside
// [a-z0-9 ] dropped, surrounding space trimmed.
//
// The pipeline is repeated until the output is stable, so
// Normalize(Normalize(s)) == Normalize(s) holds even when removing noise
// exposes a new token ("5-mg" -> "5mg").
func Normalize(text string) string {
	for {
		next := normalizeOnce(text)
		if next == text {
			return next
		}
		text = next
	}
}

func normalizeOnce(s string) string {
	s = strings.ToLower(s)
	s = foldAccents(s)
	s = dosagePattern.ReplaceAllString(s, "")
	s = formPattern.ReplaceAllString(s, "")
	s = noisePattern.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// foldAccents strips combining marks (é -> e). A fresh transformer per call
// keeps Normalize safe for concurrent use.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
