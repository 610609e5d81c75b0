package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns free text into a URL-safe routing key. Accented letters fold
// to their base letter; dash punctuation becomes a hyphen; everything else
// outside [a-z0-9], whitespace and '-' is dropped. The result never starts or
// ends with a hyphen and never contains two in a row, so Slugify(Slugify(x))
// equals Slugify(x). An input with nothing usable yields "".
func Slugify(text string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.ToLower(strings.TrimSpace(text)),
	)
	if err != nil {
		folded = strings.ToLower(strings.TrimSpace(text))
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-', unicode.IsSpace(r), unicode.Is(unicode.Pd, r):
			pendingHyphen = true
		}
	}
	return b.String()
}
