package ocr

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer composes the recognized text into NFC form and strips
// combining marks (Arabic diacritics in particular), so that a result
// consisting only of stray tashkil does not count as text.
var normalizer = transform.Chain(norm.NFC, runes.Remove(runes.In(unicode.Mn)))

// HasRecognizableText reports whether an OCR result contains any actual
// script or digits once punctuation, whitespace and combining marks are
// stripped. Recognition noise on a stain typically comes back as empty
// output or scattered punctuation; a page number or header survives the
// stripping.
func HasRecognizableText(text string) bool {
	normalized, _, err := transform.String(normalizer, text)
	if err != nil {
		normalized = text
	}
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
