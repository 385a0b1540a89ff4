// Package sanitize cleans free text received from clients before it reaches the engine.
package sanitize

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips markup and unprintable runes and trims surrounding space. Entities escaped by
// the policy are decoded again so "A&B" stays "A&B".
func Text(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))

	s = strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}

		if unicode.IsSpace(r) {
			return ' '
		}

		return -1
	}, s)

	return strings.TrimSpace(s)
}
