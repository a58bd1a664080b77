package vocab

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// Normalize trims s and lowercases it. Two strings are considered the same
// word when their normalized forms are equal.
func Normalize(s string) string {
	return lower.String(strings.TrimSpace(s))
}
