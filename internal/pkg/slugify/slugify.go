package slugify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLen is the hard limit on generated slugs. Derived slugs are stored in
// 60-character columns.
const MaxLen = 60

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

// Make turns free text into a slug of [a-z0-9-]: diacritics are stripped,
// runs of other characters collapse to a single hyphen, and the result is
// truncated to MaxLen.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Strip diacritics (é -> e).
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	s = string(buf)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > MaxLen {
		s = strings.Trim(s[:MaxLen], "-")
	}
	return s
}
