package slugs

import (
	"regexp"
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs; longer titles are cut on a hyphen.
const MaxLength = 96

var (
	pattern   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	separator = regexp.MustCompile(`[^a-z0-9]+`)
)

// Letters that do not decompose under NFD.
var foldings = strings.NewReplacer(
	"ł", "l", "Ł", "L",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
)

// Slugify derives a URL-safe slug from a title: accents are stripped, runs of
// anything but ASCII letters and digits become one hyphen, and the result is
// lowercased and trimmed.
//
//	Slugify("Événement d'Été!") == "evenement-d-ete"
func Slugify(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		foldings.Replace(title),
	)
	if err != nil {
		folded = title
	}
	out := separator.ReplaceAllString(strings.ToLower(folded), "-")
	out = strings.Trim(out, "-")
	if len(out) > MaxLength {
		out = out[:MaxLength]
		if i := strings.LastIndexByte(out, '-'); i > 0 {
			out = out[:i]
		}
		out = strings.Trim(out, "-")
	}
	return out
}

// Valid reports whether s is already a normalized slug.
func Valid(s string) bool {
	return s != "" && len(s) <= MaxLength && pattern.MatchString(s) && goslug.IsValid(s)
}

// Ensure returns s when it is a valid slug and otherwise derives one from
// fallback (usually the title).
func Ensure(s, fallback string) string {
	s = strings.TrimSpace(s)
	if Valid(s) {
		return s
	}
	if s != "" {
		return Slugify(s)
	}
	return Slugify(fallback)
}
