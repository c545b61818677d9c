package i18n

import (
	"slices"
	"strings"
)

const (
	French = "fr"
	Polish = "pl"
)

// Config lists the locales served by the site. The default locale is the
// last resort for both content fields and catalog messages.
type Config struct {
	DefaultLocale string
	Locales       []string
}

// DefaultConfig serves French first and Polish second.
func DefaultConfig() Config {
	return Config{DefaultLocale: French, Locales: []string{French, Polish}}
}

func (c Config) normalized() Config {
	out := Config{DefaultLocale: Normalize(c.DefaultLocale)}
	for _, loc := range c.Locales {
		if loc = Normalize(loc); loc != "" && !slices.Contains(out.Locales, loc) {
			out.Locales = append(out.Locales, loc)
		}
	}
	if out.DefaultLocale == "" {
		out.DefaultLocale = French
	}
	if !slices.Contains(out.Locales, out.DefaultLocale) {
		out.Locales = append([]string{out.DefaultLocale}, out.Locales...)
	}
	return out
}

// Supports reports whether locale is one of the configured locales.
func (c Config) Supports(locale string) bool {
	return slices.Contains(c.normalized().Locales, Normalize(locale))
}

// Normalize lowercases a tag and keeps only its primary subtag ("pl-PL" -> "pl").
func Normalize(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	return locale
}
