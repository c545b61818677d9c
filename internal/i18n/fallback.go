package i18n

import "strings"

// Pick returns the variant of a bilingual field for locale. Polish falls back
// to French then base; French falls back to base. Blank variants count as
// missing.
func Pick(locale, base, fr, pl string) string {
	var chain []string
	switch Normalize(locale) {
	case Polish:
		chain = []string{pl, fr, base}
	default:
		chain = []string{fr, base}
	}
	for _, candidate := range chain {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// Coerce normalizes locale and maps anything unsupported to French.
func Coerce(locale string) string {
	if Normalize(locale) == Polish {
		return Polish
	}
	return French
}
