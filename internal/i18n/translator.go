package i18n

import (
	"context"
	"fmt"
)

// Translator formats catalog messages for a locale.
type Translator struct {
	catalog  Catalog
	fallback string
}

func NewTranslator(catalog Catalog, cfg Config) *Translator {
	if catalog == nil {
		catalog = Catalog{}
	}
	return &Translator{catalog: catalog, fallback: cfg.normalized().DefaultLocale}
}

// T looks key up in locale, then in the default locale. Unknown keys are
// returned as-is so a missing entry shows up in the UI instead of a blank.
func (t *Translator) T(locale, key string, args ...any) string {
	if t == nil {
		return key
	}
	msg, ok := t.catalog[Normalize(locale)][key]
	if !ok {
		msg, ok = t.catalog[t.fallback][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// Ctx translates key for the locale stored on ctx.
func (t *Translator) Ctx(ctx context.Context, key string, args ...any) string {
	return t.T(FromContext(ctx), key, args...)
}
