package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

const (
	QueryParam = "lang"
	CookieName = "lang"
)

type localeKey struct{}

// Negotiator picks the response locale for a request.
type Negotiator struct {
	cfg     Config
	matcher language.Matcher
	tags    []language.Tag
}

// NewNegotiator builds a matcher over the configured locales. The default
// locale is listed first so it wins when nothing matches.
func NewNegotiator(cfg Config) *Negotiator {
	cfg = cfg.normalized()
	ordered := []string{cfg.DefaultLocale}
	for _, loc := range cfg.Locales {
		if loc != cfg.DefaultLocale {
			ordered = append(ordered, loc)
		}
	}
	tags := make([]language.Tag, 0, len(ordered))
	for _, loc := range ordered {
		tags = append(tags, language.Make(loc))
	}
	cfg.Locales = ordered
	return &Negotiator{cfg: cfg, matcher: language.NewMatcher(tags), tags: tags}
}

// Default returns the fallback locale.
func (n *Negotiator) Default() string {
	return n.cfg.DefaultLocale
}

// Resolve checks the ?lang= query, then the lang cookie, then Accept-Language.
func (n *Negotiator) Resolve(r *http.Request) string {
	if loc := Normalize(r.URL.Query().Get(QueryParam)); n.cfg.Supports(loc) {
		return loc
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if loc := Normalize(c.Value); n.cfg.Supports(loc) {
			return loc
		}
	}
	return n.Match(r.Header.Get("Accept-Language"))
}

// Match maps an Accept-Language header to a supported locale.
func (n *Negotiator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return n.cfg.DefaultLocale
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return n.cfg.DefaultLocale
	}
	_, index, confidence := n.matcher.Match(prefs...)
	if confidence == language.No {
		return n.cfg.DefaultLocale
	}
	return n.cfg.Locales[index]
}

// Middleware stores the resolved locale on the request context.
func (n *Negotiator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loc := n.Resolve(r)
		next.ServeHTTP(w, r.WithContext(WithLocale(r.Context(), loc)))
	})
}

// WithLocale returns a context carrying locale.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, Normalize(locale))
}

// FromContext returns the locale stored by Middleware, or French.
func FromContext(ctx context.Context) string {
	if ctx != nil {
		if loc, ok := ctx.Value(localeKey{}).(string); ok && loc != "" {
			return loc
		}
	}
	return French
}
