package routes

import (
	"fmt"
	"strings"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-parish/internal/i18n"
)

// Route names shared by both locales.
const (
	Home      = "home"
	Articles  = "articles"
	Article   = "article"
	Page      = "page"
	Team      = "team"
	Schedules = "schedules"
	FAQ       = "faq"
	Audio     = "audio"
	Contact   = "contact"
	Legal     = "legal"
	Privacy   = "privacy"
	Cookies   = "cookies"
)

// Static lists the routes without parameters, in sitemap order.
var Static = []string{Home, Articles, Team, Schedules, FAQ, Audio, Contact, Legal, Privacy, Cookies}

const publicGroup = "public"

// Config returns the public site routes. French lives at the root and Polish
// under /pl.
func Config(baseURL string) *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    publicGroup,
				BaseURL: strings.TrimRight(baseURL, "/"),
				Paths: map[string]string{
					Home:      "/",
					Articles:  "/actualites",
					Article:   "/actualites/:slug",
					Page:      "/pages/:slug",
					Team:      "/equipe",
					Schedules: "/horaires",
					FAQ:       "/faq",
					Audio:     "/audio",
					Contact:   "/contact",
					Legal:     "/mentions-legales",
					Privacy:   "/confidentialite",
					Cookies:   "/cookies",
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: i18n.Polish,
						Path: "/pl",
						Paths: map[string]string{
							Home:      "/",
							Articles:  "/aktualnosci",
							Article:   "/aktualnosci/:slug",
							Page:      "/strony/:slug",
							Team:      "/zespol",
							Schedules: "/msze",
							FAQ:       "/faq",
							Audio:     "/audio",
							Contact:   "/kontakt",
							Legal:     "/nota-prawna",
							Privacy:   "/polityka-prywatnosci",
							Cookies:   "/cookies",
						},
					},
				},
			},
		},
	}
}

// URLs builds absolute public URLs per locale with a go-urlkit RouteManager.
type URLs struct {
	manager *urlkit.RouteManager

	mu     sync.RWMutex
	groups map[string]*urlkit.Group
}

func New(baseURL string) *URLs {
	return NewWithManager(urlkit.NewRouteManager(Config(baseURL)))
}

func NewWithManager(manager *urlkit.RouteManager) *URLs {
	return &URLs{manager: manager, groups: map[string]*urlkit.Group{}}
}

// URL builds route for locale. Unsupported locales resolve to French.
func (u *URLs) URL(locale, route string, params map[string]any) (string, error) {
	group, err := u.group(i18n.Coerce(locale))
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, val := range params {
		builder.WithParam(key, val)
	}
	return builder.Build()
}

// Alternates returns route in every locale, keyed by locale.
func (u *URLs) Alternates(route string, params map[string]any) (map[string]string, error) {
	out := make(map[string]string, 2)
	for _, locale := range []string{i18n.French, i18n.Polish} {
		url, err := u.URL(locale, route, params)
		if err != nil {
			return nil, err
		}
		out[locale] = url
	}
	return out, nil
}

func (u *URLs) group(locale string) (*urlkit.Group, error) {
	u.mu.RLock()
	group, ok := u.groups[locale]
	u.mu.RUnlock()
	if ok {
		return group, nil
	}

	group, err := lookupGroup(u.manager, publicGroup)
	if err != nil {
		return nil, err
	}
	if locale != i18n.French {
		if group, err = lookupChildGroup(group, locale); err != nil {
			return nil, err
		}
	}

	u.mu.Lock()
	u.groups[locale] = group
	u.mu.Unlock()
	return group, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: unknown route %q", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("routes: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("routes: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
