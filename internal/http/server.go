package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/justinas/nosurf"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/audio"
	"github.com/goliatone/go-parish/internal/audit"
	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/contact"
	"github.com/goliatone/go-parish/internal/faq"
	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/markdown"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/pages"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/routes"
	"github.com/goliatone/go-parish/internal/schedules"
	"github.com/goliatone/go-parish/internal/team"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

// Services are the collaborators the handlers call.
type Services struct {
	Articles  *articles.Service
	Pages     *pages.Service
	Team      *team.Service
	Schedules *schedules.Service
	FAQ       *faq.Service
	Audio     *audio.Service
	Links     *links.Service
	Contact   *contact.Service
	Auth      *auth.Service
	Media     *media.Service
	Storage   *media.Storage
	Legal     *markdown.Service
	Activity  *audit.Log
	Sanitizer *richtext.Sanitizer
	URLs      *routes.URLs
}

// Server builds the public, auth and admin route groups.
type Server struct {
	svc          Services
	sessions     *auth.Sessions
	negotiator   *i18n.Negotiator
	translator   *i18n.Translator
	logger       interfaces.Logger
	limiter      *RateLimiter
	timeout      time.Duration
	now          func() time.Time
	secure       bool
	adminPath    string
	featuredSize int
}

// Option mutates the Server configuration.
type Option func(*Server)

func WithLogger(logger interfaces.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocales wires locale negotiation and the message catalog.
func WithLocales(negotiator *i18n.Negotiator, translator *i18n.Translator) Option {
	return func(s *Server) {
		if negotiator != nil {
			s.negotiator = negotiator
		}
		if translator != nil {
			s.translator = translator
		}
	}
}

// WithRateLimiter throttles the contact, newsletter and sign-in endpoints.
func WithRateLimiter(limiter *RateLimiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSecureCookies marks the CSRF cookie Secure.
func WithSecureCookies(secure bool) Option {
	return func(s *Server) {
		s.secure = secure
	}
}

// WithAdminPath overrides the admin API base path (defaults to "/admin/api").
func WithAdminPath(path string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			s.adminPath = "/" + strings.Trim(trimmed, "/")
		}
	}
}

func NewServer(svc Services, sessions *auth.Sessions, opts ...Option) *Server {
	s := &Server{
		svc:          svc,
		sessions:     sessions,
		logger:       logging.NoOp(),
		timeout:      20 * time.Second,
		now:          time.Now,
		adminPath:    "/admin/api",
		featuredSize: 3,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.negotiator == nil {
		s.negotiator = i18n.NewNegotiator(i18n.DefaultConfig())
	}
	if s.translator == nil {
		catalog, err := i18n.DefaultCatalog()
		if err != nil {
			s.logger.Warn("http.catalog.unavailable", "error", err)
		}
		s.translator = i18n.NewTranslator(catalog, i18n.DefaultConfig())
	}
	if s.svc.Sanitizer == nil {
		s.svc.Sanitizer = richtext.NewSanitizer()
	}
	return s
}

// Handler returns the router serving every route group.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))
	r.Use(s.negotiator.Middleware)
	r.Use(s.resolvePrincipal)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed"})
	})

	s.registerPublicRoutes(r)

	r.Group(func(r chi.Router) {
		r.Use(s.csrf)
		r.Route("/auth", s.registerAuthRoutes)
		r.Route(s.adminPath, func(r chi.Router) {
			r.Use(s.requireStaff)
			s.registerAdminRoutes(r)
		})
	})
	return r
}

// csrf checks the X-CSRF-Token header (or csrf_token form field) on unsafe
// methods. The token is handed out by GET /auth/session.
func (s *Server) csrf(next http.Handler) http.Handler {
	h := nosurf.New(next)
	h.SetBaseCookie(http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   nosurf.MaxAge,
	})
	h.SetFailureHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.WithContext(r.Context()).Warn("http.csrf.rejected",
			"path", r.URL.Path, "reason", nosurf.Reason(r))
		writeJSON(w, http.StatusForbidden, errorResponse{
			Error:   "csrf_failed",
			Message: s.translator.Ctx(r.Context(), "error.forbidden"),
		})
	}))
	return h
}
