package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
)

var errRouteNotFound = fmt.Errorf("http: no such route: %w", records.ErrNotFound)

// requestLogger logs one entry per request and tags the context with the
// request id so service loggers bound to it carry the same id.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		reqID := middleware.GetReqID(r.Context())
		ctx := logging.ContextWithFields(r.Context(), map[string]any{"request_id": reqID})
		r = r.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.WithContext(ctx).Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", s.now().Sub(start).Round(time.Microsecond),
		)
	})
}

// resolvePrincipal loads the session user and re-derives its role from
// user_roles on every request. Sessions of deleted users are cleared.
func (s *Server) resolvePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.sessions == nil || s.svc.Auth == nil {
			next.ServeHTTP(w, r)
			return
		}
		userID, ok := s.sessions.UserID(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := s.svc.Auth.Resolve(r.Context(), userID)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownUser) {
				_ = s.sessions.Logout(w, r)
				next.ServeHTTP(w, r)
				return
			}
			s.writeError(w, r, err)
			return
		}
		ctx := permissions.WithPrincipal(r.Context(), principal)
		ctx = logging.ContextWithFields(ctx, map[string]any{"user_id": principal.UserID.String()})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireStaff answers 401 without a session and 403 for accounts that hold
// neither the admin nor the editor role.
func (s *Server) requireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := permissions.PrincipalFromContext(r.Context())
		if !ok {
			s.writeError(w, r, permissions.ErrUnauthenticated)
			return
		}
		if !principal.IsStaff() {
			s.writeError(w, r, permissions.Error{Permission: "admin"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
