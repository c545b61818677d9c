package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/justinas/nosurf"

	"github.com/goliatone/go-parish/internal/permissions"
)

type credentialsPayload struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type sessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Staff bool      `json:"staff"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *sessionUser `json:"user,omitempty"`
	CSRFToken     string       `json:"csrf_token"`
	Message       string       `json:"message,omitempty"`
}

func (s *Server) registerAuthRoutes(r chi.Router) {
	r.Get("/session", s.handleSession)
	r.Post("/signup", s.handleSignUp)
	r.With(s.rateLimit).Post("/signin", s.handleSignIn)
	r.Post("/signout", s.handleSignOut)
}

func (s *Server) session(r *http.Request) sessionResponse {
	resp := sessionResponse{CSRFToken: nosurf.Token(r)}
	if principal, ok := permissions.PrincipalFromContext(r.Context()); ok {
		resp.Authenticated = true
		resp.User = &sessionUser{
			ID:    principal.UserID,
			Email: principal.Email,
			Role:  principal.Role,
			Staff: principal.IsStaff(),
		}
	}
	return resp
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session(r))
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.Auth.SignUp(r.Context(), payload.Email, payload.Password, payload.DisplayName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, user.ID, http.StatusCreated, "auth.signed_up")
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var payload credentialsPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.Auth.SignIn(r.Context(), payload.Email, payload.Password)
	if err != nil {
		s.logger.WithContext(r.Context()).Warn("auth.signin.rejected", "ip", clientIP(r))
		s.writeError(w, r, err)
		return
	}
	s.signIn(w, r, user.ID, http.StatusOK, "auth.signed_in")
}

// signIn writes the session cookie and answers with the principal resolved
// the same way later requests will resolve it.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID uuid.UUID, status int, messageKey string) {
	principal, err := s.svc.Auth.Resolve(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Login(w, r, userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	r = r.WithContext(permissions.WithPrincipal(r.Context(), principal))
	resp := s.session(r)
	resp.Message = s.translator.Ctx(r.Context(), messageKey)
	writeJSON(w, status, resp)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		CSRFToken: nosurf.Token(r),
		Message:   s.translator.Ctx(r.Context(), "auth.signed_out"),
	})
}
