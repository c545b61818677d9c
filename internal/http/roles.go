package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-parish/internal/auth"
	"github.com/goliatone/go-parish/internal/permissions"
)

type rolePayload struct {
	Role string `json:"role"`
}

func (s *Server) registerRoleRoutes(r chi.Router) {
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", s.handleAccounts)
		r.Put("/{userID}", s.handleGrant)
		r.Delete("/{userID}", s.handleRevoke)
	})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRoles, permissions.ActionRead)) {
		return
	}
	accounts, err := s.svc.Auth.Accounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[auth.Account]{Items: accounts, Total: len(accounts)})
}

func (s *Server) handleGrant(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRoles, permissions.ActionUpdate)) {
		return
	}
	userID, err := parseUUID(chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var payload rolePayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Auth.Grant(r.Context(), userID, payload.Role); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.translator.Ctx(r.Context(), "record.saved")})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRoles, permissions.ActionDelete)) {
		return
	}
	userID, err := parseUUID(chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Auth.Revoke(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.translator.Ctx(r.Context(), "record.deleted")})
}
