package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/contact"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
)

type readPayload struct {
	Read *bool `json:"read"`
}

func (s *Server) registerInboxRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", s.handleMessages)
		r.Post("/{id}/read", s.handleMessageRead)
		r.Delete("/{id}", s.handleMessageDelete)
	})
	r.Route("/subscribers", func(r chi.Router) {
		r.Get("/", s.handleSubscribers)
		r.Get("/export.csv", s.handleSubscribersExport)
		r.Post("/{id}/toggle", s.handleSubscriberToggle)
		r.Delete("/{id}", s.handleSubscriberDelete)
	})
}

// handleMessages lists messages newest first; ?unread=true keeps unread ones.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceMessages, permissions.ActionRead)) {
		return
	}
	opts := records.ListOptions[*contact.Message]{
		Limit:  adminLimit(r),
		Offset: parseIntQuery(r, "offset", 0, 0),
	}
	if parseBoolValue(r.URL.Query().Get("unread"), false) {
		opts.Filter = records.Filter[*contact.Message]{
			Query: func(q *bun.SelectQuery) *bun.SelectQuery { return q.Where("is_read = ?", false) },
			Match: func(m *contact.Message) bool { return !m.IsRead },
		}
	}
	items, total, err := s.svc.Contact.Messages.List(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*contact.Message]{Items: items, Total: total})
}

// handleMessageRead marks a message read. A body of {"read": false} marks it
// unread again.
func (s *Server) handleMessageRead(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceMessages, permissions.ActionUpdate)) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	read := true
	if r.ContentLength > 0 {
		var payload readPayload
		if err := decodeJSON(r, &payload); err != nil {
			s.writeError(w, r, err)
			return
		}
		if payload.Read != nil {
			read = *payload.Read
		}
	}
	msg, err := s.svc.Contact.MarkRead(r.Context(), id, read)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: s.translator.Ctx(r.Context(), "record.saved"),
		Item:    msg,
	})
}

func (s *Server) handleMessageDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceMessages, permissions.ActionDelete)) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Contact.DeleteMessage(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.translator.Ctx(r.Context(), "record.deleted")})
}

func (s *Server) handleSubscribers(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceSubscribers, permissions.ActionRead)) {
		return
	}
	items, total, err := s.svc.Contact.Subscribers.List(r.Context(), records.ListOptions[*contact.Subscriber]{
		Limit:  adminLimit(r),
		Offset: parseIntQuery(r, "offset", 0, 0),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*contact.Subscriber]{Items: items, Total: total})
}

// handleSubscribersExport renders the CSV in memory first so a failure still
// yields a JSON error instead of a truncated file.
func (s *Server) handleSubscribersExport(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceSubscribers, permissions.ActionExport)) {
		return
	}
	var buf bytes.Buffer
	if err := s.svc.Contact.ExportSubscribersCSV(r.Context(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("subscribers-%s.csv", s.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleSubscriberToggle(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceSubscribers, permissions.ActionUpdate)) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sub, err := s.svc.Contact.Subscribers.Toggle(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: s.translator.Ctx(r.Context(), "record.toggled"),
		Item:    sub,
	})
}

func (s *Server) handleSubscriberDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceSubscribers, permissions.ActionDelete)) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Contact.Subscribers.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: s.translator.Ctx(r.Context(), "record.deleted")})
}
