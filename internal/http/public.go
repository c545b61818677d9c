package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/contact"
	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/routes"
	"github.com/goliatone/go-parish/internal/schedules"
)

const (
	defaultPageSize = 12
	maxPageSize     = 100
	maxFormMemory   = 8 << 20
)

type homeResponse struct {
	Featured []articles.View  `json:"featured"`
	Today    []schedules.View `json:"today"`
	Footer   links.Footer     `json:"footer"`
}

type newsletterPayload struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

func (s *Server) registerPublicRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleHome)
		r.Get("/articles", s.handleArticles)
		r.Get("/articles/{slug}", s.handleArticle)
		r.Get("/pages/{slug}", s.handlePage)
		r.Get("/team", s.handleTeam)
		r.Get("/equipe", s.handleTeam)
		r.Get("/schedules", s.handleSchedules)
		r.Get("/horaires", s.handleSchedules)
		r.Get("/faq", s.handleFAQ)
		r.Get("/audio", s.handleAudio)
		r.Get("/footer", s.handleFooter)
		r.Get("/legal/{doc}", s.handleLegal)
		r.With(s.rateLimit).Post("/contact", s.handleContact)
		r.With(s.rateLimit).Post("/newsletter", s.handleNewsletter)
	})
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/media/{bucket}/*", s.handleMedia)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locale := i18n.FromContext(ctx)

	featured, _, err := s.svc.Articles.ListPublished(ctx, locale, s.featuredSize, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	today, err := s.svc.Schedules.Today(ctx, locale, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	footer, err := s.svc.Links.Public(ctx, locale)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, homeResponse{Featured: featured, Today: today, Footer: footer})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultPageSize, maxPageSize)
	offset := parseIntQuery(r, "offset", 0, 0)
	views, total, err := s.svc.Articles.ListPublished(r.Context(), i18n.FromContext(r.Context()), limit, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[articles.View]{Items: views, Total: total})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Articles.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Pages.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.Team.Public(r.Context(), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleSchedules(w http.ResponseWriter, r *http.Request) {
	listing, err := s.svc.Schedules.Public(r.Context(), i18n.FromContext(r.Context()), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.FAQ.Public(r.Context(), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.svc.Audio.Public(r.Context(), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleFooter(w http.ResponseWriter, r *http.Request) {
	footer, err := s.svc.Links.Public(r.Context(), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, footer)
}

func (s *Server) handleLegal(w http.ResponseWriter, r *http.Request) {
	doc, err := s.svc.Legal.Document(r.Context(), chi.URLParam(r, "doc"), i18n.FromContext(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleContact accepts a multipart form with an optional "attachment" file,
// or a JSON body without one.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var cmd contact.SubmitMessageCommand
	if isMultipart(r) {
		limit := s.svc.Media.Limits().MaxAttachmentBytes
		r.Body = http.MaxBytesReader(w, r.Body, limit+maxFormMemory)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				s.writeError(w, r, records.FieldError(contact.MessagesResource, "attachment", "file is too large"))
				return
			}
			s.writeError(w, r, badRequest("invalid multipart form"))
			return
		}
		defer r.MultipartForm.RemoveAll()
		cmd = contact.SubmitMessageCommand{
			Name:                r.FormValue("name"),
			Email:               r.FormValue("email"),
			Phone:               r.FormValue("phone"),
			Subject:             r.FormValue("subject"),
			Message:             r.FormValue("message"),
			Locale:              r.FormValue("locale"),
			SubscribeNewsletter: parseBoolValue(r.FormValue("subscribe_newsletter"), false),
		}
		file, header, err := r.FormFile("attachment")
		switch {
		case err == nil:
			defer file.Close()
			cmd.Attachment = &contact.Attachment{Filename: header.Filename, Body: file}
		case !errors.Is(err, http.ErrMissingFile):
			s.writeError(w, r, badRequest("invalid attachment"))
			return
		}
	} else if err := decodeJSON(r, &cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(cmd.Locale) == "" {
		cmd.Locale = i18n.FromContext(r.Context())
	}

	if err := s.svc.Contact.Submit(r.Context(), cmd); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message: s.translator.Ctx(r.Context(), "contact.sent", strings.TrimSpace(cmd.Name)),
	})
}

func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var payload newsletterPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(payload.Locale) == "" {
		payload.Locale = i18n.FromContext(r.Context())
	}
	err := s.svc.Contact.Subscribe(r.Context(), contact.SubscribeCommand{
		Email:  payload.Email,
		Name:   payload.Name,
		Locale: payload.Locale,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{
		Message: s.translator.Ctx(r.Context(), "newsletter.subscribed"),
	})
}

// handleSitemap lists the static routes plus every published article and
// page, each with its French and Polish URL.
func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	published, err := s.svc.Articles.Published(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pagesList, err := s.svc.Pages.Published(ctx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries := make([]routes.Entry, 0, len(published)+len(pagesList))
	for _, a := range published {
		entries = append(entries, routes.Entry{
			Route:    routes.Article,
			Params:   map[string]any{"slug": a.Slug},
			Modified: a.UpdatedAt,
		})
	}
	for _, p := range pagesList {
		entries = append(entries, routes.Entry{
			Route:    routes.Page,
			Params:   map[string]any{"slug": p.Slug},
			Modified: p.UpdatedAt,
		})
	}
	body, err := s.svc.URLs.Sitemap(entries)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	s.svc.Storage.ServeObject(w, r, chi.URLParam(r, "bucket"), chi.URLParam(r, "*"))
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}
