package http

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-parish/internal/articles"
	"github.com/goliatone/go-parish/internal/audio"
	"github.com/goliatone/go-parish/internal/audit"
	"github.com/goliatone/go-parish/internal/faq"
	"github.com/goliatone/go-parish/internal/links"
	"github.com/goliatone/go-parish/internal/pages"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/schedules"
	"github.com/goliatone/go-parish/internal/team"
)

const maxAdminList = 500

// crudService is the admin contract shared by every content resource.
type crudService[T records.Record] interface {
	List(ctx context.Context, opts records.ListOptions[T]) ([]T, int, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Save(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Toggle(ctx context.Context, id uuid.UUID) (T, error)
}

type resourceAPI[T records.Record] struct {
	server    *Server
	name      string
	svc       crudService[T]
	newRecord func() T
}

// mountResource registers list, create, get, update, delete and toggle for
// one resource. name is the permission resource.
func mountResource[T records.Record](r chi.Router, s *Server, path, name string, svc crudService[T], newRecord func() T) {
	api := &resourceAPI[T]{server: s, name: name, svc: svc, newRecord: newRecord}
	r.Route("/"+path, func(r chi.Router) {
		r.Get("/", api.list)
		r.Post("/", api.create)
		r.Get("/{id}", api.get)
		r.Put("/{id}", api.update)
		r.Delete("/{id}", api.delete)
		r.Post("/{id}/toggle", api.toggle)
	})
}

func (api *resourceAPI[T]) allowed(w http.ResponseWriter, r *http.Request, action permissions.Action) bool {
	return api.server.requirePermission(w, r, permissions.Join(api.name, action))
}

func (api *resourceAPI[T]) list(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionRead) {
		return
	}
	items, total, err := api.svc.List(r.Context(), records.ListOptions[T]{
		Limit:  adminLimit(r),
		Offset: parseIntQuery(r, "offset", 0, 0),
	})
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[T]{Items: items, Total: total})
}

func (api *resourceAPI[T]) get(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionRead) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	item, err := api.svc.Get(r.Context(), id)
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (api *resourceAPI[T]) create(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionCreate) {
		return
	}
	rec := api.newRecord()
	if err := decodeJSON(r, rec); err != nil {
		api.server.writeError(w, r, err)
		return
	}
	rec.SetRecordID(uuid.Nil)
	api.save(w, r, rec, http.StatusCreated)
}

func (api *resourceAPI[T]) update(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionUpdate) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	rec := api.newRecord()
	if err := decodeJSON(r, rec); err != nil {
		api.server.writeError(w, r, err)
		return
	}
	rec.SetRecordID(id)
	api.save(w, r, rec, http.StatusOK)
}

func (api *resourceAPI[T]) save(w http.ResponseWriter, r *http.Request, rec T, status int) {
	saved, err := api.svc.Save(r.Context(), rec)
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	writeJSON(w, status, messageResponse{
		Message: api.server.translator.Ctx(r.Context(), "record.saved"),
		Item:    saved,
	})
}

func (api *resourceAPI[T]) delete(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionDelete) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	if err := api.svc.Delete(r.Context(), id); err != nil {
		api.server.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: api.server.translator.Ctx(r.Context(), "record.deleted"),
	})
}

func (api *resourceAPI[T]) toggle(w http.ResponseWriter, r *http.Request) {
	if !api.allowed(w, r, permissions.ActionPublish) {
		return
	}
	id, err := parseUUID(chi.URLParam(r, "id"))
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	item, err := api.svc.Toggle(r.Context(), id)
	if err != nil {
		api.server.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: api.server.translator.Ctx(r.Context(), "record.toggled"),
		Item:    item,
	})
}

func (s *Server) registerAdminRoutes(r chi.Router) {
	mountResource(r, s, "articles", permissions.ResourceArticles, crudService[*articles.Article](s.svc.Articles),
		func() *articles.Article { return &articles.Article{} })
	mountResource(r, s, "pages", permissions.ResourcePages, crudService[*pages.Page](s.svc.Pages),
		func() *pages.Page { return &pages.Page{} })
	mountResource(r, s, "team", permissions.ResourceTeam, crudService[*team.Member](s.svc.Team),
		func() *team.Member { return &team.Member{} })
	mountResource(r, s, "schedules", permissions.ResourceSchedules, crudService[*schedules.Schedule](s.svc.Schedules),
		func() *schedules.Schedule { return &schedules.Schedule{} })
	mountResource(r, s, "faq", permissions.ResourceFAQ, crudService[*faq.Entry](s.svc.FAQ),
		func() *faq.Entry { return &faq.Entry{} })
	mountResource(r, s, "audio", permissions.ResourceAudio, crudService[*audio.Track](s.svc.Audio),
		func() *audio.Track { return &audio.Track{} })
	mountResource(r, s, "footer-links", permissions.ResourceFooterLinks, crudService[*links.FooterLink](s.svc.Links.Footer),
		func() *links.FooterLink { return &links.FooterLink{} })
	mountResource(r, s, "social-links", permissions.ResourceSocialLinks, crudService[*links.SocialLink](s.svc.Links.Social),
		func() *links.SocialLink { return &links.SocialLink{} })

	s.registerInboxRoutes(r)
	s.registerRoleRoutes(r)
	s.registerEditorRoutes(r)
	r.Get("/activity", s.handleActivity)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceActivity, permissions.ActionRead)) {
		return
	}
	entries, total, err := s.svc.Activity.Recent(r.Context(),
		parseIntQuery(r, "limit", 50, maxAdminList), parseIntQuery(r, "offset", 0, 0))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*audit.Entry]{Items: entries, Total: total})
}

// formFile opens the "file" part of a multipart upload capped at limit bytes.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request, limit int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, records.FieldError("uploads", "file", "file is too large")
		}
		return nil, nil, badRequest("invalid multipart form")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, records.FieldError("uploads", "file", "file is required")
	}
	return file, header, nil
}
