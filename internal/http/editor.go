package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-parish/internal/audio"
	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/slugs"
)

type slugifyPayload struct {
	Title string `json:"title"`
}

type previewPayload struct {
	HTML string `json:"html"`
}

type embedPayload struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type uploadResponse struct {
	Message string       `json:"message"`
	Upload  media.Upload `json:"upload"`
}

type audioUploadResponse struct {
	Message string       `json:"message"`
	Track   *audio.Track `json:"track"`
	HTML    string       `json:"html"`
}

func (s *Server) registerEditorRoutes(r chi.Router) {
	r.Post("/uploads/images", s.handleImageUpload)
	r.Post("/uploads/audio", s.handleAudioUpload)
	r.Post("/slugify", s.handleSlugify)
	r.Route("/richtext", func(r chi.Router) {
		r.Get("/config", s.handleEditorConfig)
		r.Post("/preview", s.handlePreview)
		r.Post("/embed", s.handleEmbed)
	})
}

// handleImageUpload compresses and stores an image for the editor or a
// cover/photo field.
func (s *Server) handleImageUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceMedia, permissions.ActionCreate)) {
		return
	}
	file, header, err := s.formFile(w, r, s.svc.Media.Limits().MaxImageBytes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	up, err := s.svc.Media.UploadImage(r.Context(), header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadResponse{
		Message: s.translator.Ctx(r.Context(), "upload.done"),
		Upload:  up,
	})
}

// handleAudioUpload stores the file and creates the audio library row.
// Optional form fields: title, title_fr, title_pl, description,
// duration_seconds.
func (s *Server) handleAudioUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceAudio, permissions.ActionCreate)) {
		return
	}
	file, header, err := s.formFile(w, r, s.svc.Media.Limits().MaxAudioBytes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer file.Close()
	defer r.MultipartForm.RemoveAll()

	meta := audio.Track{
		Title:       r.FormValue("title"),
		TitleFR:     r.FormValue("title_fr"),
		TitlePL:     r.FormValue("title_pl"),
		Description: r.FormValue("description"),
		Active:      parseBoolValue(r.FormValue("active"), true),
	}
	if raw := strings.TrimSpace(r.FormValue("duration_seconds")); raw != "" {
		if seconds, convErr := strconv.Atoi(raw); convErr == nil {
			meta.DurationSeconds = seconds
		}
	}
	track, err := s.svc.Audio.Upload(r.Context(), header.Filename, file, meta)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, audioUploadResponse{
		Message: s.translator.Ctx(r.Context(), "upload.done"),
		Track:   track,
		HTML:    richtext.AudioHTML(track.FileURL, track.MimeType),
	})
}

func (s *Server) handleSlugify(w http.ResponseWriter, r *http.Request) {
	var payload slugifyPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"slug": slugs.Slugify(payload.Title)})
}

func (s *Server) handleEditorConfig(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRichText, permissions.ActionRead)) {
		return
	}
	limits := s.svc.Media.Limits()
	cfg := s.svc.Sanitizer.EditorConfig(richtext.Limits{
		MaxImageBytes:     limits.MaxImageBytes,
		MaxAudioBytes:     limits.MaxAudioBytes,
		ImageMaxDimension: limits.ImageMaxDimension,
		JPEGQuality:       limits.JPEGQuality,
	}, []string{i18n.French, i18n.Polish})
	writeJSON(w, http.StatusOK, cfg)
}

// handlePreview returns the HTML exactly as it will be stored.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRichText, permissions.ActionRead)) {
		return
	}
	var payload previewPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, previewPayload{HTML: s.svc.Sanitizer.Sanitize(payload.HTML)})
}

// handleEmbed turns a share URL into the iframe-embed node.
func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	if !s.requirePermission(w, r, permissions.Join(permissions.ResourceRichText, permissions.ActionCreate)) {
		return
	}
	var payload embedPayload
	if err := decodeJSON(r, &payload); err != nil {
		s.writeError(w, r, err)
		return
	}
	src, err := s.svc.Sanitizer.ToEmbedURL(payload.URL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"embed_url": src,
		"html":      richtext.EmbedHTML(src, payload.Title),
	})
}
