package audio

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/media"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const Resource = "audio"

// Track is an entry of the audio library (homilies, choir recordings).
type Track struct {
	bun.BaseModel `bun:"table:audio_files,alias:af"`

	ID              uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Title           string    `bun:"title,notnull" json:"title"`
	TitleFR         string    `bun:"title_fr" json:"title_fr"`
	TitlePL         string    `bun:"title_pl" json:"title_pl"`
	Description     string    `bun:"description" json:"description"`
	DescriptionFR   string    `bun:"description_fr" json:"description_fr"`
	DescriptionPL   string    `bun:"description_pl" json:"description_pl"`
	FileURL         string    `bun:"file_url,notnull" json:"file_url"`
	StoragePath     string    `bun:"storage_path" json:"storage_path"`
	MimeType        string    `bun:"mime_type" json:"mime_type"`
	SizeBytes       int64     `bun:"size_bytes" json:"size_bytes"`
	DurationSeconds int       `bun:"duration_seconds" json:"duration_seconds"`
	Active          bool      `bun:"active" json:"active"`
	SortOrder       int       `bun:"sort_order" json:"sort_order"`
	CreatedAt       time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (t *Track) RecordID() uuid.UUID { return t.ID }

func (t *Track) SetRecordID(id uuid.UUID) { t.ID = id }

func (t *Track) CreatedTime() time.Time { return t.CreatedAt }

func (t *Track) Stamp(created, updated time.Time) {
	t.CreatedAt = created
	t.UpdatedAt = updated
}

func (t *Track) Visible() bool { return t.Active }

func (t *Track) SetVisible(v bool) { t.Active = v }

func (t *Track) VisibilityColumn() string { return "active" }

func (t *Track) SortKey() int { return t.SortOrder }

func clone(t *Track) *Track {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

type View struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	FileURL         string    `json:"file_url"`
	MimeType        string    `json:"mime_type"`
	DurationSeconds int       `json:"duration_seconds,omitempty"`
}

func (t *Track) Localize(locale string) View {
	return View{
		ID:              t.ID,
		Title:           i18n.Pick(locale, t.Title, t.TitleFR, t.TitlePL),
		Description:     i18n.Pick(locale, t.Description, t.DescriptionFR, t.DescriptionPL),
		FileURL:         t.FileURL,
		MimeType:        t.MimeType,
		DurationSeconds: t.DurationSeconds,
	}
}

func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Track] {
	return records.NewBunStore(db, records.BunConfig[*Track]{
		Resource:  Resource,
		NewRecord: func() *Track { return &Track{} },
		Caching:   caching,
	})
}

func NewMemoryStore() *records.MemoryStore[*Track] {
	return records.NewMemoryStore(Resource, clone)
}

// Files is the subset of the media service the audio library needs.
type Files interface {
	UploadAudio(ctx context.Context, filename string, body io.Reader) (media.Upload, error)
	RemoveURL(ctx context.Context, publicURL string) error
}

type Service struct {
	*records.Service[*Track]
	files  Files
	logger interfaces.Logger
}

func NewService(store records.Store[*Track], files Files, logger interfaces.Logger, opts ...records.ServiceOption) *Service {
	logger = logging.Ensure(logger)
	opts = append([]records.ServiceOption{records.WithLogger(logger)}, opts...)
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Track]{
			Resource: Resource,
			Prepare: func(t *Track, _ time.Time) {
				t.Title = strings.TrimSpace(t.Title)
				t.TitleFR = strings.TrimSpace(t.TitleFR)
				t.TitlePL = strings.TrimSpace(t.TitlePL)
				t.Description = strings.TrimSpace(t.Description)
				t.FileURL = strings.TrimSpace(t.FileURL)
			},
			Validate: func(t *Track) error {
				return validation.ValidateStruct(t,
					validation.Field(&t.Title, validation.Required),
					validation.Field(&t.FileURL, validation.Required),
					validation.Field(&t.DurationSeconds, validation.Min(0)),
				)
			},
		}, opts...),
		files:  files,
		logger: logger,
	}
}

// Upload stores the file then inserts the row describing it. A blank title
// is derived from the file name. When the insert fails the stored file is
// removed again.
func (s *Service) Upload(ctx context.Context, filename string, body io.Reader, meta Track) (*Track, error) {
	meta.ID = uuid.Nil
	if strings.TrimSpace(meta.Title) == "" {
		meta.Title = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}
	up, err := s.files.UploadAudio(ctx, filename, body)
	if err != nil {
		return nil, err
	}
	meta.FileURL = up.URL
	meta.StoragePath = up.Path
	meta.MimeType = up.ContentType
	meta.SizeBytes = up.Size

	track, err := s.Save(ctx, &meta)
	if err != nil {
		if rmErr := s.files.RemoveURL(ctx, up.URL); rmErr != nil {
			s.logger.Warn("audio.upload.cleanup_failed", "url", up.URL, "error", rmErr)
		}
		return nil, err
	}
	return track, nil
}

// Delete removes the row and then the stored file.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	track, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Service.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.files.RemoveURL(ctx, track.FileURL); err != nil {
		s.logger.Warn("audio.delete.remove_failed", "url", track.FileURL, "error", err)
	}
	return nil
}

// Public returns the active tracks in display order.
func (s *Service) Public(ctx context.Context, locale string) ([]View, error) {
	rows, _, err := s.List(ctx, records.ListOptions[*Track]{OnlyVisible: true})
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for _, t := range rows {
		views = append(views, t.Localize(locale))
	}
	return views, nil
}
