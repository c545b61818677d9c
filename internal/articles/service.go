package articles

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/slugs"
	rules "github.com/goliatone/go-parish/internal/validation"
)

// Resource names the articles table in errors, logs and activity entries.
const Resource = "articles"

// PublicOrder sorts by publication time, newest first.
var PublicOrder = []string{"COALESCE(?TableAlias.published_at, ?TableAlias.created_at) DESC"}

func newestPublished(a, b *Article) bool {
	return a.PublicTime().After(b.PublicTime())
}

// NewBunStore returns the SQL store for articles.
func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Article] {
	return records.NewBunStore(db, records.BunConfig[*Article]{
		Resource:        Resource,
		NewRecord:       func() *Article { return &Article{} },
		Identifier:      "slug",
		IdentifierValue: func(a *Article) string { return a.Slug },
		Order:           PublicOrder,
		Caching:         caching,
	})
}

// NewMemoryStore returns an in-memory store with the same slug constraint as
// the articles table.
func NewMemoryStore() *records.MemoryStore[*Article] {
	return records.NewMemoryStore(Resource, clone,
		records.WithUnique("slug", func(a *Article) string { return a.Slug }),
		records.WithLess(newestPublished),
	)
}

// Service manages articles. Admin CRUD comes from the embedded records
// service; the public reads only ever return published rows.
type Service struct {
	*records.Service[*Article]
}

func NewService(store records.Store[*Article], sanitizer *richtext.Sanitizer, opts ...records.ServiceOption) *Service {
	if sanitizer == nil {
		sanitizer = richtext.NewSanitizer()
	}
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Article]{
			Resource: Resource,
			Prepare:  prepare(sanitizer),
			Validate: validate,
		}, opts...),
	}
}

// Save keeps the original publication time when an update omits it.
func (s *Service) Save(ctx context.Context, a *Article) (*Article, error) {
	if a.ID != uuid.Nil && a.PublishedAt == nil {
		if existing, err := s.Service.Get(ctx, a.ID); err == nil {
			a.PublishedAt = existing.PublishedAt
		}
	}
	return s.Service.Save(ctx, a)
}

// ListPublished returns published articles, newest first, resolved for locale.
func (s *Service) ListPublished(ctx context.Context, locale string, limit, offset int) ([]View, int, error) {
	rows, total, err := s.List(ctx, records.ListOptions[*Article]{
		OnlyVisible: true,
		Limit:       limit,
		Offset:      offset,
		Order:       records.Order[*Article]{SQL: PublicOrder, Less: newestPublished},
	})
	if err != nil {
		return nil, 0, err
	}
	views := make([]View, 0, len(rows))
	for _, a := range rows {
		views = append(views, a.Localize(locale, false))
	}
	return views, total, nil
}

// GetPublishedBySlug returns a published article. Drafts are reported as not
// found.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug, locale string) (View, error) {
	a, err := s.Store().FindOne(ctx, "slug", strings.TrimSpace(slug))
	if err != nil {
		return View{}, err
	}
	if !a.Published {
		return View{}, &records.NotFoundError{Resource: Resource, Key: slug}
	}
	return a.Localize(locale, true), nil
}

// Published returns every published article for sitemap generation.
func (s *Service) Published(ctx context.Context) ([]*Article, error) {
	rows, _, err := s.List(ctx, records.ListOptions[*Article]{
		OnlyVisible: true,
		Order:       records.Order[*Article]{SQL: PublicOrder, Less: newestPublished},
	})
	return rows, err
}

func prepare(sanitizer *richtext.Sanitizer) func(*Article, time.Time) {
	return func(a *Article, now time.Time) {
		a.Title = strings.TrimSpace(a.Title)
		a.TitleFR = strings.TrimSpace(a.TitleFR)
		a.TitlePL = strings.TrimSpace(a.TitlePL)
		a.Excerpt = strings.TrimSpace(a.Excerpt)
		a.ExcerptFR = strings.TrimSpace(a.ExcerptFR)
		a.ExcerptPL = strings.TrimSpace(a.ExcerptPL)
		a.Author = strings.TrimSpace(a.Author)
		a.CoverImage = strings.TrimSpace(a.CoverImage)

		a.Slug = strings.TrimSpace(a.Slug)
		if a.Slug == "" && a.AutoSlug {
			a.Slug = slugs.Slugify(a.Title)
		}

		a.Content = sanitizer.Sanitize(a.Content)
		a.ContentFR = sanitizer.Sanitize(a.ContentFR)
		a.ContentPL = sanitizer.Sanitize(a.ContentPL)

		if a.Published && a.PublishedAt == nil {
			at := now
			a.PublishedAt = &at
		}
	}
}

func validate(a *Article) error {
	return validation.ValidateStruct(a,
		validation.Field(&a.Title, validation.Required, validation.RuneLength(1, 300)),
		validation.Field(&a.Slug, validation.Required, rules.Slug),
		validation.Field(&a.SortOrder, validation.Min(0)),
	)
}
