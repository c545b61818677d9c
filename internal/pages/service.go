package pages

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
	"github.com/goliatone/go-parish/internal/slugs"
	rules "github.com/goliatone/go-parish/internal/validation"
)

const Resource = "pages"

func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Page] {
	return records.NewBunStore(db, records.BunConfig[*Page]{
		Resource:        Resource,
		NewRecord:       func() *Page { return &Page{} },
		Identifier:      "slug",
		IdentifierValue: func(p *Page) string { return p.Slug },
		Caching:         caching,
	})
}

func NewMemoryStore() *records.MemoryStore[*Page] {
	return records.NewMemoryStore(Resource, clone,
		records.WithUnique("slug", func(p *Page) string { return p.Slug }),
	)
}

// Service manages static pages.
type Service struct {
	*records.Service[*Page]
}

func NewService(store records.Store[*Page], sanitizer *richtext.Sanitizer, opts ...records.ServiceOption) *Service {
	if sanitizer == nil {
		sanitizer = richtext.NewSanitizer()
	}
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Page]{
			Resource: Resource,
			Prepare:  prepare(sanitizer),
			Validate: validate,
		}, opts...),
	}
}

// GetPublishedBySlug returns a published page resolved for locale.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug, locale string) (View, error) {
	p, err := s.Store().FindOne(ctx, "slug", strings.TrimSpace(slug))
	if err != nil {
		return View{}, err
	}
	if !p.Published {
		return View{}, &records.NotFoundError{Resource: Resource, Key: slug}
	}
	return p.Localize(locale), nil
}

// Published lists published pages in menu order.
func (s *Service) Published(ctx context.Context) ([]*Page, error) {
	rows, _, err := s.List(ctx, records.ListOptions[*Page]{OnlyVisible: true})
	return rows, err
}

func prepare(sanitizer *richtext.Sanitizer) func(*Page, time.Time) {
	return func(p *Page, _ time.Time) {
		p.Title = strings.TrimSpace(p.Title)
		p.TitleFR = strings.TrimSpace(p.TitleFR)
		p.TitlePL = strings.TrimSpace(p.TitlePL)
		p.MetaDescription = strings.TrimSpace(p.MetaDescription)
		p.MetaDescriptionFR = strings.TrimSpace(p.MetaDescriptionFR)
		p.MetaDescriptionPL = strings.TrimSpace(p.MetaDescriptionPL)
		p.Slug = strings.TrimSpace(p.Slug)
		if p.Slug == "" && p.AutoSlug {
			p.Slug = slugs.Slugify(p.Title)
		}
		p.Content = sanitizer.Sanitize(p.Content)
		p.ContentFR = sanitizer.Sanitize(p.ContentFR)
		p.ContentPL = sanitizer.Sanitize(p.ContentPL)
	}
}

func validate(p *Page) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, validation.RuneLength(1, 300)),
		validation.Field(&p.Slug, validation.Required, rules.Slug),
		validation.Field(&p.MetaDescription, validation.RuneLength(0, 320)),
	)
}
