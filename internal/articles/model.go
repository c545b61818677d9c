package articles

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
)

// Article is a news post with bilingual title, excerpt and rich-text body.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	TitleFR     string     `bun:"title_fr" json:"title_fr"`
	TitlePL     string     `bun:"title_pl" json:"title_pl"`
	Excerpt     string     `bun:"excerpt" json:"excerpt"`
	ExcerptFR   string     `bun:"excerpt_fr" json:"excerpt_fr"`
	ExcerptPL   string     `bun:"excerpt_pl" json:"excerpt_pl"`
	Content     string     `bun:"content" json:"content"`
	ContentFR   string     `bun:"content_fr" json:"content_fr"`
	ContentPL   string     `bun:"content_pl" json:"content_pl"`
	CoverImage  string     `bun:"cover_image" json:"cover_image"`
	Author      string     `bun:"author" json:"author"`
	Published   bool       `bun:"published" json:"published"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	SortOrder   int        `bun:"sort_order" json:"sort_order"`
	CreatedAt   time.Time  `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero" json:"updated_at"`

	// AutoSlug asks Save to derive an empty slug from the title.
	AutoSlug bool `bun:"-" json:"auto_slug,omitempty"`
}

func (a *Article) RecordID() uuid.UUID { return a.ID }

func (a *Article) SetRecordID(id uuid.UUID) { a.ID = id }

func (a *Article) CreatedTime() time.Time { return a.CreatedAt }

func (a *Article) Stamp(created, updated time.Time) {
	a.CreatedAt = created
	a.UpdatedAt = updated
}

func (a *Article) Visible() bool { return a.Published }

func (a *Article) SetVisible(v bool) { a.Published = v }

func (a *Article) VisibilityColumn() string { return "published" }

func (a *Article) SortKey() int { return a.SortOrder }

// PublicTime is the instant used for public ordering.
func (a *Article) PublicTime() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

func clone(a *Article) *Article {
	if a == nil {
		return nil
	}
	c := *a
	if a.PublishedAt != nil {
		at := *a.PublishedAt
		c.PublishedAt = &at
	}
	return &c
}

// View is the locale-resolved public shape of an article.
type View struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Locale      string    `json:"locale"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Localize resolves the bilingual fields for locale.
func (a *Article) Localize(locale string, withContent bool) View {
	locale = i18n.Coerce(locale)
	view := View{
		ID:          a.ID,
		Slug:        a.Slug,
		Locale:      locale,
		Title:       i18n.Pick(locale, a.Title, a.TitleFR, a.TitlePL),
		Excerpt:     i18n.Pick(locale, a.Excerpt, a.ExcerptFR, a.ExcerptPL),
		CoverImage:  a.CoverImage,
		Author:      a.Author,
		PublishedAt: a.PublicTime(),
	}
	if withContent {
		view.Content = i18n.Pick(locale, a.Content, a.ContentFR, a.ContentPL)
	}
	return view
}
