package pages

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
)

// Page is a static CMS page such as the parish history.
type Page struct {
	bun.BaseModel `bun:"table:pages,alias:p"`

	ID                uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug              string    `bun:"slug,notnull" json:"slug"`
	Title             string    `bun:"title,notnull" json:"title"`
	TitleFR           string    `bun:"title_fr" json:"title_fr"`
	TitlePL           string    `bun:"title_pl" json:"title_pl"`
	Content           string    `bun:"content" json:"content"`
	ContentFR         string    `bun:"content_fr" json:"content_fr"`
	ContentPL         string    `bun:"content_pl" json:"content_pl"`
	MetaDescription   string    `bun:"meta_description" json:"meta_description"`
	MetaDescriptionFR string    `bun:"meta_description_fr" json:"meta_description_fr"`
	MetaDescriptionPL string    `bun:"meta_description_pl" json:"meta_description_pl"`
	Published         bool      `bun:"published" json:"published"`
	SortOrder         int       `bun:"sort_order" json:"sort_order"`
	CreatedAt         time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero" json:"updated_at"`

	AutoSlug bool `bun:"-" json:"auto_slug,omitempty"`
}

func (p *Page) RecordID() uuid.UUID { return p.ID }

func (p *Page) SetRecordID(id uuid.UUID) { p.ID = id }

func (p *Page) CreatedTime() time.Time { return p.CreatedAt }

func (p *Page) Stamp(created, updated time.Time) {
	p.CreatedAt = created
	p.UpdatedAt = updated
}

func (p *Page) Visible() bool { return p.Published }

func (p *Page) SetVisible(v bool) { p.Published = v }

func (p *Page) VisibilityColumn() string { return "published" }

func (p *Page) SortKey() int { return p.SortOrder }

func clone(p *Page) *Page {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// View is the locale-resolved public shape of a page.
type View struct {
	ID              uuid.UUID `json:"id"`
	Slug            string    `json:"slug"`
	Locale          string    `json:"locale"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	MetaDescription string    `json:"meta_description,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *Page) Localize(locale string) View {
	locale = i18n.Coerce(locale)
	return View{
		ID:              p.ID,
		Slug:            p.Slug,
		Locale:          locale,
		Title:           i18n.Pick(locale, p.Title, p.TitleFR, p.TitlePL),
		Content:         i18n.Pick(locale, p.Content, p.ContentFR, p.ContentPL),
		MetaDescription: i18n.Pick(locale, p.MetaDescription, p.MetaDescriptionFR, p.MetaDescriptionPL),
		UpdatedAt:       p.UpdatedAt,
	}
}
