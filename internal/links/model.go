package links

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
)

// FooterLink is an entry of the site footer.
type FooterLink struct {
	bun.BaseModel `bun:"table:footer_links,alias:fl"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Label     string    `bun:"label,notnull" json:"label"`
	LabelFR   string    `bun:"label_fr" json:"label_fr"`
	LabelPL   string    `bun:"label_pl" json:"label_pl"`
	URL       string    `bun:"url,notnull" json:"url"`
	Category  string    `bun:"category" json:"category"`
	Active    bool      `bun:"active" json:"active"`
	SortOrder int       `bun:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (l *FooterLink) RecordID() uuid.UUID { return l.ID }

func (l *FooterLink) SetRecordID(id uuid.UUID) { l.ID = id }

func (l *FooterLink) CreatedTime() time.Time { return l.CreatedAt }

func (l *FooterLink) Stamp(created, updated time.Time) {
	l.CreatedAt = created
	l.UpdatedAt = updated
}

func (l *FooterLink) Visible() bool { return l.Active }

func (l *FooterLink) SetVisible(v bool) { l.Active = v }

func (l *FooterLink) VisibilityColumn() string { return "active" }

func (l *FooterLink) SortKey() int { return l.SortOrder }

// SocialLink points at a parish account on an external platform.
type SocialLink struct {
	bun.BaseModel `bun:"table:social_links,alias:sl"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Platform  string    `bun:"platform,notnull" json:"platform"`
	URL       string    `bun:"url,notnull" json:"url"`
	Icon      string    `bun:"icon" json:"icon"`
	Active    bool      `bun:"active" json:"active"`
	SortOrder int       `bun:"sort_order" json:"sort_order"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (l *SocialLink) RecordID() uuid.UUID { return l.ID }

func (l *SocialLink) SetRecordID(id uuid.UUID) { l.ID = id }

func (l *SocialLink) CreatedTime() time.Time { return l.CreatedAt }

func (l *SocialLink) Stamp(created, updated time.Time) {
	l.CreatedAt = created
	l.UpdatedAt = updated
}

func (l *SocialLink) Visible() bool { return l.Active }

func (l *SocialLink) SetVisible(v bool) { l.Active = v }

func (l *SocialLink) VisibilityColumn() string { return "active" }

func (l *SocialLink) SortKey() int { return l.SortOrder }

func cloneFooter(l *FooterLink) *FooterLink {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

func cloneSocial(l *SocialLink) *SocialLink {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

type FooterView struct {
	Label    string `json:"label"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
}

type SocialView struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
}

// Footer is the public footer payload.
type Footer struct {
	Links  []FooterView `json:"links"`
	Social []SocialView `json:"social"`
}

func (l *FooterLink) Localize(locale string) FooterView {
	return FooterView{
		Label:    i18n.Pick(locale, l.Label, l.LabelFR, l.LabelPL),
		URL:      l.URL,
		Category: l.Category,
	}
}

func (l *SocialLink) View() SocialView {
	return SocialView{Platform: l.Platform, URL: l.URL, Icon: l.Icon}
}
