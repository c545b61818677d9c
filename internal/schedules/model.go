package schedules

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
)

// Schedule kinds.
const (
	KindMass       = "mass"
	KindConfession = "confession"
	KindAdoration  = "adoration"
	KindEvent      = "event"
)

var Kinds = []string{KindMass, KindConfession, KindAdoration, KindEvent}

// Schedule is either a weekly slot (DayOfWeek set, Sunday is 0) or a one-off
// event (EventDate set, YYYY-MM-DD).
type Schedule struct {
	bun.BaseModel `bun:"table:schedules,alias:s"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Kind          string    `bun:"kind,notnull" json:"kind"`
	Title         string    `bun:"title" json:"title"`
	TitleFR       string    `bun:"title_fr" json:"title_fr"`
	TitlePL       string    `bun:"title_pl" json:"title_pl"`
	Description   string    `bun:"description" json:"description"`
	DescriptionFR string    `bun:"description_fr" json:"description_fr"`
	DescriptionPL string    `bun:"description_pl" json:"description_pl"`
	DayOfWeek     *int      `bun:"day_of_week" json:"day_of_week"`
	EventDate     *string   `bun:"event_date" json:"event_date"`
	StartTime     string    `bun:"start_time,notnull" json:"start_time"`
	Location      string    `bun:"location" json:"location"`
	Language      string    `bun:"language" json:"language"`
	Active        bool      `bun:"active" json:"active"`
	SortOrder     int       `bun:"sort_order" json:"sort_order"`
	CreatedAt     time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (s *Schedule) RecordID() uuid.UUID { return s.ID }

func (s *Schedule) SetRecordID(id uuid.UUID) { s.ID = id }

func (s *Schedule) CreatedTime() time.Time { return s.CreatedAt }

func (s *Schedule) Stamp(created, updated time.Time) {
	s.CreatedAt = created
	s.UpdatedAt = updated
}

func (s *Schedule) Visible() bool { return s.Active }

func (s *Schedule) SetVisible(v bool) { s.Active = v }

func (s *Schedule) VisibilityColumn() string { return "active" }

func (s *Schedule) SortKey() int { return s.SortOrder }

// Weekly reports whether s repeats every week.
func (s *Schedule) Weekly() bool { return s.DayOfWeek != nil }

func (s *Schedule) date() string {
	if s.EventDate == nil {
		return ""
	}
	return *s.EventDate
}

func clone(s *Schedule) *Schedule {
	if s == nil {
		return nil
	}
	c := *s
	if s.DayOfWeek != nil {
		d := *s.DayOfWeek
		c.DayOfWeek = &d
	}
	if s.EventDate != nil {
		d := *s.EventDate
		c.EventDate = &d
	}
	return &c
}

// View is the public shape of a schedule entry.
type View struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DayOfWeek   *int      `json:"day_of_week,omitempty"`
	EventDate   string    `json:"event_date,omitempty"`
	StartTime   string    `json:"start_time"`
	Location    string    `json:"location,omitempty"`
	Language    string    `json:"language"`
}

func (s *Schedule) Localize(locale string) View {
	return View{
		ID:          s.ID,
		Kind:        s.Kind,
		Title:       i18n.Pick(locale, s.Title, s.TitleFR, s.TitlePL),
		Description: i18n.Pick(locale, s.Description, s.DescriptionFR, s.DescriptionPL),
		DayOfWeek:   s.DayOfWeek,
		EventDate:   s.date(),
		StartTime:   s.StartTime,
		Location:    s.Location,
		Language:    s.Language,
	}
}

// Day groups the weekly entries of one weekday.
type Day struct {
	DayOfWeek int    `json:"day_of_week"`
	Entries   []View `json:"entries"`
}

// Listing is the public schedules payload.
type Listing struct {
	Weekly   []Day  `json:"weekly"`
	Upcoming []View `json:"upcoming"`
}
