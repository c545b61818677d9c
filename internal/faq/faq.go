package faq

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/i18n"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/internal/richtext"
)

const Resource = "faq"

// Entry is a question with a rich-text answer.
type Entry struct {
	bun.BaseModel `bun:"table:faq_entries,alias:f"`

	ID         uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Question   string    `bun:"question,notnull" json:"question"`
	QuestionFR string    `bun:"question_fr" json:"question_fr"`
	QuestionPL string    `bun:"question_pl" json:"question_pl"`
	Answer     string    `bun:"answer,notnull" json:"answer"`
	AnswerFR   string    `bun:"answer_fr" json:"answer_fr"`
	AnswerPL   string    `bun:"answer_pl" json:"answer_pl"`
	Category   string    `bun:"category" json:"category"`
	Active     bool      `bun:"active" json:"active"`
	SortOrder  int       `bun:"sort_order" json:"sort_order"`
	CreatedAt  time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (e *Entry) RecordID() uuid.UUID { return e.ID }

func (e *Entry) SetRecordID(id uuid.UUID) { e.ID = id }

func (e *Entry) CreatedTime() time.Time { return e.CreatedAt }

func (e *Entry) Stamp(created, updated time.Time) {
	e.CreatedAt = created
	e.UpdatedAt = updated
}

func (e *Entry) Visible() bool { return e.Active }

func (e *Entry) SetVisible(v bool) { e.Active = v }

func (e *Entry) VisibilityColumn() string { return "active" }

func (e *Entry) SortKey() int { return e.SortOrder }

func clone(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

type View struct {
	ID       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Category string    `json:"category,omitempty"`
}

func (e *Entry) Localize(locale string) View {
	return View{
		ID:       e.ID,
		Question: i18n.Pick(locale, e.Question, e.QuestionFR, e.QuestionPL),
		Answer:   i18n.Pick(locale, e.Answer, e.AnswerFR, e.AnswerPL),
		Category: e.Category,
	}
}

func NewBunStore(db *bun.DB, caching records.Caching) *records.BunStore[*Entry] {
	return records.NewBunStore(db, records.BunConfig[*Entry]{
		Resource:  Resource,
		NewRecord: func() *Entry { return &Entry{} },
		Caching:   caching,
	})
}

func NewMemoryStore() *records.MemoryStore[*Entry] {
	return records.NewMemoryStore(Resource, clone)
}

type Service struct {
	*records.Service[*Entry]
}

func NewService(store records.Store[*Entry], sanitizer *richtext.Sanitizer, opts ...records.ServiceOption) *Service {
	if sanitizer == nil {
		sanitizer = richtext.NewSanitizer()
	}
	return &Service{
		Service: records.NewService(store, records.Descriptor[*Entry]{
			Resource: Resource,
			Prepare: func(e *Entry, _ time.Time) {
				e.Question = strings.TrimSpace(e.Question)
				e.QuestionFR = strings.TrimSpace(e.QuestionFR)
				e.QuestionPL = strings.TrimSpace(e.QuestionPL)
				e.Category = strings.TrimSpace(e.Category)
				e.Answer = strings.TrimSpace(sanitizer.Sanitize(e.Answer))
				e.AnswerFR = sanitizer.Sanitize(e.AnswerFR)
				e.AnswerPL = sanitizer.Sanitize(e.AnswerPL)
			},
			Validate: func(e *Entry) error {
				return validation.ValidateStruct(e,
					validation.Field(&e.Question, validation.Required),
					validation.Field(&e.Answer, validation.Required),
				)
			},
		}, opts...),
	}
}

// Public returns active entries in display order.
func (s *Service) Public(ctx context.Context, locale string) ([]View, error) {
	rows, _, err := s.List(ctx, records.ListOptions[*Entry]{OnlyVisible: true})
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(rows))
	for _, e := range rows {
		views = append(views, e.Localize(locale))
	}
	return views, nil
}
