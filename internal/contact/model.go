package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Message is a contact form submission.
type Message struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`

	ID            uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Email         string    `bun:"email,notnull" json:"email"`
	Phone         string    `bun:"phone" json:"phone"`
	Subject       string    `bun:"subject" json:"subject"`
	Body          string    `bun:"message,notnull" json:"message"`
	AttachmentURL string    `bun:"attachment_url" json:"attachment_url"`
	Locale        string    `bun:"locale" json:"locale"`
	IsRead        bool      `bun:"is_read" json:"is_read"`
	CreatedAt     time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (m *Message) RecordID() uuid.UUID { return m.ID }

func (m *Message) SetRecordID(id uuid.UUID) { m.ID = id }

func (m *Message) CreatedTime() time.Time { return m.CreatedAt }

func (m *Message) Stamp(created, updated time.Time) {
	m.CreatedAt = created
	m.UpdatedAt = updated
}

// Subscriber is a newsletter subscription, unique per email.
type Subscriber struct {
	bun.BaseModel `bun:"table:newsletter_subscribers,alias:ns"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Email     string    `bun:"email,notnull" json:"email"`
	Name      string    `bun:"name" json:"name"`
	Locale    string    `bun:"locale" json:"locale"`
	Source    string    `bun:"source" json:"source"`
	Active    bool      `bun:"active" json:"active"`
	CreatedAt time.Time `bun:"created_at,nullzero" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

func (s *Subscriber) RecordID() uuid.UUID { return s.ID }

func (s *Subscriber) SetRecordID(id uuid.UUID) { s.ID = id }

func (s *Subscriber) CreatedTime() time.Time { return s.CreatedAt }

func (s *Subscriber) Stamp(created, updated time.Time) {
	s.CreatedAt = created
	s.UpdatedAt = updated
}

func (s *Subscriber) Visible() bool { return s.Active }

func (s *Subscriber) SetVisible(v bool) { s.Active = v }

func (s *Subscriber) VisibilityColumn() string { return "active" }

// Subscription sources.
const (
	SourceNewsletter = "newsletter"
	SourceContact    = "contact"
)

func cloneMessage(m *Message) *Message {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneSubscriber(s *Subscriber) *Subscriber {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
