package records

import (
	"context"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type entry struct {
	bun.BaseModel `bun:"table:faq_entries,alias:f"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Question  string    `bun:"question,notnull"`
	Answer    string    `bun:"answer,notnull"`
	Category  string    `bun:"category"`
	Active    bool      `bun:"active"`
	SortOrder int       `bun:"sort_order"`
	CreatedAt time.Time `bun:"created_at,nullzero"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}

func (e *entry) RecordID() uuid.UUID { return e.ID }
func (e *entry) SetRecordID(id uuid.UUID) { e.ID = id }
func (e *entry) CreatedTime() time.Time { return e.CreatedAt }
func (e *entry) Visible() bool { return e.Active }
func (e *entry) SetVisible(v bool) { e.Active = v }
func (e *entry) VisibilityColumn() string { return "active" }
func (e *entry) SortKey() int { return e.SortOrder }
func (e *entry) Stamp(created, updated time.Time) {
	e.CreatedAt = created
	e.UpdatedAt = updated
}

func cloneEntry(e *entry) *entry {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

var entryDescriptor = Descriptor[*entry]{
	Resource: "faq",
	Validate: func(e *entry) error {
		return validation.ValidateStruct(e,
			validation.Field(&e.Question, validation.Required),
			validation.Field(&e.Answer, validation.Required),
		)
	},
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type activityEntry struct {
	verb       string
	objectType string
	objectID   uuid.UUID
	data       map[string]any
}

type recordingActivity struct {
	entries []activityEntry
}

func (r *recordingActivity) RecordActivity(_ context.Context, verb, objectType string, objectID uuid.UUID, data map[string]any) {
	r.entries = append(r.entries, activityEntry{verb: verb, objectType: objectType, objectID: objectID, data: data})
}

// countingStore wraps a Store and counts writes.
type countingStore struct {
	Store[*entry]
	writes int
}

func (s *countingStore) Create(ctx context.Context, rec *entry) (*entry, error) {
	s.writes++
	return s.Store.Create(ctx, rec)
}

func (s *countingStore) Update(ctx context.Context, rec *entry, columns ...string) (*entry, error) {
	s.writes++
	return s.Store.Update(ctx, rec, columns...)
}

func (s *countingStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.writes++
	return s.Store.Delete(ctx, id)
}
