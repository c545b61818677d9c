package audit

import (
	"context"
	"maps"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/internal/permissions"
	"github.com/goliatone/go-parish/internal/records"
	"github.com/goliatone/go-parish/pkg/activity"
	"github.com/goliatone/go-parish/pkg/activity/usersink"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

const Resource = "activity"

// Channels tell admin mutations apart from public submissions.
const (
	ChannelAdmin  = "admin"
	ChannelPublic = "public"
)

// Entry is one row of the activity log.
type Entry struct {
	bun.BaseModel `bun:"table:activity_log,alias:al"`

	ID         uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	ActorID    string         `bun:"actor_id,notnull" json:"actor_id"`
	Verb       string         `bun:"verb,notnull" json:"verb"`
	ObjectType string         `bun:"object_type,notnull" json:"object_type"`
	ObjectID   string         `bun:"object_id,notnull" json:"object_id"`
	Channel    string         `bun:"channel" json:"channel"`
	Data       map[string]any `bun:"data" json:"data,omitempty"`
	OccurredAt time.Time      `bun:"occurred_at,nullzero" json:"occurred_at"`
}

func (e *Entry) RecordID() uuid.UUID { return e.ID }

func (e *Entry) SetRecordID(id uuid.UUID) { e.ID = id }

func (e *Entry) CreatedTime() time.Time { return e.OccurredAt }

func (e *Entry) Stamp(created, _ time.Time) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = created
	}
}

func cloneEntry(e *Entry) *Entry {
	if e == nil {
		return nil
	}
	c := *e
	c.Data = maps.Clone(e.Data)
	return &c
}

func NewBunStore(db *bun.DB) *records.BunStore[*Entry] {
	return records.NewBunStore(db, records.BunConfig[*Entry]{
		Resource:  Resource,
		NewRecord: func() *Entry { return &Entry{} },
		Order:     []string{"?TableAlias.occurred_at DESC"},
	})
}

func NewMemoryStore() *records.MemoryStore[*Entry] {
	return records.NewMemoryStore(Resource, cloneEntry, records.WithLess(records.NewestFirst[*Entry]))
}

// Log persists go-users activity records and lists them for the back office.
type Log struct {
	store records.Store[*Entry]
	newID func() uuid.UUID
	now   func() time.Time
}

var _ interfaces.ActivitySink = (*Log)(nil)

func NewLog(store records.Store[*Entry]) *Log {
	return &Log{store: store, newID: uuid.New, now: time.Now}
}

// Log stores record. A missing actor is written as the nil UUID.
func (l *Log) Log(ctx context.Context, record interfaces.ActivityRecord) error {
	occurred := record.OccurredAt
	if occurred.IsZero() {
		occurred = l.now()
	}
	_, err := l.store.Create(ctx, &Entry{
		ID:         l.newID(),
		ActorID:    record.ActorID.String(),
		Verb:       record.Verb,
		ObjectType: record.ObjectType,
		ObjectID:   record.ObjectID,
		Channel:    record.Channel,
		Data:       record.Data,
		OccurredAt: occurred.UTC(),
	})
	return err
}

// Recent lists entries newest first.
func (l *Log) Recent(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	return l.store.List(ctx, records.ListOptions[*Entry]{Limit: limit, Offset: offset})
}

// Recorder turns service mutations into activity events. The actor is the
// principal on the request context.
type Recorder struct {
	hook   activity.Hook
	logger interfaces.Logger
	now    func() time.Time
}

var _ records.ActivityRecorder = (*Recorder)(nil)

// NewRecorder builds a recorder writing to log through the go-users sink,
// plus any extra hooks.
func NewRecorder(log *Log, logger interfaces.Logger, extra ...activity.Hook) *Recorder {
	hooks := activity.Hooks{usersink.Hook{Sink: log}}
	hooks = append(hooks, extra...)
	return &Recorder{hook: hooks, logger: logging.Ensure(logger), now: time.Now}
}

// RecordActivity never fails the mutation; sink errors are logged.
func (r *Recorder) RecordActivity(ctx context.Context, verb, objectType string, objectID uuid.UUID, data map[string]any) {
	event := activity.Event{
		Verb:       verb,
		ObjectType: objectType,
		ObjectID:   objectID.String(),
		Channel:    ChannelPublic,
		Metadata:   data,
		OccurredAt: r.now().UTC(),
	}
	if principal, ok := permissions.PrincipalFromContext(ctx); ok {
		event.ActorID = principal.UserID.String()
		event.UserID = principal.UserID.String()
		event.Channel = ChannelAdmin
	}
	if err := r.hook.Notify(ctx, event); err != nil {
		r.logger.Warn("activity.record_failed", "verb", verb, "object_type", objectType, "error", err)
	}
}
