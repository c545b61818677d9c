package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-parish/internal/logging"
	"github.com/goliatone/go-parish/pkg/interfaces"
)

// Activity verbs emitted by Service.
const (
	VerbCreated = "created"
	VerbUpdated = "updated"
	VerbDeleted = "deleted"
	VerbToggled = "toggled"
)

// ActivityRecorder receives one entry per successful mutation.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, verb, objectType string, objectID uuid.UUID, data map[string]any)
}

// Descriptor holds the resource-specific parts of the admin CRUD contract.
type Descriptor[T Record] struct {
	Resource string
	// Prepare normalises a record before validation (trim, slug, sanitize).
	Prepare func(rec T, now time.Time)
	// Validate returns ozzo-validation errors for invalid records.
	Validate func(rec T) error
	// Columns restricts updates to these columns when set.
	Columns []string
}

// Service implements list, get, save, delete and toggle for one resource.
type Service[T Record] struct {
	store    Store[T]
	desc     Descriptor[T]
	now      func() time.Time
	newID    func() uuid.UUID
	logger   interfaces.Logger
	activity ActivityRecorder
}

type serviceConfig struct {
	now      func() time.Time
	newID    func() uuid.UUID
	logger   interfaces.Logger
	activity ActivityRecorder
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

func WithClock(now func() time.Time) ServiceOption {
	return func(c *serviceConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func WithIDGenerator(fn func() uuid.UUID) ServiceOption {
	return func(c *serviceConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(c *serviceConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithActivity(recorder ActivityRecorder) ServiceOption {
	return func(c *serviceConfig) {
		c.activity = recorder
	}
}

func NewService[T Record](store Store[T], desc Descriptor[T], opts ...ServiceOption) *Service[T] {
	cfg := serviceConfig{now: time.Now, newID: uuid.New, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Service[T]{
		store:    store,
		desc:     desc,
		now:      cfg.now,
		newID:    cfg.newID,
		logger:   cfg.logger,
		activity: cfg.activity,
	}
}

// Resource returns the resource name used in errors and activity entries.
func (s *Service[T]) Resource() string {
	return s.desc.Resource
}

// Store exposes the backing store for resource-specific queries.
func (s *Service[T]) Store() Store[T] {
	return s.store
}

func (s *Service[T]) List(ctx context.Context, opts ListOptions[T]) ([]T, int, error) {
	return s.store.List(ctx, opts)
}

func (s *Service[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return s.store.Get(ctx, id)
}

// Validate runs Prepare and Validate without writing.
func (s *Service[T]) Validate(rec T) error {
	if s.desc.Prepare != nil {
		s.desc.Prepare(rec, s.now().UTC())
	}
	if s.desc.Validate == nil {
		return nil
	}
	return Invalid(s.desc.Resource, s.desc.Validate(rec))
}

// Save creates rec when it has no id and updates it otherwise. Invalid
// records are rejected before the store is touched.
func (s *Service[T]) Save(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := s.Validate(rec); err != nil {
		return zero, err
	}
	now := s.now().UTC()

	if rec.RecordID() == uuid.Nil {
		rec.SetRecordID(s.newID())
		rec.Stamp(now, now)
		created, err := s.store.Create(ctx, rec)
		if err != nil {
			return zero, err
		}
		s.logMutation(ctx, VerbCreated, created.RecordID())
		return created, nil
	}

	existing, err := s.store.Get(ctx, rec.RecordID())
	if err != nil {
		return zero, err
	}
	rec.Stamp(existing.CreatedTime(), now)
	updated, err := s.store.Update(ctx, rec, s.desc.Columns...)
	if err != nil {
		return zero, err
	}
	s.logMutation(ctx, VerbUpdated, updated.RecordID())
	return updated, nil
}

// Upsert writes rec under its own id, creating the row when it does not
// exist yet. Seeding uses it with deterministic ids.
func (s *Service[T]) Upsert(ctx context.Context, rec T) (T, error) {
	var zero T
	if rec.RecordID() == uuid.Nil {
		return s.Save(ctx, rec)
	}
	if err := s.Validate(rec); err != nil {
		return zero, err
	}
	now := s.now().UTC()
	existing, err := s.store.Get(ctx, rec.RecordID())
	switch {
	case err == nil:
		rec.Stamp(existing.CreatedTime(), now)
		return s.store.Update(ctx, rec, s.desc.Columns...)
	case IsNotFound(err):
		rec.Stamp(now, now)
		return s.store.Create(ctx, rec)
	default:
		return zero, err
	}
}

// Toggle flips the published/active flag, touching only that column and
// updated_at.
func (s *Service[T]) Toggle(ctx context.Context, id uuid.UUID) (T, error) {
	var zero T
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	v, ok := any(rec).(Visible)
	if !ok {
		return zero, ErrNotToggleable
	}
	v.SetVisible(!v.Visible())
	rec.Stamp(rec.CreatedTime(), s.now().UTC())

	updated, err := s.store.Update(ctx, rec, v.VisibilityColumn(), "updated_at")
	if err != nil {
		return zero, err
	}
	s.logMutation(ctx, VerbToggled, id, v.VisibilityColumn(), v.Visible())
	return updated, nil
}

// Delete removes a row. Missing rows report ErrNotFound.
func (s *Service[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logMutation(ctx, VerbDeleted, id)
	return nil
}

func (s *Service[T]) logMutation(ctx context.Context, verb string, id uuid.UUID, extra ...any) {
	logging.WithOperation(s.logger, verb, id.String()).WithContext(ctx).Info(s.desc.Resource+"."+verb, extra...)
	if s.activity == nil {
		return
	}
	var data map[string]any
	if len(extra) == 2 {
		if key, ok := extra[0].(string); ok {
			data = map[string]any{key: extra[1]}
		}
	}
	s.activity.RecordActivity(ctx, verb, s.desc.Resource, id, data)
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
