package records

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps records in a map. It backs service tests and the seed
// dry-run.
type MemoryStore[T Record] struct {
	mu       sync.RWMutex
	resource string
	rows     map[uuid.UUID]T
	clone    func(T) T
	less     func(a, b T) bool
	lookups  map[string]func(T) string
	unique   []string
}

// MemoryOption configures a MemoryStore.
type MemoryOption[T Record] func(*MemoryStore[T])

// WithLookup registers an accessor so FindOne can search column.
func WithLookup[T Record](column string, get func(T) string) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.lookups[column] = get
	}
}

// WithUnique makes Create and Update reject duplicate values of a column
// registered with WithLookup.
func WithUnique[T Record](column string, get func(T) string) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.lookups[column] = get
		s.unique = append(s.unique, column)
	}
}

// WithLess sets the default ordering.
func WithLess[T Record](less func(a, b T) bool) MemoryOption[T] {
	return func(s *MemoryStore[T]) {
		s.less = less
	}
}

func NewMemoryStore[T Record](resource string, clone func(T) T, opts ...MemoryOption[T]) *MemoryStore[T] {
	s := &MemoryStore[T]{
		resource: resource,
		rows:     map[uuid.UUID]T{},
		clone:    clone,
		less:     BySortOrder[T],
		lookups:  map[string]func(T) string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store[Record] = (*MemoryStore[Record])(nil)

func (s *MemoryStore[T]) Create(_ context.Context, rec T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if rec.RecordID() == uuid.Nil {
		rec.SetRecordID(uuid.New())
	}
	if _, exists := s.rows[rec.RecordID()]; exists {
		return zero, &ConflictError{Resource: s.resource, Detail: "duplicate id"}
	}
	if err := s.checkUnique(rec); err != nil {
		return zero, err
	}
	s.rows[rec.RecordID()] = s.clone(rec)
	return s.clone(rec), nil
}

func (s *MemoryStore[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rows[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Resource: s.resource, Key: id.String()}
	}
	return s.clone(rec), nil
}

func (s *MemoryStore[T]) FindOne(_ context.Context, column, value string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var zero T
	get, ok := s.lookups[column]
	if ok {
		for _, rec := range s.rows {
			if get(rec) == value {
				return s.clone(rec), nil
			}
		}
	}
	return zero, &NotFoundError{Resource: s.resource, Key: value}
}

func (s *MemoryStore[T]) List(_ context.Context, opts ListOptions[T]) ([]T, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.rows))
	for _, rec := range s.rows {
		if opts.OnlyVisible && !IsVisible(rec) {
			continue
		}
		if opts.Filter.Match != nil && !opts.Filter.Match(rec) {
			continue
		}
		out = append(out, s.clone(rec))
	}
	less := s.less
	if opts.Order.Less != nil {
		less = opts.Order.Less
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })

	total := len(out)
	if opts.Offset > 0 {
		out = out[min(opts.Offset, len(out)):]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, total, nil
}

// Update replaces the stored row. The columns hint is ignored because callers
// always pass a full record read from the store.
func (s *MemoryStore[T]) Update(_ context.Context, rec T, _ ...string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if _, ok := s.rows[rec.RecordID()]; !ok {
		return zero, &NotFoundError{Resource: s.resource, Key: rec.RecordID().String()}
	}
	if err := s.checkUnique(rec); err != nil {
		return zero, err
	}
	s.rows[rec.RecordID()] = s.clone(rec)
	return s.clone(rec), nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return &NotFoundError{Resource: s.resource, Key: id.String()}
	}
	delete(s.rows, id)
	return nil
}

// Len returns the number of stored rows.
func (s *MemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MemoryStore[T]) checkUnique(rec T) error {
	for _, column := range s.unique {
		get := s.lookups[column]
		value := get(rec)
		if value == "" {
			continue
		}
		for id, other := range s.rows {
			if id != rec.RecordID() && get(other) == value {
				return &ConflictError{Resource: s.resource, Detail: column + " already exists"}
			}
		}
	}
	return nil
}
