package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
)

// BunConfig describes how a model maps onto its table.
type BunConfig[T Record] struct {
	Resource   string
	NewRecord  func() T
	Identifier string
	// IdentifierValue returns the value of the Identifier column.
	IdentifierValue func(T) string
	Order           []string
	Caching         Caching
}

// Caching enables go-repository-cache for reads. The zero value disables it.
type Caching struct {
	Service    cache.CacheService
	Serializer cache.KeySerializer
}

func (c Caching) enabled() bool {
	return c.Service != nil && c.Serializer != nil
}

// BunStore implements Store on go-repository-bun, optionally behind
// go-repository-cache. Only lookups by ID go through the cache: criteria
// built from query closures do not serialize into distinct cache keys, so
// FindOne and List always read from the base repository.
type BunStore[T Record] struct {
	db        *bun.DB
	repo      repository.Repository[T]
	base      repository.Repository[T]
	resource  string
	newRecord func() T
	order     []string
}

var _ Store[Record] = (*BunStore[Record])(nil)

func NewBunStore[T Record](db *bun.DB, cfg BunConfig[T]) *BunStore[T] {
	identifier := cfg.Identifier
	identifierValue := cfg.IdentifierValue
	if identifier == "" || identifierValue == nil {
		identifier = "id"
		identifierValue = func(rec T) string { return rec.RecordID().String() }
	}

	var base repository.Repository[T] = repository.MustNewRepository(db, repository.ModelHandlers[T]{
		NewRecord: cfg.NewRecord,
		GetID: func(rec T) uuid.UUID {
			return rec.RecordID()
		},
		SetID: func(rec T, id uuid.UUID) {
			rec.SetRecordID(id)
		},
		GetIdentifier: func() string {
			return identifier
		},
		GetIdentifierValue: identifierValue,
	})

	store := &BunStore[T]{
		db:        db,
		base:      base,
		resource:  cfg.Resource,
		newRecord: cfg.NewRecord,
		order:     cfg.Order,
	}
	if len(store.order) == 0 {
		store.order = DefaultOrder
	}
	if cfg.Caching.enabled() {
		store.repo = repositorycache.New(base, cfg.Caching.Service, cfg.Caching.Serializer)
	}
	if store.repo == nil {
		store.repo = base
	}
	return store
}

// DB exposes the underlying handle for package-specific queries.
func (s *BunStore[T]) DB() *bun.DB {
	return s.db
}

func (s *BunStore[T]) Create(ctx context.Context, rec T) (T, error) {
	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, s.resource, rec.RecordID().String())
	}
	return created, nil
}

func (s *BunStore[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	rec, err := s.repo.GetByID(ctx, id.String())
	if err != nil {
		var zero T
		return zero, mapRepositoryError(err, s.resource, id.String())
	}
	return rec, nil
}

func (s *BunStore[T]) FindOne(ctx context.Context, column, value string) (T, error) {
	var zero T
	rows, _, err := s.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value).Limit(1)
	}))
	if err != nil {
		return zero, mapRepositoryError(err, s.resource, value)
	}
	if len(rows) == 0 {
		return zero, &NotFoundError{Resource: s.resource, Key: value}
	}
	return rows[0], nil
}

func (s *BunStore[T]) List(ctx context.Context, opts ListOptions[T]) ([]T, int, error) {
	order := s.order
	if len(opts.Order.SQL) > 0 {
		order = opts.Order.SQL
	}
	var visibility string
	if opts.OnlyVisible {
		if v, ok := any(s.new()).(Visible); ok {
			visibility = v.VisibilityColumn()
		}
	}

	rows, total, err := s.base.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if visibility != "" {
			q = q.Where("?TableAlias.? = ?", bun.Ident(visibility), true)
		}
		if opts.Filter.Query != nil {
			q = opts.Filter.Query(q)
		}
		for _, expr := range order {
			q = q.OrderExpr(expr)
		}
		if opts.Limit > 0 {
			q = q.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			q = q.Offset(opts.Offset)
		}
		return q
	}))
	if err != nil {
		return nil, 0, fmt.Errorf("%s repository: %w", s.resource, err)
	}
	return rows, total, nil
}

func (s *BunStore[T]) Update(ctx context.Context, rec T, columns ...string) (T, error) {
	var zero T
	id := rec.RecordID().String()
	var (
		updated T
		err     error
	)
	if len(columns) > 0 {
		updated, err = s.repo.Update(ctx, rec, repository.UpdateByID(id), repository.UpdateColumns(columns...))
	} else {
		updated, err = s.repo.Update(ctx, rec, repository.UpdateByID(id))
	}
	if err != nil {
		return zero, mapRepositoryError(err, s.resource, id)
	}
	return updated, nil
}

func (s *BunStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	rec := s.new()
	rec.SetRecordID(id)
	if err := s.repo.Delete(ctx, rec); err != nil {
		return mapRepositoryError(err, s.resource, id.String())
	}
	return nil
}

func (s *BunStore[T]) new() T {
	return s.newRecord()
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	if IsUniqueViolation(err) {
		return &ConflictError{Resource: resource, Detail: "duplicate value"}
	}
	return fmt.Errorf("%s repository: %w", resource, err)
}

// IsUniqueViolation recognises unique constraint failures from sqlite and
// postgres.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
