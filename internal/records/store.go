package records

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ListOptions narrows and pages a List call. Filter carries the same
// predicate twice so SQL and in-memory stores agree.
type ListOptions[T any] struct {
	OnlyVisible bool
	Limit       int
	Offset      int
	Filter      Filter[T]
	Order       Order[T]
}

type Filter[T any] struct {
	Query func(*bun.SelectQuery) *bun.SelectQuery
	Match func(T) bool
}

// Order overrides the store's default ordering.
type Order[T any] struct {
	SQL  []string
	Less func(a, b T) bool
}

// Store is the persistence contract behind Service.
type Store[T Record] interface {
	Create(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	FindOne(ctx context.Context, column, value string) (T, error)
	List(ctx context.Context, opts ListOptions[T]) ([]T, int, error)
	// Update writes rec. When columns is non-empty only those columns change.
	Update(ctx context.Context, rec T, columns ...string) (T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
