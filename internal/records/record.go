package records

import (
	"time"

	"github.com/google/uuid"
)

// Record is implemented by every table-backed model.
type Record interface {
	RecordID() uuid.UUID
	SetRecordID(uuid.UUID)
	CreatedTime() time.Time
	Stamp(created, updated time.Time)
}

// Visible is implemented by models with a published or active flag.
type Visible interface {
	Visible() bool
	SetVisible(bool)
	VisibilityColumn() string
}

// Sortable is implemented by models ordered by sort_order.
type Sortable interface {
	SortKey() int
}

// IsVisible reports the visibility of rec, treating models without a flag as
// always visible.
func IsVisible(rec any) bool {
	v, ok := rec.(Visible)
	return !ok || v.Visible()
}

// BySortOrder orders by sort_order ascending, then newest first.
func BySortOrder[T Record](a, b T) bool {
	as, aok := any(a).(Sortable)
	bs, bok := any(b).(Sortable)
	if aok && bok && as.SortKey() != bs.SortKey() {
		return as.SortKey() < bs.SortKey()
	}
	return a.CreatedTime().After(b.CreatedTime())
}

// NewestFirst orders by created_at descending.
func NewestFirst[T Record](a, b T) bool {
	return a.CreatedTime().After(b.CreatedTime())
}

// DefaultOrder is the SQL equivalent of BySortOrder.
var DefaultOrder = []string{"?TableAlias.sort_order ASC", "?TableAlias.created_at DESC"}

// NewestOrder is the SQL equivalent of NewestFirst.
var NewestOrder = []string{"?TableAlias.created_at DESC"}
