package domain

import (
	"context"
	"time"
)

// MaxListSize bounds every listing and every record set read for a report.
// Callers past the bound observe silent truncation.
const MaxListSize = 1000

// Record is implemented by every owner-scoped document.
type Record interface {
	RecordID() string
	OwnerID() string
	// ProjectRef is the project the record belongs to, or "" when it has none.
	ProjectRef() string
	// RecordedAt is the timestamp used for period filtering.
	RecordedAt() time.Time
}

// Query selects records of one owner. Zero values of ProjectID and Since
// disable the respective restriction.
type Query struct {
	OwnerID   string
	ProjectID string
	Since     time.Time
	Limit     int
}

// Cap returns the effective result limit.
func (q Query) Cap() int {
	if q.Limit <= 0 || q.Limit > MaxListSize {
		return MaxListSize
	}
	return q.Limit
}

// Matches reports whether r satisfies the query. Stores that cannot push the
// filter down to the backend use it to filter in process.
func (q Query) Matches(r Record) bool {
	if r.OwnerID() != q.OwnerID {
		return false
	}
	if q.ProjectID != "" && r.ProjectRef() != q.ProjectID {
		return false
	}
	if !q.Since.IsZero() && r.RecordedAt().Before(q.Since) {
		return false
	}
	return true
}

// Collection is the store contract for one kind of record. Find returns
// records in the store's natural (insertion) order.
type Collection[T Record] interface {
	Insert(ctx context.Context, rec T) error
	Find(ctx context.Context, q Query) ([]T, error)
	// Get returns ErrNotFound when no record has the id.
	Get(ctx context.Context, id string) (T, error)
	// Replace overwrites the stored record with the same id, or returns ErrNotFound.
	Replace(ctx context.Context, rec T) error
}

// Store groups the six collections. Services receive it by value so tests can
// substitute the in-memory implementation.
type Store struct {
	Users    UserRepository
	Projects Collection[Project]
	Workers  Collection[Worker]
	Expenses Collection[Expense]
	Incomes  Collection[Income]
	WorkLogs Collection[WorkLog]
}
