package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	"github.com/aryan0dhankhar/sitebook/internal/observability/metrics"
	"github.com/aryan0dhankhar/sitebook/internal/security"
	"github.com/aryan0dhankhar/sitebook/internal/security/audit"
)

// Options carries the collaborators shared by the record services
type Options struct {
	Logger *slog.Logger
	Audit  *audit.Logger
	Guard  *security.OwnershipGuard
	// ListLimit caps list results; values outside (0, domain.MaxListSize] mean MaxListSize.
	ListLimit int
	// Strict enables the cross-field checks that are off by default.
	Strict bool
	Now    func() time.Time
	NewID  func() string
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Guard == nil {
		o.Guard = security.NewOwnershipGuard(o.Logger, o.Audit)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// recordSet is the create/list/get path shared by every owner-scoped kind
type recordSet[T domain.Record] struct {
	coll     domain.Collection[T]
	resource security.ResourceType
	opts     Options
}

func newRecordSet[T domain.Record](coll domain.Collection[T], resource security.ResourceType, opts Options) recordSet[T] {
	return recordSet[T]{coll: coll, resource: resource, opts: opts}
}

func (r recordSet[T]) insert(ctx context.Context, rec T) (T, error) {
	if err := r.coll.Insert(ctx, rec); err != nil {
		var zero T
		r.opts.Logger.ErrorContext(ctx, "failed to store record",
			slog.String("resource", string(r.resource)),
			slog.String("user_id", rec.OwnerID()),
			slog.String("error", err.Error()),
		)
		return zero, fmt.Errorf("store %s: %w", r.resource, err)
	}
	metrics.ObserveWrite(string(r.resource), "create")
	r.opts.Audit.LogCreate(ctx, rec.OwnerID(), string(r.resource), rec.RecordID())
	return rec, nil
}

func (r recordSet[T]) replace(ctx context.Context, rec T) (T, error) {
	if err := r.coll.Replace(ctx, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("replace %s: %w", r.resource, err)
	}
	metrics.ObserveWrite(string(r.resource), "update")
	r.opts.Audit.LogUpdate(ctx, rec.OwnerID(), string(r.resource), rec.RecordID())
	return rec, nil
}

func (r recordSet[T]) list(ctx context.Context, owner string) ([]T, error) {
	recs, err := r.coll.Find(ctx, domain.Query{OwnerID: owner, Limit: r.opts.ListLimit})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.resource, err)
	}
	return recs, nil
}

// get returns domain.ErrNotFound both for missing records and for records
// owned by another user.
func (r recordSet[T]) get(ctx context.Context, owner, id string) (T, error) {
	var zero T
	rec, err := r.coll.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return zero, fmt.Errorf("%s %s: %w", r.resource, id, domain.ErrNotFound)
	}
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", r.resource, err)
	}
	perm := security.ResourcePermission{ResourceType: r.resource, ResourceID: id, OwnerID: rec.OwnerID()}
	if err := r.opts.Guard.Check(ctx, owner, perm); err != nil {
		return zero, fmt.Errorf("%s %s: %w", r.resource, id, err)
	}
	return rec, nil
}

func (r recordSet[T]) now() time.Time {
	return r.opts.Now().UTC()
}
