// Package memory is an in-process record store. It is safe for concurrent use
// and is meant for tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
)

// Collection keeps records in insertion order
type Collection[T domain.Record] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T
}

var _ domain.Collection[domain.Project] = (*Collection[domain.Project])(nil)

// NewCollection creates an empty collection
func NewCollection[T domain.Record]() *Collection[T] {
	return &Collection[T]{items: make(map[string]T)}
}

func (c *Collection[T]) Insert(_ context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := rec.RecordID()
	if id == "" {
		return fmt.Errorf("insert record: empty id")
	}
	if _, exists := c.items[id]; exists {
		return fmt.Errorf("insert record %s: %w", id, domain.ErrConflict)
	}
	c.items[id] = rec
	c.order = append(c.order, id)
	return nil
}

func (c *Collection[T]) Find(_ context.Context, q domain.Query) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	limit := q.Cap()
	out := make([]T, 0)
	for _, id := range c.order {
		rec := c.items[id]
		if !q.Matches(rec) {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(_ context.Context, id string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rec, ok := c.items[id]
	if !ok {
		var zero T
		return zero, domain.ErrNotFound
	}
	return rec, nil
}

func (c *Collection[T]) Replace(_ context.Context, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[rec.RecordID()]; !ok {
		return domain.ErrNotFound
	}
	c.items[rec.RecordID()] = rec
	return nil
}

// Users is an in-memory domain.UserRepository
type Users struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string
	byEmail    map[string]string
}

var _ domain.UserRepository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{
		byID:       map[string]*domain.User{},
		byUsername: map[string]string{},
		byEmail:    map[string]string{},
	}
}

func (u *Users) Create(_ context.Context, user *domain.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.takenLocked(user.Username, user.Email) {
		return domain.ErrConflict
	}
	cp := *user
	u.byID[user.ID] = &cp
	u.byUsername[user.Username] = user.ID
	if user.Email != "" {
		u.byEmail[user.Email] = user.ID
	}
	return nil
}

func (u *Users) GetByID(_ context.Context, id string) (*domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Users) GetByLogin(_ context.Context, identifier string) (*domain.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	id, ok := u.byUsername[identifier]
	if !ok {
		id, ok = u.byEmail[identifier]
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u.byID[id]
	return &cp, nil
}

func (u *Users) Exists(_ context.Context, username, email string) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.takenLocked(username, email), nil
}

func (u *Users) takenLocked(username, email string) bool {
	if _, ok := u.byUsername[username]; ok {
		return true
	}
	if email == "" {
		return false
	}
	_, ok := u.byEmail[email]
	return ok
}

// NewStore returns a domain.Store backed entirely by memory
func NewStore() domain.Store {
	return domain.Store{
		Users:    NewUsers(),
		Projects: NewCollection[domain.Project](),
		Workers:  NewCollection[domain.Worker](),
		Expenses: NewCollection[domain.Expense](),
		Incomes:  NewCollection[domain.Income](),
		WorkLogs: NewCollection[domain.WorkLog](),
	}
}
