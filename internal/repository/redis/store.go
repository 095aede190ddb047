// Package redis stores records as JSON documents in Redis. Each collection
// keeps a per-owner list of ids to preserve insertion order.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	infra "github.com/aryan0dhankhar/sitebook/internal/infrastructure/redis"
)

const keyPrefix = "sitebook"

// mgetBatch bounds the number of keys fetched per MGET round trip
const mgetBatch = 200

// Collection is a domain.Collection backed by Redis
type Collection[T domain.Record] struct {
	client *infra.Client
	name   string
}

var _ domain.Collection[domain.Worker] = (*Collection[domain.Worker])(nil)

// NewCollection creates a collection named name, e.g. "projects"
func NewCollection[T domain.Record](client *infra.Client, name string) *Collection[T] {
	return &Collection[T]{client: client, name: name}
}

func (c *Collection[T]) docKey(id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, c.name, id)
}

func (c *Collection[T]) ownerKey(userID string) string {
	return fmt.Sprintf("%s:%s:owner:%s", keyPrefix, c.name, userID)
}

func (c *Collection[T]) Insert(ctx context.Context, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.name, err)
	}
	ok, err := c.client.InsertIndexed(ctx, c.docKey(rec.RecordID()), data, c.ownerKey(rec.OwnerID()), rec.RecordID())
	if err != nil {
		return fmt.Errorf("insert %s: %w", c.name, err)
	}
	if !ok {
		return fmt.Errorf("insert %s %s: %w", c.name, rec.RecordID(), domain.ErrConflict)
	}
	return nil
}

func (c *Collection[T]) Find(ctx context.Context, q domain.Query) ([]T, error) {
	ids, err := c.client.LRange(ctx, c.ownerKey(q.OwnerID), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.name, err)
	}

	limit := q.Cap()
	out := make([]T, 0)
	for start := 0; start < len(ids) && len(out) < limit; start += mgetBatch {
		end := start + mgetBatch
		if end > len(ids) {
			end = len(ids)
		}
		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, c.docKey(id))
		}
		vals, err := c.client.MGet(ctx, keys...)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", c.name, err)
		}
		for _, v := range vals {
			s, ok := v.(string)
			if !ok {
				continue
			}
			var rec T
			if err := json.Unmarshal([]byte(s), &rec); err != nil {
				return nil, fmt.Errorf("decode %s: %w", c.name, err)
			}
			if !q.Matches(rec) {
				continue
			}
			out = append(out, rec)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	s, err := c.client.Get(ctx, c.docKey(id))
	if infra.IsNil(err) {
		return rec, domain.ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("get %s: %w", c.name, err)
	}
	if err := json.Unmarshal([]byte(s), &rec); err != nil {
		return rec, fmt.Errorf("decode %s: %w", c.name, err)
	}
	return rec, nil
}

func (c *Collection[T]) Replace(ctx context.Context, rec T) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.name, err)
	}
	ok, err := c.client.SetXX(ctx, c.docKey(rec.RecordID()), data)
	if err != nil {
		return fmt.Errorf("replace %s: %w", c.name, err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Users is a domain.UserRepository backed by Redis. Usernames and emails are
// claimed through index keys so registration is unique across processes.
type Users struct {
	client *infra.Client
}

var _ domain.UserRepository = (*Users)(nil)

func NewUsers(client *infra.Client) *Users {
	return &Users{client: client}
}

func userKey(id string) string           { return keyPrefix + ":users:" + id }
func usernameKey(username string) string { return keyPrefix + ":users:username:" + username }
func emailKey(email string) string       { return keyPrefix + ":users:email:" + email }

func (u *Users) Create(ctx context.Context, user *domain.User) error {
	keys := []string{usernameKey(user.Username)}
	if user.Email != "" {
		keys = append(keys, emailKey(user.Email))
	}
	claimed, err := u.client.Claim(ctx, user.ID, keys...)
	if err != nil {
		return fmt.Errorf("claim user identity: %w", err)
	}
	if !claimed {
		return domain.ErrConflict
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := u.client.Set(ctx, userKey(user.ID), data); err != nil {
		_ = u.client.Delete(ctx, keys...)
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (u *Users) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s, err := u.client.Get(ctx, userKey(id))
	if infra.IsNil(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal([]byte(s), &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (u *Users) GetByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	for _, key := range []string{usernameKey(identifier), emailKey(identifier)} {
		id, err := u.client.Get(ctx, key)
		if infra.IsNil(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		return u.GetByID(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (u *Users) Exists(ctx context.Context, username, email string) (bool, error) {
	keys := []string{usernameKey(username)}
	if email != "" {
		keys = append(keys, emailKey(email))
	}
	n, err := u.client.Exists(ctx, keys...)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return n > 0, nil
}

// NewStore returns a domain.Store with every collection in Redis
func NewStore(client *infra.Client) domain.Store {
	return domain.Store{
		Users:    NewUsers(client),
		Projects: NewCollection[domain.Project](client, "projects"),
		Workers:  NewCollection[domain.Worker](client, "workers"),
		Expenses: NewCollection[domain.Expense](client, "expenses"),
		Incomes:  NewCollection[domain.Income](client, "incomes"),
		WorkLogs: NewCollection[domain.WorkLog](client, "workdays"),
	}
}
