package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
)

func TestCollectionPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Expense]()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Insert(ctx, domain.Expense{ID: fmt.Sprintf("e%d", i), UserID: "u1"}))
	}
	require.NoError(t, c.Insert(ctx, domain.Expense{ID: "other", UserID: "u2"}))

	got, err := c.Find(ctx, domain.Query{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i, e := range got {
		assert.Equal(t, fmt.Sprintf("e%d", i), e.ID)
	}
}

func TestCollectionFindFiltersAndCaps(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Income]()
	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.Insert(ctx, domain.Income{ID: "old", UserID: "u1", ProjectID: "p1", Date: base.AddDate(0, -1, 0)}))
	require.NoError(t, c.Insert(ctx, domain.Income{ID: "new", UserID: "u1", ProjectID: "p1", Date: base}))
	require.NoError(t, c.Insert(ctx, domain.Income{ID: "p2", UserID: "u1", ProjectID: "p2", Date: base}))

	got, err := c.Find(ctx, domain.Query{OwnerID: "u1", ProjectID: "p1", Since: base})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)

	got, err = c.Find(ctx, domain.Query{OwnerID: "u1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCollectionFindCapsAtMaxListSize(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Worker]()
	for i := 0; i < domain.MaxListSize+5; i++ {
		require.NoError(t, c.Insert(ctx, domain.Worker{ID: fmt.Sprintf("w%d", i), UserID: "u1"}))
	}
	got, err := c.Find(ctx, domain.Query{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, got, domain.MaxListSize)
}

func TestCollectionGetAndReplace(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.Project]()
	require.NoError(t, c.Insert(ctx, domain.Project{ID: "p1", UserID: "u1", Name: "villa"}))

	_, err := c.Get(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, c.Replace(ctx, domain.Project{ID: "p1", UserID: "u1", Name: "tower"}))
	p, err := c.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "tower", p.Name)

	err = c.Replace(ctx, domain.Project{ID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = c.Insert(ctx, domain.Project{ID: "p1"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCollectionConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[domain.WorkLog]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Insert(ctx, domain.WorkLog{ID: fmt.Sprintf("l%d", i), UserID: "u1"})
		}(i)
	}
	wg.Wait()

	got, err := c.Find(ctx, domain.Query{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, got, 50)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	u := NewUsers()
	require.NoError(t, u.Create(ctx, &domain.User{ID: "u1", Username: "ahmad", Email: "ahmad@example.com"}))
	require.NoError(t, u.Create(ctx, &domain.User{ID: "u2", Username: "sami"}))

	assert.True(t, errors.Is(u.Create(ctx, &domain.User{ID: "u3", Username: "ahmad"}), domain.ErrConflict))
	assert.True(t, errors.Is(u.Create(ctx, &domain.User{ID: "u3", Username: "x", Email: "ahmad@example.com"}), domain.ErrConflict))

	byEmail, err := u.GetByLogin(ctx, "ahmad@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byName, err := u.GetByLogin(ctx, "sami")
	require.NoError(t, err)
	assert.Equal(t, "u2", byName.ID)

	_, err = u.GetByLogin(ctx, "nobody")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	taken, err := u.Exists(ctx, "new", "")
	require.NoError(t, err)
	assert.False(t, taken)
}
