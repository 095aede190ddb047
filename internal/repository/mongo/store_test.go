package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/sitebook/internal/domain"
	infra "github.com/aryan0dhankhar/sitebook/internal/infrastructure/mongo"
)

func newTestStore(t *testing.T) domain.Store {
	t.Helper()
	url := os.Getenv("MONGO_TEST_URL")
	if url == "" {
		t.Skip("MONGO_TEST_URL not set")
	}
	ctx := context.Background()
	dbName := "sitebook_test_" + uuid.NewString()[:8]
	db, cleanup, err := infra.Connect(ctx, infra.Config{URL: url, Database: dbName}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		cleanup()
	})

	store, err := NewStore(ctx, db)
	require.NoError(t, err)
	return store
}

func TestMongoCollection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.WorkLogs.Insert(ctx, domain.WorkLog{
			ID: fmt.Sprintf("l%d", i), UserID: "u1", ProjectID: "p1", WorkSection: "walls", Date: day,
		}))
	}
	require.NoError(t, store.WorkLogs.Insert(ctx, domain.WorkLog{ID: "old", UserID: "u1", ProjectID: "p1", Date: day.AddDate(-1, 0, 0)}))

	err := store.WorkLogs.Insert(ctx, domain.WorkLog{ID: "l0", UserID: "u1"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	got, err := store.WorkLogs.Find(ctx, domain.Query{OwnerID: "u1", ProjectID: "p1", Since: day})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "l0", got[0].ID)

	_, err = store.WorkLogs.Get(ctx, "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMongoProjectReplace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Projects.Insert(ctx, domain.Project{ID: "p1", UserID: "u1", Name: "a", Status: domain.StatusActive}))
	require.NoError(t, store.Projects.Replace(ctx, domain.Project{ID: "p1", UserID: "u1", Name: "b", Status: domain.StatusCancelled}))

	p, err := store.Projects.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "b", p.Name)
	assert.Equal(t, domain.StatusCancelled, p.Status)

	err = store.Projects.Replace(ctx, domain.Project{ID: "p9"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMongoUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Users.Create(ctx, &domain.User{ID: "u1", Username: "lina", Email: "lina@example.com"}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{ID: "u2", Username: "noemail"}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{ID: "u3", Username: "noemail2"}))

	err := store.Users.Create(ctx, &domain.User{ID: "u4", Username: "lina"})
	assert.True(t, errors.Is(err, domain.ErrConflict))

	u, err := store.Users.GetByLogin(ctx, "lina@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	taken, err := store.Users.Exists(ctx, "someone", "lina@example.com")
	require.NoError(t, err)
	assert.True(t, taken)
}
