package session

import (
	"context"
	"testing"
	"time"

	"report_card_portal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SaveFindDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	sess := &model.Session{
		ID:        "s1",
		Token:     "tok",
		User:      model.User{ID: 1, FirstName: "Ali", Role: model.RoleAdmin},
		ExpiresAt: time.Now().Add(time.Hour),
	}

	require.NoError(t, store.Save(ctx, sess))

	found, err := store.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", found.Token)
	assert.Equal(t, "Ali", found.User.FirstName)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Find(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStore_CorruptRecord(t *testing.T) {
	store := NewMemoryStore()
	store.records["bad"] = memoryRecord{data: []byte("{not json")}

	_, err := store.Find(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrCorruptSession)
}

func TestMemoryStore_PurgeExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, store.Save(ctx, &model.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Save(ctx, &model.Session{ID: "new", ExpiresAt: now.Add(time.Minute)}))

	n, err := store.PurgeExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Find(ctx, "old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.Find(ctx, "new")
	assert.NoError(t, err)
}
