package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/ignatzorin/extrasite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/extrasite-backend/internal/models"
)

func TestMemoryStore_TTL(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), time.Minute))
	got, ok, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(2 * time.Minute)
	_, ok, _ = store.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestMemoryStore_DeletePrefix(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()
	ctx := context.Background()

	_ = store.Set(ctx, "board:a", []byte("1"), time.Minute)
	_ = store.Set(ctx, "board:b", []byte("2"), time.Minute)
	_ = store.Set(ctx, "other", []byte("3"), time.Minute)

	require.NoError(t, store.DeletePrefix(ctx, BoardPrefix))

	_, ok, _ := store.Get(ctx, "board:a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "other")
	assert.True(t, ok)
}

func TestGetOrSet_ComputesOnce(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	calls := 0
	fn := func() ([]string, error) {
		calls++
		return []string{"garcom"}, nil
	}

	first, err := GetOrSet(context.Background(), store, "board:x", time.Minute, fn)
	require.NoError(t, err)
	second, err := GetOrSet(context.Background(), store, "board:x", time.Minute, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestGetOrSet_ErrorNotCached(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	boom := errors.New("db down")
	_, err := GetOrSet(context.Background(), store, "board:y", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, ok, _ := store.Get(context.Background(), "board:y")
	assert.False(t, ok)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "board:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "board:1", []byte(`[1]`), time.Minute))
	require.NoError(t, store.Set(ctx, "board:2", []byte(`[2]`), time.Minute))
	require.NoError(t, store.Set(ctx, "settings", []byte(`{}`), time.Minute))

	got, ok, err := store.Get(ctx, "board:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, store.DeletePrefix(ctx, BoardPrefix))
	assert.False(t, mr.Exists("board:1"))
	assert.False(t, mr.Exists("board:2"))
	assert.True(t, mr.Exists("settings"))

	mr.FastForward(2 * time.Minute)
	_, ok, _ = store.Get(ctx, "settings")
	assert.False(t, ok)
}

func TestBoardKey(t *testing.T) {
	category := vo.CategoryWaiter
	city := " Medianeira "
	from := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "board:2026-10-19:garcom:medianeira:20:0",
		BoardKey(models.JobBoardFilter{Category: &category, City: &city, From: from, Limit: 20}))
	assert.Equal(t, "board:2026-10-19:*:*:10:10",
		BoardKey(models.JobBoardFilter{From: from, Limit: 10, Offset: 10}))
}
