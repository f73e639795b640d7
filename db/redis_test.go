package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"gotest.tools/v3/assert"

	"simple-blog/models"
)

// countingStore records how often the backing store is hit.
type countingStore struct {
	*MemoryStore
	lists   int
	listErr error
}

func (s *countingStore) ListAllDescending(ctx context.Context) ([]models.Post, error) {
	s.lists++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.MemoryStore.ListAllDescending(ctx)
}

// snapshotStore runs afterSnapshot once, between reading the list and
// returning it.
type snapshotStore struct {
	*MemoryStore
	afterSnapshot func()
}

func (s *snapshotStore) ListAllDescending(ctx context.Context) ([]models.Post, error) {
	posts, err := s.MemoryStore.ListAllDescending(ctx)
	if hook := s.afterSnapshot; hook != nil {
		s.afterSnapshot = nil
		hook()
	}
	return posts, err
}

func newTestCache(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	backing := &countingStore{MemoryStore: NewMemoryStore()}
	return NewCachedStore(backing, client, time.Hour), backing, server
}

func TestCachedStoreServesListFromCache(t *testing.T) {
	ctx := context.Background()
	cache, backing, server := newTestCache(t)

	_, err := cache.Create(ctx, "Hello", "World", nil)
	assert.NilError(t, err)

	first, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(first), 1)
	assert.Assert(t, server.Exists(listCacheKey(1)))

	second, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, backing.lists, 1)
	assert.DeepEqual(t, second[0].Title, first[0].Title)
	assert.Assert(t, second[0].ImagePath == nil)
}

func TestCachedStoreCreateInvalidatesList(t *testing.T) {
	ctx := context.Background()
	cache, backing, server := newTestCache(t)

	_, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Assert(t, server.Exists(listCacheKey(0)))

	imagePath := "/uploads/1-a.png"
	_, err = cache.Create(ctx, "With image", "body", &imagePath)
	assert.NilError(t, err)
	assert.Assert(t, !server.Exists(listCacheKey(0)))
	generation, err := server.Get(postsGenerationKey)
	assert.NilError(t, err)
	assert.Equal(t, generation, "1")

	posts, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, backing.lists, 2)
	assert.Equal(t, len(posts), 1)
	assert.Equal(t, *posts[0].ImagePath, imagePath)
}

func TestCachedStoreFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	cache, backing, server := newTestCache(t)
	server.Close()

	_, err := cache.Create(ctx, "still", "works", nil)
	assert.NilError(t, err)

	posts, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(posts), 1)
	assert.Equal(t, backing.lists, 1)
}

func TestCachedStoreDoesNotCacheFailures(t *testing.T) {
	ctx := context.Background()
	cache, backing, server := newTestCache(t)
	backing.listErr = storageError("list", errors.New("unreachable"))

	_, err := cache.ListAllDescending(ctx)
	var storageErr *StorageError
	assert.Assert(t, errors.As(err, &storageErr))
	assert.Assert(t, !server.Exists(listCacheKey(0)))
}

func TestCachedStoreIgnoresSnapshotTakenBeforeCreate(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	backing := &snapshotStore{MemoryStore: NewMemoryStore()}
	cache := NewCachedStore(backing, client, 7*24*time.Hour)

	backing.afterSnapshot = func() {
		_, err := cache.Create(ctx, "late", "write", nil)
		assert.NilError(t, err)
	}

	stale, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(stale), 0)

	posts, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(posts), 1)
	assert.Equal(t, posts[0].Title, "late")

	cached, err := cache.ListAllDescending(ctx)
	assert.NilError(t, err)
	assert.Equal(t, len(cached), 1)
}
