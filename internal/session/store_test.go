package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/cache"
	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache records payloads and TTLs so tests can observe what Save
// handed to the cache layer.
type memoryCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = payload
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := m.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	delete(m.entries, key)
	delete(m.ttls, key)
	return nil
}

func (m *memoryCache) DeletePattern(_ context.Context, _ string) error {
	return nil
}

func testSession(keepLoggedIn bool) *models.Session {
	return &models.Session{
		User: models.User{
			ID:    "u1",
			Name:  "Ana",
			Email: "ana@example.com",
			Role:  models.RoleStudent,
		},
		Tokens: models.Tokens{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
		},
		KeepLoggedIn: keepLoggedIn,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	mem := newMemoryCache()
	store := NewStore(mem, time.Hour, 30*24*time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(false)))

	loaded, err := store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.User.ID)
	assert.Equal(t, "access-1", loaded.Tokens.AccessToken)
	assert.False(t, loaded.KeepLoggedIn)
}

func TestStore_TTLFollowsKeepLoggedIn(t *testing.T) {
	mem := newMemoryCache()
	keepAlive := 30 * 24 * time.Hour
	store := NewStore(mem, time.Hour, keepAlive)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(false)))
	assert.Equal(t, time.Hour, mem.ttls["session:u1"])

	require.NoError(t, store.Save(ctx, testSession(true)))
	assert.Equal(t, keepAlive, mem.ttls["session:u1"])
}

func TestStore_LoadMissingSession(t *testing.T) {
	store := NewStore(newMemoryCache(), time.Hour, time.Hour)

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_Clear(t *testing.T) {
	mem := newMemoryCache()
	store := NewStore(mem, time.Hour, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession(true)))
	require.NoError(t, store.Clear(ctx, "u1"))

	_, err := store.Load(ctx, "u1")
	assert.ErrorIs(t, err, ErrNoSession)
}
