package state

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// RefreshManager throttles re-fetches of logical resources. A fetch for a
// key is skipped while a previous completion is fresher than the TTL, and
// truly concurrent callers for the same key share a single in-flight
// execution instead of duplicating it.
type RefreshManager struct {
	mu        sync.Mutex
	completed map[string]time.Time
	group     singleflight.Group
	now       func() time.Time
}

func NewRefreshManager() *RefreshManager {
	return &RefreshManager{
		completed: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Do runs fn unless a completion for key is fresher than ttl and force is
// false. Returns whether fn ran (directly or as a shared in-flight call).
// The completion timestamp is recorded only on success, so a failed fetch
// is retried on the next call. fn receives the first caller's context;
// piggybacked callers observe that caller's cancellation.
func (m *RefreshManager) Do(ctx context.Context, key string, ttl time.Duration, force bool, fn func(context.Context) error) (bool, error) {
	if !force && m.isFresh(key, ttl) {
		return false, nil
	}

	_, err, _ := m.group.Do(key, func() (any, error) {
		if err := fn(ctx); err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.completed[key] = m.now()
		m.mu.Unlock()
		return nil, nil
	})
	return true, err
}

// Invalidate drops the freshness record for key so the next Do re-fetches.
func (m *RefreshManager) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.completed, key)
}

// InvalidatePrefix drops freshness records for every key with the given
// prefix. Used by event-driven revalidation, e.g. dropping every
// "courses/" key after an enrollment change.
func (m *RefreshManager) InvalidatePrefix(prefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.completed {
		if strings.HasPrefix(key, prefix) {
			delete(m.completed, key)
		}
	}
}

func (m *RefreshManager) isFresh(key string, ttl time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	done, ok := m.completed[key]
	return ok && m.now().Sub(done) < ttl
}
