// Package session persists sign-in state ({user, tokens}) between app
// launches. Storage is read/write/clear only; a session's lifetime depends
// on whether the user asked to stay logged in.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/SAP-F-2025/courseware-service/internal/cache"
	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// ErrNoSession is returned by Load when no session is stored.
var ErrNoSession = errors.New("no stored session")

// Store saves, loads and clears one session per user.
type Store interface {
	Save(ctx context.Context, session *models.Session) error
	Load(ctx context.Context, userID string) (*models.Session, error)
	Clear(ctx context.Context, userID string) error
}

type cacheStore struct {
	cache        cache.CacheService
	ttl          time.Duration
	keepAliveTTL time.Duration
}

// NewStore builds a session store on the shared cache service. Sessions
// with KeepLoggedIn set use the longer TTL.
func NewStore(c cache.CacheService, ttl, keepAliveTTL time.Duration) Store {
	return &cacheStore{
		cache:        c,
		ttl:          ttl,
		keepAliveTTL: keepAliveTTL,
	}
}

func sessionKey(userID string) string {
	return "session:" + userID
}

func (s *cacheStore) Save(ctx context.Context, session *models.Session) error {
	ttl := s.ttl
	if session.KeepLoggedIn {
		ttl = s.keepAliveTTL
	}
	return s.cache.Set(ctx, sessionKey(session.User.ID), session, ttl)
}

func (s *cacheStore) Load(ctx context.Context, userID string) (*models.Session, error) {
	var session models.Session
	err := s.cache.Get(ctx, sessionKey(userID), &session)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *cacheStore) Clear(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, sessionKey(userID))
}
