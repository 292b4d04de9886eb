package state

import (
	"log/slog"
	"sync"
)

// Listener receives the new snapshot after every store mutation.
type Listener[S any] func(S)

type subscription[S any] struct {
	fn Listener[S]
}

// Store is a single-writer observable state container. Mutations apply a
// pure updater over the latest snapshot under a lock, so two overlapping
// async operations can no longer clobber each other with stale writes.
// Listeners are notified synchronously, in registration order, exactly once
// per mutation; a panicking listener is recovered and logged and never
// aborts notification of the remaining listeners.
type Store[S any] struct {
	mu        sync.Mutex // guards state and subs
	mutateMu  sync.Mutex // serializes Mutate, including notification
	state     S
	subs      []*subscription[S]
	logger    *slog.Logger
	storeName string
}

func NewStore[S any](name string, initial S, logger *slog.Logger) *Store[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[S]{
		state:     initial,
		logger:    logger,
		storeName: name,
	}
}

// Snapshot returns the current state. Consumers must treat the snapshot
// and any collections it references as read-only.
func (s *Store[S]) Snapshot() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its unsubscribe func. The
// same callback may be registered more than once; unsubscribe removes
// exactly one registration and is safe to call during a notification
// cycle or more than once.
func (s *Store[S]) Subscribe(fn Listener[S]) func() {
	sub := &subscription[S]{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, candidate := range s.subs {
				if candidate == sub {
					s.subs = append(s.subs[:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Mutate replaces the state with update(current) and notifies every
// listener with the new snapshot. Updaters must be pure: no I/O, no
// mutation of the previous snapshot.
func (s *Store[S]) Mutate(update func(S) S) {
	s.mutateMu.Lock()
	defer s.mutateMu.Unlock()

	s.mu.Lock()
	next := update(s.state)
	s.state = next
	listeners := make([]*subscription[S], len(s.subs))
	copy(listeners, s.subs)
	s.mu.Unlock()

	for _, sub := range listeners {
		s.notify(sub, next)
	}
}

func (s *Store[S]) notify(sub *subscription[S], snapshot S) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Store listener panicked",
				"store", s.storeName,
				"panic", r)
		}
	}()
	sub.fn(snapshot)
}
