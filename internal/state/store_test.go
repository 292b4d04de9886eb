package state

import (
	"log/slog"
	"os"
	"sync"
	"testing"
)

type counterState struct {
	Count int
}

func newTestStore(t *testing.T) *Store[counterState] {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewStore("counter", counterState{}, logger)
}

func TestStore_SnapshotReturnsInitialState(t *testing.T) {
	store := newTestStore(t)
	if got := store.Snapshot().Count; got != 0 {
		t.Fatalf("expected initial count 0, got %d", got)
	}
}

func TestStore_MutateNotifiesSubscribers(t *testing.T) {
	store := newTestStore(t)

	var seen []int
	store.Subscribe(func(s counterState) {
		seen = append(seen, s.Count)
	})

	for i := 0; i < 3; i++ {
		store.Mutate(func(s counterState) counterState {
			return counterState{Count: s.Count + 1}
		})
	}

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	for i, count := range seen {
		if count != i+1 {
			t.Errorf("notification %d: expected count %d, got %d", i, i+1, count)
		}
	}
	if got := store.Snapshot().Count; got != 3 {
		t.Errorf("expected final count 3, got %d", got)
	}
}

func TestStore_NotifiesInRegistrationOrder(t *testing.T) {
	store := newTestStore(t)

	var order []string
	store.Subscribe(func(counterState) { order = append(order, "first") })
	store.Subscribe(func(counterState) { order = append(order, "second") })
	store.Subscribe(func(counterState) { order = append(order, "third") })

	store.Mutate(func(s counterState) counterState { return s })

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestStore_UnsubscribeStopsNotifications(t *testing.T) {
	store := newTestStore(t)

	calls := 0
	unsubscribe := store.Subscribe(func(counterState) { calls++ })

	store.Mutate(func(s counterState) counterState { return counterState{Count: 1} })
	unsubscribe()
	store.Mutate(func(s counterState) counterState { return counterState{Count: 2} })

	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	unsubscribeA := store.Subscribe(func(counterState) {})
	calls := 0
	store.Subscribe(func(counterState) { calls++ })

	unsubscribeA()
	unsubscribeA()

	store.Mutate(func(s counterState) counterState { return s })
	if calls != 1 {
		t.Fatalf("double unsubscribe removed another listener: %d calls", calls)
	}
}

func TestStore_UnsubscribeInsideListener(t *testing.T) {
	store := newTestStore(t)

	// A one-shot listener removing itself mid-notification must not
	// disturb the listeners registered after it.
	var unsubscribe func()
	oneShot := 0
	unsubscribe = store.Subscribe(func(counterState) {
		oneShot++
		unsubscribe()
	})
	after := 0
	store.Subscribe(func(counterState) { after++ })

	store.Mutate(func(s counterState) counterState { return counterState{Count: 1} })
	store.Mutate(func(s counterState) counterState { return counterState{Count: 2} })

	if oneShot != 1 {
		t.Fatalf("expected the one-shot listener to fire once, got %d", oneShot)
	}
	if after != 2 {
		t.Fatalf("expected the later listener to see both mutations, got %d", after)
	}
}

func TestStore_PanickingListenerDoesNotStopOthers(t *testing.T) {
	store := newTestStore(t)

	store.Subscribe(func(counterState) { panic("listener failure") })
	called := false
	store.Subscribe(func(counterState) { called = true })

	store.Mutate(func(s counterState) counterState { return s })

	if !called {
		t.Fatal("listener after the panicking one was not invoked")
	}
}

func TestStore_ConcurrentMutationsSerialize(t *testing.T) {
	store := newTestStore(t)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			store.Mutate(func(s counterState) counterState {
				return counterState{Count: s.Count + 1}
			})
		}()
	}
	wg.Wait()

	if got := store.Snapshot().Count; got != goroutines {
		t.Fatalf("lost updates: expected %d, got %d", goroutines, got)
	}
}
