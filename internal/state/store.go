package state

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Listener observes snapshots after each effective dispatch.
type Listener func(*State)

// Store is the single writer of State. Dispatch is serialised; readers get
// snapshots that never change underneath them.
type Store struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	current   *State
	listeners map[uint64]Listener
	nextID    uint64
	log       zerolog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for dispatch tracing.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// NewStore returns a Store seeded with initial, or Initial() when nil.
func NewStore(initial *State, opts ...StoreOption) *Store {
	if initial == nil {
		initial = Initial()
	}
	s := &Store{
		current:   initial,
		listeners: make(map[uint64]Listener),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Dispatch reduces a into the current state and notifies listeners when the
// snapshot changed. Listeners run on the dispatching goroutine in
// subscription order and see snapshots in commit order. A listener may read
// State but must not call Dispatch.
func (s *Store) Dispatch(a Action) *State {
	s.mu.Lock()
	prev := s.current
	next := Reduce(prev, a)
	if next == prev {
		s.mu.Unlock()
		return prev
	}
	s.current = next
	listeners := s.snapshotListenersLocked()
	// Taken before mu is released so fan-outs follow commit order.
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	s.log.Debug().
		Str("action", a.ActionName()).
		Int("mood_entries", len(next.MoodEntries)).
		Int("chat_messages", len(next.ChatHistory)).
		Msg("state dispatched")

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers l and returns an idempotent unsubscribe function.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) snapshotListenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Listener, len(ids))
	for i, id := range ids {
		out[i] = s.listeners[id]
	}
	return out
}
