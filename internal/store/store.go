// Package store provides the state container behind the posts and users
// stores: a single value of state, replaced as a whole by a reducer for each
// dispatched action, with subscribers notified after every change.
//
// A Store serializes dispatches with a mutex, so concurrent callers (HTTP
// handlers, background fetches) see transitions applied one at a time, in the
// order they acquired the lock. Subscribers are notified in that same order,
// so the last state a subscriber sees is the current one. Reducers must be pure and must not retain or
// mutate the state they are handed.
package store

import (
	"sync"
)

// Action is an event applied to the state by a Reducer.
type Action interface {
	// ActionType names the action, e.g. "posts/fetchPosts/pending".
	ActionType() string
}

// Reducer computes the next state from the current state and an action.
type Reducer[S any] func(state S, action Action) S

// Listener is called with the new state after a dispatch.
type Listener[S any] func(state S)

// Store holds state of type S.
type Store[S any] struct {
	mu        sync.RWMutex // Protects state, listeners, nextID and seq
	state     S
	reduce    Reducer[S]
	listeners map[int]Listener[S]
	nextID    int
	seq       uint64 // Number of dispatches applied

	notifyMu sync.Mutex // Protects notified
	notified uint64     // Last dispatch whose listeners have finished
	turn     *sync.Cond // Signalled when notified advances
}

// New creates a store with the given initial state and reducer.
func New[S any](initial S, reduce Reducer[S]) *Store[S] {
	s := &Store[S]{
		state:     initial,
		reduce:    reduce,
		listeners: make(map[int]Listener[S]),
	}
	s.turn = sync.NewCond(&s.notifyMu)
	return s
}

// Dispatch applies action and returns the resulting state.
// Listeners run after the state lock is released, on the calling goroutine,
// and in dispatch order: a dispatch waits until the listeners of every earlier
// dispatch have returned. Listeners may read the store but must hand further
// dispatches off to another goroutine.
func (s *Store[S]) Dispatch(action Action) S {
	s.mu.Lock()
	s.state = s.reduce(s.state, action)
	next := s.state
	s.seq++
	seq := s.seq
	listeners := make([]Listener[S], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.notified != seq-1 {
		s.turn.Wait()
	}
	s.notifyMu.Unlock()

	// Only the dispatch numbered notified+1 gets here, so listeners never overlap
	for _, l := range listeners {
		l(next)
	}

	s.notifyMu.Lock()
	s.notified = seq
	s.turn.Broadcast()
	s.notifyMu.Unlock()
	return next
}

// Snapshot returns the current state.
func (s *Store[S]) Snapshot() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l for future changes and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (s *Store[S]) Subscribe(l Listener[S]) (unsubscribe func()) {
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
