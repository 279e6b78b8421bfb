package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/shared"
)

// Listener is called after each commit with the action and the committed state.
//
// Listeners run on the owner goroutine and must not call [Store.Dispatch].
type Listener func(a actions.Action, next State)

type dispatchRequest struct {
	action actions.Action
	ack    chan struct{}
}

// Store serializes state updates through a single owner goroutine.
type Store struct {
	state    atomic.Pointer[State]
	requests chan dispatchRequest
	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// New creates a store holding initial and starts its owner goroutine.
func New(initial State) *Store {
	s := &Store{
		requests:  make(chan dispatchRequest),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		listeners: make(map[int]Listener),
	}
	s.state.Store(&initial)

	go s.run()
	return s
}

func (s *Store) run() {
	defer close(s.done)

	for {
		select {
		case req := <-s.requests:
			next := Reduce(*s.state.Load(), req.action)
			s.state.Store(&next)
			s.notify(req.action, next)
			close(req.ack)
		case <-s.quit:
			return
		}
	}
}

func (s *Store) notify(a actions.Action, next State) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(a, next)
	}
}

// Dispatch applies a and returns once the new state is committed and listeners have run.
//
// Returns [shared.ErrStoreClosed] after [Store.Close], or the context error if ctx ends
// before the owner accepts the action.
func (s *Store) Dispatch(ctx context.Context, a actions.Action) error {
	req := dispatchRequest{action: a, ack: make(chan struct{})}

	select {
	case s.requests <- req:
	case <-s.quit:
		return shared.ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	<-req.ack
	return nil
}

// State returns the latest committed snapshot. Callers must treat it as read-only.
func (s *Store) State() State {
	return *s.state.Load()
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close stops the owner goroutine. It is safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.quit) })
	<-s.done
}
