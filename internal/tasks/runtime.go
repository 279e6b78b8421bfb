package tasks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ncmx/internal/actions"
	"github.com/desertthunder/ncmx/internal/shared"
	"github.com/desertthunder/ncmx/internal/store"
)

// Policy decides what a watcher does with an event that arrives while its previous task runs.
type Policy int

const (
	TakeEvery   Policy = iota // Spawn a task per event
	TakeLatest                // Cancel the running task, then spawn
	TakeLeading               // Drop the event
)

func (p Policy) String() string {
	switch p {
	case TakeEvery:
		return "every"
	case TakeLatest:
		return "latest"
	case TakeLeading:
		return "leading"
	default:
		return ""
	}
}

// Handler is the body of a task. It receives the action that triggered it.
//
// Handlers report failures with toasts; the runtime ignores their outcome.
type Handler func(ctx context.Context, a actions.Action)

type watcher struct {
	name    string
	policy  Policy
	handler Handler

	mu      sync.Mutex
	busy    bool
	current uint64
	cancel  context.CancelFunc
}

// Runtime routes actions to watchers and runs their tasks.
//
// Every [Runtime.Put] commits to the store before any watcher sees the action, so a task
// spawned by an action always observes the state that action produced.
type Runtime struct {
	store  *store.Store
	logger *log.Logger

	mu       sync.RWMutex
	watchers map[actions.Type][]*watcher
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	seq      atomic.Uint64

	pendingMu sync.Mutex
	pending   int
	idle      chan struct{}
}

// NewRuntime creates a stopped runtime bound to st.
func NewRuntime(st *store.Store, logger *log.Logger) *Runtime {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	idle := make(chan struct{})
	close(idle)

	return &Runtime{
		store:    st,
		logger:   logger,
		watchers: make(map[actions.Type][]*watcher),
		idle:     idle,
	}
}

// Watch registers handler under policy for every type in types.
//
// A watcher registered for several types shares one policy state across them, so a
// take-latest watcher on "search/query" and "search/activeTab" cancels across both.
func (r *Runtime) Watch(policy Policy, name string, handler Handler, types ...actions.Type) {
	w := &watcher{name: name, policy: policy, handler: handler}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		r.watchers[t] = append(r.watchers[t], w)
	}
}

// Start enables routing. Tasks inherit ctx and stop when it ends.
func (r *Runtime) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.running = true
}

// Stop cancels every task and waits for them to finish their cleanup.
// Puts made during cleanup still commit but no longer spawn tasks.
func (r *Runtime) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()

	r.Settle(context.Background())

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}

// Put commits a to the store and then hands it to the watchers registered for its type.
func (r *Runtime) Put(ctx context.Context, a actions.Action) error {
	r.mu.RLock()
	running := r.running
	r.mu.RUnlock()
	if !running {
		return shared.ErrRuntimeStopped
	}

	r.begin()
	defer r.done()

	if err := r.store.Dispatch(ctx, a); err != nil {
		return fmt.Errorf("put %s: %w", a.Type(), err)
	}

	r.route(a)
	return nil
}

// Select returns the latest state snapshot.
func (r *Runtime) Select() store.State {
	return r.store.State()
}

// Settle blocks until no put or task is in flight, or ctx ends.
func (r *Runtime) Settle(ctx context.Context) error {
	r.pendingMu.Lock()
	idle := r.idle
	r.pendingMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runtime) begin() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	if r.pending == 0 {
		r.idle = make(chan struct{})
	}
	r.pending++
}

func (r *Runtime) done() {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	r.pending--
	if r.pending == 0 {
		close(r.idle)
	}
}

func (r *Runtime) route(a actions.Action) {
	r.mu.RLock()
	watchers := r.watchers[a.Type()]
	parent := r.ctx
	r.mu.RUnlock()

	if parent == nil || parent.Err() != nil {
		return
	}

	for _, w := range watchers {
		r.dispatchTo(parent, w, a)
	}
}

func (r *Runtime) dispatchTo(parent context.Context, w *watcher, a actions.Action) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.policy {
	case TakeLeading:
		if w.busy {
			r.logger.Debug("task dropped", "watcher", w.name, "action", a.Type())
			return
		}
		w.busy = true
	case TakeLatest:
		if w.cancel != nil {
			r.logger.Debug("task superseded", "watcher", w.name, "action", a.Type())
			w.cancel()
		}
	}

	ctx, cancel := context.WithCancel(parent)

	seq := r.seq.Add(1)

	if w.policy == TakeLatest {
		w.cancel = cancel
		w.current = seq
	}

	r.begin()
	go r.runTask(ctx, cancel, w, a, seq)
}

func (r *Runtime) runTask(ctx context.Context, cancel context.CancelFunc, w *watcher, a actions.Action, seq uint64) {
	id := shared.GenerateID()
	logger := shared.WithLogger(r.logger, "task", id, "watcher", w.name, "action", a.Type())

	defer r.done()
	defer r.finish(w, cancel, seq)
	defer func() {
		if p := recover(); p != nil {
			logger.Error("task panicked", "panic", p)
			r.Put(context.WithoutCancel(ctx), actions.NewToast(actions.ToastError, actions.MsgUnexpectedError))
		}
	}()

	logger.Debug("task started", "policy", w.policy)
	w.handler(ctx, a)
	logger.Debug("task finished", "canceled", ctx.Err() != nil)
}

func (r *Runtime) finish(w *watcher, cancel context.CancelFunc, seq uint64) {
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.policy {
	case TakeLeading:
		w.busy = false
	case TakeLatest:
		if w.current == seq {
			w.cancel = nil
		}
	}
}
