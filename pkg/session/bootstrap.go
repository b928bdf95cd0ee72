package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/propdesk/property-service/internal/domain"
)

// State names the bootstrap phases.
type State string

const (
	StateIdle            State = "idle"
	StateLoading         State = "loading"
	StateResolved        State = "resolved"
	StateUnauthenticated State = "unauthenticated"
)

// Confirmer asks the identity provider for the current session.
type Confirmer interface {
	Confirm(ctx context.Context) (*domain.Session, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context) (*domain.Session, error)

func (f ConfirmerFunc) Confirm(ctx context.Context) (*domain.Session, error) {
	return f(ctx)
}

// Bootstrapper resolves the startup session optimistically: a valid cached
// session is surfaced immediately, then confirmed against the provider in the
// background. The trade is a small window of possibly stale name/role data
// against a loading flash on every navigation.
type Bootstrapper struct {
	store     *Store
	confirmer Confirmer
	timeout   time.Duration
	onChange  func(State, *domain.Session)

	mu      sync.Mutex
	state   State
	current *domain.Session

	started   sync.Once
	cancelled atomic.Bool
}

// NewBootstrapper builds a bootstrapper in the Idle state. onChange may be nil.
func NewBootstrapper(store *Store, confirmer Confirmer, timeout time.Duration, onChange func(State, *domain.Session)) *Bootstrapper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Bootstrapper{
		store:     store,
		confirmer: confirmer,
		timeout:   timeout,
		onChange:  onChange,
		state:     StateIdle,
	}
}

// Start runs exactly one bootstrap attempt, regardless of how many times it is
// called. The confirm call runs in the caller's goroutine.
func (b *Bootstrapper) Start(ctx context.Context) {
	b.started.Do(func() { b.bootstrap(ctx) })
}

func (b *Bootstrapper) bootstrap(ctx context.Context) {
	cached, hadCache := b.store.Load()
	if hadCache {
		b.transition(StateResolved, cached)
	} else {
		b.transition(StateLoading, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	fresh, err := b.confirmer.Confirm(ctx)
	if err != nil {
		// Provider unreachable: keep the optimistic session if one existed,
		// otherwise fail closed to unauthenticated.
		if !hadCache {
			b.transition(StateUnauthenticated, nil)
		}
		return
	}
	if fresh == nil {
		if !hadCache {
			b.transition(StateUnauthenticated, nil)
		}
		return
	}

	fresh.Role = domain.CoerceRole(string(fresh.Role))
	if b.cancelled.Load() {
		return
	}
	_ = b.store.Save(fresh)
	b.transition(StateResolved, fresh)
}

// SignOut clears the cache and moves to Unauthenticated.
func (b *Bootstrapper) SignOut() {
	b.store.Clear()
	b.transition(StateUnauthenticated, nil)
}

// Cancel stops any further state transitions, typically on teardown.
func (b *Bootstrapper) Cancel() {
	b.cancelled.Store(true)
}

// Current returns the present state and session.
func (b *Bootstrapper) Current() (State, *domain.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state, b.current
}

// transition applies a state change unless the bootstrapper was cancelled.
// The cancellation flag is checked before every transition.
func (b *Bootstrapper) transition(state State, sess *domain.Session) {
	if b.cancelled.Load() {
		return
	}
	b.mu.Lock()
	b.state = state
	b.current = sess
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(state, sess)
	}
}
