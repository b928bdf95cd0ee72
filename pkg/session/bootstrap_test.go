package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/property-service/internal/domain"
)

type transitionLog struct {
	states   []State
	sessions []*domain.Session
}

func (l *transitionLog) record(state State, sess *domain.Session) {
	l.states = append(l.states, state)
	l.sessions = append(l.sessions, sess)
}

func cachedStore(t *testing.T, sess *domain.Session) *Store {
	t.Helper()
	store := NewStore(NewMemoryBackend())
	require.NoError(t, store.Save(sess))
	return store
}

func TestBootstrapColdStart(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	fresh := &domain.Session{ID: "user-1", Email: "x@example.com", Name: "X", Role: domain.RoleManager}
	log := &transitionLog{}

	b := NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return fresh, nil
	}), time.Second, log.record)
	b.Start(context.Background())

	assert.Equal(t, []State{StateLoading, StateResolved}, log.states)

	state, current := b.Current()
	assert.Equal(t, StateResolved, state)
	assert.Equal(t, fresh, current)

	cached, ok := store.Load()
	require.True(t, ok, "confirmation overwrites the cache")
	assert.Equal(t, fresh, cached)
}

func TestBootstrapOptimisticCacheThenConfirm(t *testing.T) {
	cached := &domain.Session{ID: "user-1", Email: "x@example.com", Name: "Old Name", Role: domain.RoleManager}
	store := cachedStore(t, cached)
	fresh := &domain.Session{ID: "user-1", Email: "x@example.com", Name: "New Name", Role: domain.RoleManager}
	log := &transitionLog{}

	b := NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return fresh, nil
	}), time.Second, log.record)
	b.Start(context.Background())

	// Cached session surfaces before the provider answers, then is replaced.
	require.Equal(t, []State{StateResolved, StateResolved}, log.states)
	assert.Equal(t, "Old Name", log.sessions[0].Name)
	assert.Equal(t, "New Name", log.sessions[1].Name)

	stored, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, "New Name", stored.Name)
}

func TestBootstrapNoSessionNoCache(t *testing.T) {
	log := &transitionLog{}
	b := NewBootstrapper(NewStore(NewMemoryBackend()), ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return nil, nil
	}), time.Second, log.record)
	b.Start(context.Background())

	assert.Equal(t, []State{StateLoading, StateUnauthenticated}, log.states)
}

func TestBootstrapProviderErrorKeepsCachedSession(t *testing.T) {
	cached := &domain.Session{ID: "user-1", Role: domain.RoleTenant}
	store := cachedStore(t, cached)

	b := NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return nil, errors.New("network failure")
	}), time.Second, nil)
	b.Start(context.Background())

	state, current := b.Current()
	assert.Equal(t, StateResolved, state)
	assert.Equal(t, cached.ID, current.ID)
}

func TestBootstrapProviderErrorWithoutCache(t *testing.T) {
	b := NewBootstrapper(NewStore(NewMemoryBackend()), ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return nil, errors.New("network failure")
	}), time.Second, nil)
	b.Start(context.Background())

	state, _ := b.Current()
	assert.Equal(t, StateUnauthenticated, state, "fails closed without a usable cache")
}

func TestBootstrapRunsOnce(t *testing.T) {
	var confirms int
	b := NewBootstrapper(NewStore(NewMemoryBackend()), ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		confirms++
		return nil, nil
	}), time.Second, nil)

	b.Start(context.Background())
	b.Start(context.Background())
	b.Start(context.Background())

	assert.Equal(t, 1, confirms)
}

func TestCancelSuppressesTransitions(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	log := &transitionLog{}

	b := NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return &domain.Session{ID: "user-1", Role: domain.RoleTenant}, nil
	}), time.Second, log.record)

	b.Cancel()
	b.Start(context.Background())

	assert.Empty(t, log.states, "no transition may fire after teardown")
	state, _ := b.Current()
	assert.Equal(t, StateIdle, state)
}

func TestCancelDuringConfirm(t *testing.T) {
	store := NewStore(NewMemoryBackend())
	var b *Bootstrapper
	b = NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		// Teardown happens while the provider call is in flight.
		b.Cancel()
		return &domain.Session{ID: "user-1", Role: domain.RoleTenant}, nil
	}), time.Second, nil)
	b.Start(context.Background())

	state, _ := b.Current()
	assert.Equal(t, StateLoading, state)
	_, ok := store.Load()
	assert.False(t, ok, "cache is not overwritten after cancellation")
}

func TestSignOut(t *testing.T) {
	store := cachedStore(t, &domain.Session{ID: "user-1", Role: domain.RoleAdmin})
	b := NewBootstrapper(store, ConfirmerFunc(func(context.Context) (*domain.Session, error) {
		return nil, nil
	}), time.Second, nil)

	b.SignOut()

	state, current := b.Current()
	assert.Equal(t, StateUnauthenticated, state)
	assert.Nil(t, current)
	_, ok := store.Load()
	assert.False(t, ok)
}
