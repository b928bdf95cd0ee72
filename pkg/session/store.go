// Package session is the client-side companion to the server's auth path: a
// cached session record consulted before the identity provider responds, and
// a bootstrap state machine that confirms it asynchronously.
package session

import (
	"encoding/json"
	"sync"

	"github.com/propdesk/property-service/internal/domain"
)

// storageKey namespaces the single persisted session entry.
const storageKey = "propdesk.session"

// Backend is the underlying key-value storage, typically backed by browser
// local storage or a file on disk.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryBackend is an in-process Backend.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend creates an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (b *MemoryBackend) Get(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	val, ok := b.data[key]
	return val, ok
}

func (b *MemoryBackend) Set(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

func (b *MemoryBackend) Delete(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
}

// Store persists the last resolved session record. The cached role is a UI
// hint only; the server re-resolves it on every request.
type Store struct {
	backend Backend
}

// NewStore wraps a backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the cached session, if a valid one exists. Unknown roles are
// coerced to the default rather than accepted.
func (s *Store) Load() (*domain.Session, bool) {
	raw, ok := s.backend.Get(storageKey)
	if !ok || raw == "" {
		return nil, false
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil || sess.ID == "" {
		s.backend.Delete(storageKey)
		return nil, false
	}
	sess.Role = domain.CoerceRole(string(sess.Role))
	return &sess, true
}

// Save overwrites the cached session.
func (s *Store) Save(sess *domain.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.backend.Set(storageKey, string(raw))
	return nil
}

// Clear removes the cached session; the next Load reports no session.
func (s *Store) Clear() {
	s.backend.Delete(storageKey)
}
