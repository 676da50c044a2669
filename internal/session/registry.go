package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"CartStore/internal/catalog"
	"CartStore/internal/shop"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one customer's Store. Do serializes access to it.
type Session struct {
	ID        string
	ExpiresAt time.Time

	mu    sync.Mutex
	store *shop.Store
}

func (s *Session) Do(fn func(st *shop.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

// Registry keeps live sessions in memory. Every session shares the same catalog.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]*Session
	catalog []catalog.Item
	ttl     time.Duration
	now     func() time.Time
}

func NewRegistry(items []catalog.Item, ttl time.Duration) *Registry {
	return &Registry{
		byID:    make(map[string]*Session),
		catalog: items,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *Registry) Create() *Session {
	s := &Session{
		ID:        "s_" + uuid.NewString(),
		ExpiresAt: r.now().Add(r.ttl),
		store:     shop.New(r.catalog),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictExpiredLocked()
	r.byID[s.ID] = s
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.byID[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if !r.now().Before(s.ExpiresAt) {
		r.Delete(id)
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Catalog returns the shared catalog.
func (r *Registry) Catalog() []catalog.Item {
	out := make([]catalog.Item, len(r.catalog))
	copy(out, r.catalog)
	return out
}

func (r *Registry) evictExpiredLocked() {
	now := r.now()
	for id, s := range r.byID {
		if !now.Before(s.ExpiresAt) {
			delete(r.byID, id)
		}
	}
}
