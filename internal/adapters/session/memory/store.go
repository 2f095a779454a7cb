package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/phenrril/vitrina/internal/domain"
)

type entry struct {
	payload   []byte
	expiresAt time.Time
}

// Store keeps sessions in process memory. Entries are stored serialized so
// callers never share a mutable Session between requests.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

func New(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, entries: map[string]entry{}}
}

func (s *Store) Get(_ context.Context, key string) (*domain.Session, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && s.expired(e) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	var sess domain.Session
	if err := json.Unmarshal(e.payload, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Save(_ context.Context, key string, sess *domain.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{payload: b}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
