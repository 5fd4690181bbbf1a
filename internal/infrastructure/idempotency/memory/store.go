// Package memory keeps idempotency records in process memory with a TTL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
)

type record struct {
	hash      string
	payload   []byte
	done      bool
	expiresAt time.Time
}

type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	records map[string]*record
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		records: make(map[string]*record),
	}
}

func (s *Store) Begin(_ context.Context, key, requestHash string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[key]
	if ok && now.After(rec.expiresAt) {
		delete(s.records, key)
		ok = false
	}
	if !ok {
		s.records[key] = &record{hash: requestHash, expiresAt: now.Add(s.ttl)}
		return nil, nil
	}

	switch {
	case rec.hash != requestHash:
		return nil, application.ErrIdempotencyMismatch
	case !rec.done:
		return nil, application.ErrRequestInProgress
	default:
		return rec.payload, nil
	}
}

func (s *Store) Complete(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		// expired while the request ran; nothing left to replay against
		return nil
	}
	rec.payload = payload
	rec.done = true
	return nil
}

func (s *Store) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}
