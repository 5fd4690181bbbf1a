// Package redis keeps idempotency records in Redis. SETNX takes the key for the
// first caller and the record expires with the configured TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "idempotency:"

type record struct {
	Hash    string          `json:"hash"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Done    bool            `json:"done"`
}

type Store struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewStore(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{client: client, ttl: ttl, logger: logger}
}

func (s *Store) Begin(ctx context.Context, key, requestHash string) ([]byte, error) {
	data, err := json.Marshal(record{Hash: requestHash})
	if err != nil {
		return nil, fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	acquired, err := s.client.SetNX(ctx, keyPrefix+key, data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}
	if acquired {
		return nil, nil
	}

	existing, err := s.load(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			// expired between SETNX and GET
			return nil, application.ErrRequestInProgress
		}
		return nil, err
	}

	switch {
	case existing.Hash != requestHash:
		return nil, application.ErrIdempotencyMismatch
	case !existing.Done:
		return nil, application.ErrRequestInProgress
	default:
		return existing.Payload, nil
	}
}

func (s *Store) Complete(ctx context.Context, key string, payload []byte) error {
	existing, err := s.load(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			s.logger.Warn("idempotency key expired before completion", "key", key)
			return nil
		}
		return err
	}

	existing.Payload = payload
	existing.Done = true
	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to encode idempotency record: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, goredis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to complete idempotency key: %w", err)
	}
	return nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, key string) (*record, error) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read idempotency key: %w", err)
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode idempotency record: %w", err)
	}
	return &rec, nil
}
