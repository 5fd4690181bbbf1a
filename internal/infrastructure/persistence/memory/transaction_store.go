// Package memory keeps the transaction ledger in process memory. It backs
// development runs and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/application"
	"github.com/DanielPopoola/ficmart-payment-orchestrator/internal/domain"
)

type TransactionStore struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
}

func NewTransactionStore() *TransactionStore {
	return &TransactionStore{transactions: make(map[string]domain.Transaction)}
}

func (s *TransactionStore) Create(_ context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[tx.GatewayPaymentID]; ok {
		return fmt.Errorf("%w: %s", application.ErrDuplicateTransaction, tx.GatewayPaymentID)
	}
	s.transactions[tx.GatewayPaymentID] = clone(tx)
	return nil
}

func (s *TransactionStore) Get(_ context.Context, gatewayPaymentID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.transactions[gatewayPaymentID]
	if !ok {
		return nil, application.ErrTransactionNotFound
	}
	tx := clone(&stored)
	return &tx, nil
}

func (s *TransactionStore) Update(_ context.Context, tx *domain.Transaction, prevState domain.TransactionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.transactions[tx.GatewayPaymentID]
	if !ok {
		return application.ErrTransactionNotFound
	}
	if stored.State != prevState || stored.Version != tx.Version {
		return fmt.Errorf("%w: expected %s at version %d, found %s at version %d",
			application.ErrConcurrentUpdate, prevState, tx.Version, stored.State, stored.Version)
	}
	tx.Version++
	s.transactions[tx.GatewayPaymentID] = clone(tx)
	return nil
}

// FindStalePending returns pending transactions last touched before olderThan,
// oldest first.
func (s *TransactionStore) FindStalePending(_ context.Context, olderThan time.Time, limit int) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stale []*domain.Transaction
	for _, stored := range s.transactions {
		if stored.State.IsPending() && stored.UpdatedAt.Before(olderThan) {
			tx := clone(&stored)
			stale = append(stale, &tx)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].UpdatedAt.Before(stale[j].UpdatedAt)
	})
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	return stale, nil
}

func clone(tx *domain.Transaction) domain.Transaction {
	c := *tx
	if tx.Action != nil {
		action := *tx.Action
		c.Action = &action
	}
	if tx.LastError != nil {
		lastErr := *tx.LastError
		c.LastError = &lastErr
	}
	return c
}
