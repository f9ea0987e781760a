package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// ErrDuplicateID is returned when an entity or record ID is already stored.
var ErrDuplicateID = errors.New("duplicate id")

// Store keeps entities and records in memory. It backs the "memory" storage
// driver used for local runs and tests.
type Store struct {
	mu          sync.RWMutex
	entities    map[string]domain.Entity
	entityOrder []string
	records     []domain.Record
	recordIndex map[string]int

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entities:    make(map[string]domain.Entity),
		recordIndex: make(map[string]int),
		locks:       make(map[string]chan struct{}),
	}
}

// rowLock returns the lock channel guarding an entity row.
func (s *Store) rowLock(id string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[id]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[id] = l
	}
	return l
}

// TxManager implements usecase.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, balances: make(map[string]balanceUpdate)}, nil
}

type balanceUpdate struct {
	balance   decimal.Decimal
	updatedAt time.Time
}

// Tx stages writes until Commit. Entity rows read for update stay locked
// until the transaction ends.
type Tx struct {
	store    *Store
	held     []chan struct{}
	heldIDs  map[string]bool
	balances map[string]balanceUpdate
	records  []domain.Record
	done     bool
}

func (t *Tx) lock(ctx context.Context, id string) error {
	if t.heldIDs[id] {
		return nil
	}

	l := t.store.rowLock(id)
	select {
	case l <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if t.heldIDs == nil {
		t.heldIDs = make(map[string]bool)
	}
	t.heldIDs[id] = true
	t.held = append(t.held, l)
	return nil
}

func (t *Tx) release() {
	for _, l := range t.held {
		<-l
	}
	t.held = nil
	t.heldIDs = nil
	t.done = true
}

// Commit applies the staged writes atomically.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	defer t.release()

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range t.records {
		if _, exists := s.recordIndex[r.ID]; exists {
			return ErrDuplicateID
		}
	}

	for id, u := range t.balances {
		e, ok := s.entities[id]
		if !ok {
			return domain.ErrEntityNotFound
		}
		e.Balance = u.balance
		e.Version++
		e.UpdatedAt = u.updatedAt
		s.entities[id] = e
	}

	for _, r := range t.records {
		s.recordIndex[r.ID] = len(s.records)
		s.records = append(s.records, r)
	}

	return nil
}

// Rollback discards the staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("memory: foreign transaction")
	}
	if t.done {
		return nil, errors.New("memory: transaction already closed")
	}
	return t, nil
}
