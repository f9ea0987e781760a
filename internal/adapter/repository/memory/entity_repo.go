package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// EntityRepository implements usecase.EntityRepository.
type EntityRepository struct {
	store *Store
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(store *Store) *EntityRepository {
	return &EntityRepository{store: store}
}

// Create stores a new entity.
func (r *EntityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entities[entity.ID]; exists {
		return ErrDuplicateID
	}

	s.entities[entity.ID] = copyEntity(*entity)
	s.entityOrder = append(s.entityOrder, entity.ID)
	return nil
}

// GetByID retrieves an entity by ID.
func (r *EntityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.entities[id]
	if !ok {
		return nil, domain.ErrEntityNotFound
	}

	out := copyEntity(e)
	return &out, nil
}

// GetByIDForUpdate locks the entity row for the rest of tx and returns it,
// including any balance staged by tx.
func (r *EntityRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entity, error) {
	t, err := asTx(tx)
	if err != nil {
		return nil, err
	}

	if err := t.lock(ctx, id); err != nil {
		return nil, err
	}

	entity, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if u, ok := t.balances[id]; ok {
		entity.Balance = u.balance
		entity.UpdatedAt = u.updatedAt
	}

	return entity, nil
}

// UpdateBalance stages the new balance. The version is bumped on commit.
func (r *EntityRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	t.balances[id] = balanceUpdate{balance: balance, updatedAt: updatedAt}
	return nil
}

// List returns entities in creation order. An empty kind lists every kind.
func (r *EntityRepository) List(ctx context.Context, kind domain.EntityKind, limit, offset int) ([]*domain.Entity, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Entity
	skipped := 0
	for _, id := range r.store.entityOrder {
		e := r.store.entities[id]
		if kind != "" && e.Kind != kind {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		c := copyEntity(e)
		out = append(out, &c)
	}

	return out, nil
}

func copyEntity(e domain.Entity) domain.Entity {
	if e.CreditLimit != nil {
		limit := *e.CreditLimit
		e.CreditLimit = &limit
	}
	return e
}
