package memory

import (
	"context"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// RecordRepository implements usecase.RecordRepository.
type RecordRepository struct {
	store *Store
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(store *Store) *RecordRepository {
	return &RecordRepository{store: store}
}

// Create stages a record in tx.
func (r *RecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.Record) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	t.records = append(t.records, *record)
	return nil
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	i, ok := r.store.recordIndex[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	rec := r.store.records[i]
	return &rec, nil
}

// ListByEntity returns every record posted to the entity in insertion order.
func (r *RecordRepository) ListByEntity(ctx context.Context, entityID string) ([]domain.Record, error) {
	return r.filter(func(rec domain.Record) bool {
		return rec.EntityID == entityID
	}), nil
}

// ListByTypes returns records of the given types in insertion order.
func (r *RecordRepository) ListByTypes(ctx context.Context, branchID string, types []domain.SourceType) ([]domain.Record, error) {
	wanted := make(map[domain.SourceType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	return r.filter(func(rec domain.Record) bool {
		return wanted[rec.Type] && (branchID == "" || rec.BranchID == branchID)
	}), nil
}

func (r *RecordRepository) filter(keep func(domain.Record) bool) []domain.Record {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := []domain.Record{}
	for _, rec := range r.store.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}
