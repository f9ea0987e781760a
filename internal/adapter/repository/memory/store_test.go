package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) Generate() string {
	return fmt.Sprintf("id-%06d", g.n.Add(1))
}

func seedEntity(t *testing.T, repo *EntityRepository, id string, kind domain.EntityKind) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), &domain.Entity{
		ID:        id,
		Kind:      kind,
		Name:      "Entity " + id,
		Status:    domain.EntityStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}))
}

func TestEntityRepositoryCreateAndGet(t *testing.T) {
	store := NewStore()
	repo := NewEntityRepository(store)
	ctx := context.Background()

	limit := decimal.NewFromInt(100)
	require.NoError(t, repo.Create(ctx, &domain.Entity{ID: "c1", Kind: domain.EntityKindClient, CreditLimit: &limit}))
	assert.ErrorIs(t, repo.Create(ctx, &domain.Entity{ID: "c1"}), ErrDuplicateID)

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got.CreditLimit)

	// returned values are copies
	*got.CreditLimit = decimal.Zero
	again, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, again.CreditLimit.Equal(limit))

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}

func TestEntityRepositoryListFiltersAndPages(t *testing.T) {
	store := NewStore()
	repo := NewEntityRepository(store)

	seedEntity(t, repo, "c1", domain.EntityKindClient)
	seedEntity(t, repo, "s1", domain.EntityKindSupplier)
	seedEntity(t, repo, "c2", domain.EntityKindClient)
	seedEntity(t, repo, "c3", domain.EntityKindClient)

	clients, err := repo.List(context.Background(), domain.EntityKindClient, 2, 1)
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "c2", clients[0].ID)
	assert.Equal(t, "c3", clients[1].ID)

	all, err := repo.List(context.Background(), "", 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTxCommitAppliesStagedWrites(t *testing.T) {
	store := NewStore()
	entities := NewEntityRepository(store)
	records := NewRecordRepository(store)
	txManager := NewTxManager(store)
	ctx := context.Background()

	seedEntity(t, entities, "c1", domain.EntityKindClient)

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)

	locked, err := entities.GetByIDForUpdate(ctx, tx, "c1")
	require.NoError(t, err)
	require.NoError(t, records.Create(ctx, tx, &domain.Record{ID: "r1", Type: domain.SourceSale, EntityID: "c1", Amount: "50"}))
	require.NoError(t, entities.UpdateBalance(ctx, tx, "c1", locked.Balance.Add(decimal.NewFromInt(50)), time.Now()))

	// nothing is visible before commit
	_, err = records.GetByID(ctx, "r1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	got, err := entities.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, int64(1), got.Version)

	list, err := records.ListByEntity(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTxRollbackDiscardsAndUnlocks(t *testing.T) {
	store := NewStore()
	entities := NewEntityRepository(store)
	records := NewRecordRepository(store)
	txManager := NewTxManager(store)
	ctx := context.Background()

	seedEntity(t, entities, "c1", domain.EntityKindClient)

	tx, err := txManager.Begin(ctx)
	require.NoError(t, err)
	_, err = entities.GetByIDForUpdate(ctx, tx, "c1")
	require.NoError(t, err)
	require.NoError(t, records.Create(ctx, tx, &domain.Record{ID: "r1", Type: domain.SourceSale, EntityID: "c1"}))
	require.NoError(t, tx.Rollback(ctx))

	list, err := records.ListByEntity(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)

	// the row lock was released
	tx2, err := txManager.Begin(ctx)
	require.NoError(t, err)
	lockCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err = entities.GetByIDForUpdate(lockCtx, tx2, "c1")
	require.NoError(t, err)
	require.NoError(t, tx2.Rollback(ctx))
}

func TestGetByIDForUpdateWaitsForLock(t *testing.T) {
	store := NewStore()
	entities := NewEntityRepository(store)
	txManager := NewTxManager(store)
	ctx := context.Background()

	seedEntity(t, entities, "c1", domain.EntityKindClient)

	holder, err := txManager.Begin(ctx)
	require.NoError(t, err)
	_, err = entities.GetByIDForUpdate(ctx, holder, "c1")
	require.NoError(t, err)

	waiter, err := txManager.Begin(ctx)
	require.NoError(t, err)
	waitCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = entities.GetByIDForUpdate(waitCtx, waiter, "c1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, holder.Rollback(ctx))
	require.NoError(t, waiter.Rollback(ctx))
}

func TestRecordRepositoryListByTypes(t *testing.T) {
	store := NewStore()
	records := NewRecordRepository(store)
	ctx := context.Background()

	tx, err := NewTxManager(store).Begin(ctx)
	require.NoError(t, err)
	for _, r := range []domain.Record{
		{ID: "1", Type: domain.SourceSale, BranchID: "b1"},
		{ID: "2", Type: domain.SourceReceipt, BranchID: "b1"},
		{ID: "3", Type: domain.SourceExpense, BranchID: "b2"},
		{ID: "4", Type: domain.SourcePurchase, BranchID: "b1"},
	} {
		require.NoError(t, records.Create(ctx, tx, &r))
	}
	require.NoError(t, tx.Commit(ctx))

	types := []domain.SourceType{domain.SourceSale, domain.SourcePurchase, domain.SourceExpense}

	all, err := records.ListByTypes(ctx, "", types)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"1", "3", "4"}, []string{all[0].ID, all[1].ID, all[2].ID})

	b1, err := records.ListByTypes(ctx, "b1", types)
	require.NoError(t, err)
	assert.Len(t, b1, 2)
}

func TestConcurrentPostingKeepsBalanceConsistent(t *testing.T) {
	store := NewStore()
	entities := NewEntityRepository(store)
	records := NewRecordRepository(store)
	ctx := context.Background()

	seedEntity(t, entities, "c1", domain.EntityKindClient)

	uc := usecase.NewRecordUseCase(NewTxManager(store), entities, records, &seqIDs{}, nil, nil, zerolog.Nop())

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			input := usecase.PostRecordInput{
				Type:     domain.SourceSale,
				EntityID: "c1",
				Date:     "2024-03-01",
				Amount:   "10",
			}
			if i%2 == 1 {
				input.Type = domain.SourceReceipt
				input.Amount = "4"
			}
			_, err := uc.PostRecord(ctx, input)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entity, err := entities.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, entity.Balance.Equal(decimal.NewFromInt(60)), "got %s", entity.Balance)
	assert.Equal(t, int64(workers), entity.Version)

	list, err := records.ListByEntity(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, workers)
}
