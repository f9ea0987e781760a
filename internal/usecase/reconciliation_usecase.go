package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
)

// ReconciliationUseCase compares stored entity balances with the balance
// recomputed from their records.
type ReconciliationUseCase struct {
	entityRepo EntityRepository
	recordRepo RecordRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(entityRepo EntityRepository, recordRepo RecordRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		entityRepo: entityRepo,
		recordRepo: recordRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	EntityID          string
	StoredBalance     decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	Records           int
	Diagnostics       int
	LastChecked       time.Time
}

// ReconcileEntity recomputes the entity's balance from every record posted
// to it and compares it with the stored balance.
func (uc *ReconciliationUseCase) ReconcileEntity(ctx context.Context, entityID string) (*ReconciliationResult, error) {
	entity, err := uc.entityRepo.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, entity)
}

func (uc *ReconciliationUseCase) reconcile(ctx context.Context, entity *domain.Entity) (*ReconciliationResult, error) {
	records, err := uc.recordRepo.ListByEntity(ctx, entity.ID)
	if err != nil {
		return nil, err
	}

	st := buildEntityStatement(entity.Kind, entity.OpeningBalance, records, domain.DateRange{})
	diff := entity.Balance.Sub(st.ClosingBalance)

	return &ReconciliationResult{
		EntityID:          entity.ID,
		StoredBalance:     entity.Balance,
		CalculatedBalance: st.ClosingBalance,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		Records:           len(st.Entries()),
		Diagnostics:       len(st.Diagnostics),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconcileAllEntities reconciles every entity in the system
func (uc *ReconciliationUseCase) ReconcileAllEntities(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconciliationPageSize {
		entities, err := uc.entityRepo.List(ctx, "", reconciliationPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, entity := range entities {
			result, err := uc.reconcile(ctx, entity)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile entity %s: %w", entity.ID, err)
			}
			results = append(results, result)
		}

		if len(entities) < reconciliationPageSize {
			break
		}
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalEntities      int
	ReconciledEntities int
	Discrepancies      []*ReconciliationResult
	CheckedAt          time.Time
}

// GenerateReconciliationReport reconciles all entities and collects the ones
// whose stored balance drifted.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllEntities(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalEntities: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledEntities++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
