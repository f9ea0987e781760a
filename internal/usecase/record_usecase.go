package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/storeledger/internal/domain"
)

// RecordUseCase posts raw financial records and keeps entity balances current.
type RecordUseCase struct {
	txManager  TransactionManager
	entityRepo EntityRepository
	recordRepo RecordRepository
	idGen      IDGenerator
	retrier    Retrier
	metrics    MetricsRecorder
	log        zerolog.Logger
}

// NewRecordUseCase creates a new RecordUseCase. retrier and metrics may be nil.
func NewRecordUseCase(
	txManager TransactionManager,
	entityRepo EntityRepository,
	recordRepo RecordRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
	log zerolog.Logger,
) *RecordUseCase {
	return &RecordUseCase{
		txManager:  txManager,
		entityRepo: entityRepo,
		recordRepo: recordRepo,
		idGen:      idGen,
		retrier:    retrier,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// PostRecordInput represents input for posting a record.
type PostRecordInput struct {
	Type        domain.SourceType
	EntityID    string
	BranchID    string
	Date        string
	Amount      domain.Amount
	Reference   string
	Description string
	Direction   domain.Direction
}

// PostRecord validates and stores a record. Records other than expenses are
// posted to their entity: the entity row is locked, the record inserted and
// the stored balance moved by the record's debit minus credit, all in one
// transaction.
func (uc *RecordUseCase) PostRecord(ctx context.Context, input PostRecordInput) (*domain.Record, error) {
	record := &domain.Record{
		ID:          uc.idGen.Generate(),
		Type:        input.Type,
		EntityID:    strings.TrimSpace(input.EntityID),
		BranchID:    strings.TrimSpace(input.BranchID),
		Date:        strings.TrimSpace(input.Date),
		Amount:      domain.Amount(strings.TrimSpace(string(input.Amount))),
		Reference:   strings.TrimSpace(input.Reference),
		Description: strings.TrimSpace(input.Description),
		Direction:   input.Direction,
	}

	// 0. Validate before starting a transaction
	if err := domain.ValidateRecord(record); err != nil {
		return nil, err
	}

	post := func() error {
		record.CreatedAt = time.Now().UTC()
		return uc.post(ctx, record)
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, post)
	} else {
		err = post()
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordPosted(record.Type)

	loggerFrom(ctx, &uc.log).Info().
		Str("record_id", record.ID).
		Str("type", string(record.Type)).
		Str("entity_id", record.EntityID).
		Str("amount", string(record.Amount)).
		Msg("record posted")

	return record, nil
}

func (uc *RecordUseCase) post(ctx context.Context, record *domain.Record) error {
	// 1. Begin transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if record.Type == domain.SourceExpense {
		if err := uc.recordRepo.Create(ctx, tx, record); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	// 2. Lock the entity
	entity, err := uc.entityRepo.GetByIDForUpdate(ctx, tx, record.EntityID)
	if err != nil {
		return err
	}

	if err := entity.ValidatePosting(record.Type); err != nil {
		return err
	}

	// 3. Insert the record and move the stored balance
	entry, _ := domain.Normalize(*record, record.Type)
	balance := entity.ApplyEntry(entry)

	if err := uc.recordRepo.Create(ctx, tx, record); err != nil {
		return err
	}

	if err := uc.entityRepo.UpdateBalance(ctx, tx, entity.ID, balance, record.CreatedAt); err != nil {
		return err
	}

	// 4. Commit transaction
	return tx.Commit(ctx)
}

// GetRecord retrieves a record by ID.
func (uc *RecordUseCase) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	return uc.recordRepo.GetByID(ctx, id)
}
