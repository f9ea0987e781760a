package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/storeledger/internal/usecase"
)

// RecordRepository implements usecase.RecordRepository.
type RecordRepository struct {
	queries *generated.Queries
}

// NewRecordRepository creates a new RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return newRecordRepositoryWithDB(pool)
}

func newRecordRepositoryWithDB(db generated.DBTX) *RecordRepository {
	return &RecordRepository{queries: generated.New(db)}
}

// Create stores a record inside tx.
func (r *RecordRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.Record) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateRecord(ctx, generated.CreateRecordParams{
		ID:          record.ID,
		Type:        string(record.Type),
		EntityID:    textOrNull(record.EntityID),
		BranchID:    record.BranchID,
		Date:        record.Date,
		Amount:      string(record.Amount),
		Reference:   record.Reference,
		Description: record.Description,
		Direction:   string(record.Direction),
		CreatedAt:   timeToPgTimestamptz(record.CreatedAt),
	})

	return err
}

// GetByID retrieves a record by ID.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	row, err := r.queries.GetRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	record := rowToRecord(row)
	return &record, nil
}

// ListByEntity returns every record posted to the entity.
func (r *RecordRepository) ListByEntity(ctx context.Context, entityID string) ([]domain.Record, error) {
	rows, err := r.queries.ListRecordsByEntity(ctx, textOrNull(entityID))
	if err != nil {
		return nil, err
	}

	return rowsToRecords(rows), nil
}

// ListByTypes returns records of the given types, optionally within one branch.
func (r *RecordRepository) ListByTypes(ctx context.Context, branchID string, types []domain.SourceType) ([]domain.Record, error) {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	rows, err := r.queries.ListRecordsByTypes(ctx, generated.ListRecordsByTypesParams{
		Types:    names,
		BranchID: branchID,
	})
	if err != nil {
		return nil, err
	}

	return rowsToRecords(rows), nil
}

func rowsToRecords(rows []generated.Record) []domain.Record {
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToRecord(row))
	}

	return records
}

func rowToRecord(row generated.Record) domain.Record {
	return domain.Record{
		ID:          row.ID,
		Type:        domain.SourceType(row.Type),
		EntityID:    row.EntityID.String,
		BranchID:    row.BranchID,
		Date:        row.Date,
		Amount:      domain.Amount(row.Amount),
		Reference:   row.Reference,
		Description: row.Description,
		Direction:   domain.Direction(row.Direction),
		CreatedAt:   row.CreatedAt.Time,
	}
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
