package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/infrastructure/postgres/generated"
	"github.com/iho/storeledger/internal/usecase"
)

// EntityRepository implements usecase.EntityRepository.
type EntityRepository struct {
	queries *generated.Queries
}

// NewEntityRepository creates a new EntityRepository.
func NewEntityRepository(pool *pgxpool.Pool) *EntityRepository {
	return newEntityRepositoryWithDB(pool)
}

func newEntityRepositoryWithDB(db generated.DBTX) *EntityRepository {
	return &EntityRepository{queries: generated.New(db)}
}

// Create creates a new entity.
func (r *EntityRepository) Create(ctx context.Context, entity *domain.Entity) error {
	_, err := r.queries.CreateEntity(ctx, generated.CreateEntityParams{
		ID:             entity.ID,
		Kind:           string(entity.Kind),
		Name:           entity.Name,
		OpeningBalance: decimalToNumeric(entity.OpeningBalance),
		CreditLimit:    optionalDecimalToNumeric(entity.CreditLimit),
		Status:         string(entity.Status),
		Balance:        decimalToNumeric(entity.Balance),
		Version:        entity.Version,
		CreatedAt:      timeToPgTimestamptz(entity.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(entity.UpdatedAt),
	})

	return err
}

// GetByID retrieves an entity by ID.
func (r *EntityRepository) GetByID(ctx context.Context, id string) (*domain.Entity, error) {
	row, err := r.queries.GetEntityByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}

		return nil, err
	}

	return rowToEntity(row), nil
}

// GetByIDForUpdate retrieves an entity by ID with a FOR UPDATE lock.
func (r *EntityRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entity, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetEntityByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntityNotFound
		}

		return nil, err
	}

	return rowToEntity(row), nil
}

// UpdateBalance stores the running balance and bumps the version.
func (r *EntityRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateEntityBalance(ctx, generated.UpdateEntityBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// List lists entities with pagination. An empty kind lists every kind.
func (r *EntityRepository) List(ctx context.Context, kind domain.EntityKind, limit, offset int) ([]*domain.Entity, error) {
	rows, err := r.queries.ListEntities(ctx, generated.ListEntitiesParams{
		Kind:   string(kind),
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entities := make([]*domain.Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, rowToEntity(row))
	}

	return entities, nil
}

func rowToEntity(row generated.Entity) *domain.Entity {
	entity := &domain.Entity{
		ID:             row.ID,
		Kind:           domain.EntityKind(row.Kind),
		Name:           row.Name,
		OpeningBalance: numericToDecimal(row.OpeningBalance),
		Status:         domain.EntityStatus(row.Status),
		Balance:        numericToDecimal(row.Balance),
		Version:        row.Version,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}

	if row.CreditLimit.Valid {
		limit := numericToDecimal(row.CreditLimit)
		entity.CreditLimit = &limit
	}

	return entity
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func optionalDecimalToNumeric(d *decimal.Decimal) pgtype.Numeric {
	if d == nil {
		return pgtype.Numeric{}
	}

	return decimalToNumeric(*d)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}

	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
