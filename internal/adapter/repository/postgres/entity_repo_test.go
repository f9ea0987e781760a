package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
)

var entityColumns = []string{
	"id", "kind", "name", "opening_balance", "credit_limit", "status",
	"balance", "version", "created_at", "updated_at",
}

func TestEntityRepositoryGetByID(t *testing.T) {
	mockPool := newMockPool(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mockPool.ExpectQuery("SELECT (.+) FROM entities WHERE id = \\$1").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(entityColumns).
			AddRow("c1", "client", "Acme", "100.50", "5000", "active", "250.75", int64(3), created, created))

	repo := newEntityRepositoryWithDB(mockPool)
	entity, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entity.Kind != domain.EntityKindClient || entity.Name != "Acme" || entity.Version != 3 {
		t.Fatalf("unexpected entity %+v", entity)
	}
	if !entity.OpeningBalance.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("expected opening balance 100.50, got %s", entity.OpeningBalance)
	}
	if !entity.Balance.Equal(decimal.RequireFromString("250.75")) {
		t.Fatalf("expected balance 250.75, got %s", entity.Balance)
	}
	if entity.CreditLimit == nil || !entity.CreditLimit.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected credit limit 5000, got %v", entity.CreditLimit)
	}

	assertExpectations(t, mockPool)
}

func TestEntityRepositoryGetByIDWithoutCreditLimit(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("SELECT (.+) FROM entities WHERE id = \\$1").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows(entityColumns).
			AddRow("s1", "supplier", "Mill", "0", nil, "active", "0", int64(0), now, now))

	repo := newEntityRepositoryWithDB(mockPool)
	entity, err := repo.GetByID(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entity.CreditLimit != nil {
		t.Fatalf("expected no credit limit, got %s", entity.CreditLimit)
	}

	assertExpectations(t, mockPool)
}

func TestEntityRepositoryGetByIDNotFound(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectQuery("SELECT (.+) FROM entities WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := newEntityRepositoryWithDB(mockPool)
	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntityRepositoryLockAndUpdateBalance(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectBegin()
	mockPool.ExpectQuery("SELECT (.+) FROM entities WHERE id = \\$1 FOR UPDATE").
		WithArgs("c1").
		WillReturnRows(pgxmock.NewRows(entityColumns).
			AddRow("c1", "client", "Acme", "0", nil, "active", "10", int64(1), now, now))
	mockPool.ExpectExec("UPDATE entities").
		WithArgs("c1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectCommit()

	ctx := context.Background()
	tx, err := newTxManagerWithPool(mockPool).Begin(ctx)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	repo := newEntityRepositoryWithDB(mockPool)
	entity, err := repo.GetByIDForUpdate(ctx, tx, "c1")
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}

	if err := repo.UpdateBalance(ctx, tx, entity.ID, entity.Balance.Add(decimal.NewFromInt(5)), now); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntityRepositoryListByKind(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Now().UTC()

	mockPool.ExpectQuery("SELECT (.+) FROM entities").
		WithArgs("supplier", int32(10), int32(20)).
		WillReturnRows(pgxmock.NewRows(entityColumns).
			AddRow("s1", "supplier", "Mill", "0", nil, "active", "0", int64(0), now, now).
			AddRow("s2", "supplier", "Farm", "0", nil, "blocked", "0", int64(0), now, now))

	repo := newEntityRepositoryWithDB(mockPool)
	entities, err := repo.List(context.Background(), domain.EntityKindSupplier, 10, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entities) != 2 || entities[1].Status != domain.EntityStatusBlocked {
		t.Fatalf("unexpected entities %+v", entities)
	}

	assertExpectations(t, mockPool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "12.5", "-3.25", "1000000000000.01"} {
		d := decimal.RequireFromString(s)
		if got := numericToDecimal(decimalToNumeric(d)); !got.Equal(d) {
			t.Fatalf("round trip of %s gave %s", s, got)
		}
	}

	if !numericToDecimal(optionalDecimalToNumeric(nil)).IsZero() {
		t.Fatalf("expected NULL numeric to read as zero")
	}
}
