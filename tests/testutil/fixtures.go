package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/infrastructure/postgres"
	"github.com/iho/storeledger/internal/infrastructure/postgres/generated"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped when DATABASE_URL is unset or -short is passed.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	// Tests run from the package directory; walk up to find migrations.
	migrationsPath := "internal/infrastructure/postgres/migrations"
	for _, candidate := range []string{
		migrationsPath,
		"../../internal/infrastructure/postgres/migrations",
		"../../../internal/infrastructure/postgres/migrations",
	} {
		if _, err := os.Stat(candidate); err == nil {
			migrationsPath = candidate
			break
		}
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 20, 2)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `TRUNCATE TABLE records, entities CASCADE`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestEntity inserts an active entity whose balance equals opening.
func (db *TestDB) CreateTestEntity(ctx context.Context, kind domain.EntityKind, name string, opening decimal.Decimal) *domain.Entity {
	db.t.Helper()

	now := time.Now().UTC()
	id := GenerateID()

	var numeric pgtype.Numeric
	if err := numeric.Scan(opening.String()); err != nil {
		db.t.Fatalf("invalid opening balance: %v", err)
	}

	ts := pgtype.Timestamptz{Time: now, Valid: true}

	_, err := db.Queries.CreateEntity(ctx, generated.CreateEntityParams{
		ID:             id,
		Kind:           string(kind),
		Name:           name,
		OpeningBalance: numeric,
		Status:         string(domain.EntityStatusActive),
		Balance:        numeric,
		Version:        0,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test entity: %v", err)
	}

	return &domain.Entity{
		ID:             id,
		Kind:           kind,
		Name:           name,
		OpeningBalance: opening,
		Status:         domain.EntityStatusActive,
		Balance:        opening,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InsertRawRecord stores a record as-is, bypassing validation. Use it for
// rows imported from other systems with malformed amounts or dates.
func (db *TestDB) InsertRawRecord(ctx context.Context, rec domain.Record) string {
	db.t.Helper()

	if rec.ID == "" {
		rec.ID = GenerateID()
	}

	_, err := db.Queries.CreateRecord(ctx, generated.CreateRecordParams{
		ID:          rec.ID,
		Type:        string(rec.Type),
		EntityID:    pgtype.Text{String: rec.EntityID, Valid: rec.EntityID != ""},
		BranchID:    rec.BranchID,
		Date:        rec.Date,
		Amount:      string(rec.Amount),
		Reference:   rec.Reference,
		Description: rec.Description,
		Direction:   string(rec.Direction),
		CreatedAt:   pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true},
	})
	if err != nil {
		db.t.Fatalf("failed to insert record: %v", err)
	}

	return rec.ID
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
