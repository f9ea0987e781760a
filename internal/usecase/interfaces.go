package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
)

// EntityRepository defines data access for clients and suppliers.
type EntityRepository interface {
	Create(ctx context.Context, entity *domain.Entity) error
	GetByID(ctx context.Context, id string) (*domain.Entity, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entity, error)
	// UpdateBalance stores the new running balance and bumps the entity version.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// List returns entities of the given kind, or all kinds when kind is empty.
	List(ctx context.Context, kind domain.EntityKind, limit, offset int) ([]*domain.Entity, error)
}

// RecordRepository defines data access for raw financial records.
type RecordRepository interface {
	Create(ctx context.Context, tx Transaction, record *domain.Record) error
	GetByID(ctx context.Context, id string) (*domain.Record, error)
	// ListByEntity returns every record posted to the entity in insertion order.
	ListByEntity(ctx context.Context, entityID string) ([]domain.Record, error)
	// ListByTypes returns records of the given types in insertion order.
	// An empty branchID matches every branch.
	ListByTypes(ctx context.Context, branchID string, types []domain.SourceType) ([]domain.Record, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request may be retried.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives business metrics from the use cases.
type MetricsRecorder interface {
	StatementBuilt(kind domain.EntityKind, lines int, duration time.Duration)
	ReportBuilt(report string, duration time.Duration)
	RecordPosted(st domain.SourceType)
	MalformedRecords(diags []domain.Diagnostic)
	StatementCacheHit(hit bool)
}

type noopMetrics struct{}

func (noopMetrics) StatementBuilt(domain.EntityKind, int, time.Duration) {}
func (noopMetrics) ReportBuilt(string, time.Duration)                  {}
func (noopMetrics) RecordPosted(domain.SourceType)                     {}
func (noopMetrics) MalformedRecords([]domain.Diagnostic)               {}
func (noopMetrics) StatementCacheHit(bool)                             {}

func metricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
