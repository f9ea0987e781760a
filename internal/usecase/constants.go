package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultStatementCacheTTL is how long a computed statement stays cached
	DefaultStatementCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPendingMarker is stored under a claimed key until its first
	// request completes
	IdempotencyPendingMarker = "processing"

	// reconciliationPageSize bounds a single page when walking all entities
	reconciliationPageSize = 1000
)
