package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// StatementUseCase builds account statements for clients and suppliers.
type StatementUseCase struct {
	entityRepo EntityRepository
	recordRepo RecordRepository
	cache      Cache
	cacheTTL   time.Duration
	metrics    MetricsRecorder
	log        zerolog.Logger
}

// NewStatementUseCase creates a new StatementUseCase. cache and metrics may be nil.
func NewStatementUseCase(
	entityRepo EntityRepository,
	recordRepo RecordRepository,
	cache Cache,
	cacheTTL time.Duration,
	metrics MetricsRecorder,
	log zerolog.Logger,
) *StatementUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultStatementCacheTTL
	}

	return &StatementUseCase{
		entityRepo: entityRepo,
		recordRepo: recordRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// GetStatementInput represents input for building a statement.
type GetStatementInput struct {
	EntityID string
	Range    domain.DateRange
}

// EntityStatement is a statement together with the entity it belongs to.
// Entity is nil when the entity could not be found.
type EntityStatement struct {
	Entity    *domain.Entity
	Credit    *domain.CreditPosition
	Statement domain.Statement
}

// GetStatement builds the statement of an entity over a date range. An
// unknown entity is not an error: its statement starts from a zero opening
// balance and covers whatever records reference it.
func (uc *StatementUseCase) GetStatement(ctx context.Context, input GetStatementInput) (*EntityStatement, error) {
	log := loggerFrom(ctx, &uc.log)
	started := time.Now()

	entity, err := uc.entityRepo.GetByID(ctx, input.EntityID)
	if err != nil {
		if !errors.Is(err, domain.ErrEntityNotFound) {
			return nil, err
		}
		log.Warn().
			Str("entity_id", input.EntityID).
			Msg("entity not found, using zero opening balance")
		entity = nil
	}

	var key string
	if entity != nil && uc.cache != nil {
		key = statementCacheKey(entity, input.Range)
		if st, ok := uc.cachedStatement(ctx, key); ok {
			uc.metrics.StatementCacheHit(true)
			return newEntityStatement(entity, st), nil
		}
		uc.metrics.StatementCacheHit(false)
	}

	records, err := uc.recordRepo.ListByEntity(ctx, input.EntityID)
	if err != nil {
		return nil, fmt.Errorf("list records of %s: %w", input.EntityID, err)
	}

	var (
		kind    domain.EntityKind
		opening = decimal.Zero
	)
	if entity != nil {
		kind = entity.Kind
		opening = entity.OpeningBalance
	}

	st := buildEntityStatement(kind, opening, records, input.Range)

	if len(st.Diagnostics) > 0 {
		logDiagnostics(log, st.Diagnostics, "entity_id", input.EntityID)
		uc.metrics.MalformedRecords(st.Diagnostics)
	}
	uc.metrics.StatementBuilt(kind, len(st.Lines), time.Since(started))

	if key != "" {
		uc.storeStatement(ctx, key, st)
	}

	return newEntityStatement(entity, st), nil
}

func (uc *StatementUseCase) cachedStatement(ctx context.Context, key string) (domain.Statement, bool) {
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			loggerFrom(ctx, &uc.log).Warn().Err(err).Str("key", key).Msg("statement cache read failed")
		}
		return domain.Statement{}, false
	}

	var st domain.Statement
	if err := json.Unmarshal(data, &st); err != nil {
		loggerFrom(ctx, &uc.log).Warn().Err(err).Str("key", key).Msg("discarding corrupt cached statement")
		return domain.Statement{}, false
	}

	return st, true
}

func (uc *StatementUseCase) storeStatement(ctx context.Context, key string, st domain.Statement) {
	data, err := json.Marshal(st)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
		loggerFrom(ctx, &uc.log).Warn().Err(err).Str("key", key).Msg("statement cache write failed")
	}
}

// statementCacheKey includes the entity version, so posting a record makes
// every cached statement of that entity unreachable.
func statementCacheKey(entity *domain.Entity, r domain.DateRange) string {
	return fmt.Sprintf("statement:%s:%d:%s", entity.ID, entity.Version, r.Key())
}

func newEntityStatement(entity *domain.Entity, st domain.Statement) *EntityStatement {
	es := &EntityStatement{Entity: entity, Statement: st}
	if entity != nil {
		if pos, ok := entity.CreditPosition(st.ClosingBalance); ok {
			es.Credit = &pos
		}
	}
	return es
}

// buildEntityStatement splits records into the source sets that move an
// entity of the given kind and folds them into a statement. Records of any
// other type are ignored.
func buildEntityStatement(kind domain.EntityKind, opening decimal.Decimal, records []domain.Record, r domain.DateRange) domain.Statement {
	types := kind.LedgerSources()
	sets := make([]domain.SourceSet, len(types))
	index := make(map[domain.SourceType]int, len(types))
	for i, st := range types {
		sets[i].Type = st
		index[st] = i
	}

	for _, rec := range records {
		if i, ok := index[rec.Type]; ok {
			sets[i].Records = append(sets[i].Records, rec)
		}
	}

	return domain.BuildStatement(opening, sets, r)
}

func logDiagnostics(log *zerolog.Logger, diags []domain.Diagnostic, scopeKey, scope string) {
	for _, d := range diags {
		log.Warn().
			Str(scopeKey, scope).
			Str("source_type", string(d.SourceType)).
			Str("source_id", d.SourceID).
			Str("field", d.Field).
			Str("value", d.Value).
			Msg(d.Reason)
	}
}
