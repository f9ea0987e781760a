package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/storeledger/internal/adapter/http"
	"github.com/iho/storeledger/internal/adapter/http/handler"
	"github.com/iho/storeledger/internal/adapter/repository/memory"
	"github.com/iho/storeledger/internal/adapter/repository/postgres"
	"github.com/iho/storeledger/internal/infrastructure/metrics"
	"github.com/iho/storeledger/internal/usecase"
	"github.com/iho/storeledger/tests/testutil"
)

type testApp struct {
	router   http.Handler
	recordUC *usecase.RecordUseCase
}

func newTestApp(pool *pgxpool.Pool) *testApp {
	log := zerolog.Nop()
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	entityRepo := postgres.NewEntityRepository(pool)
	recordRepo := postgres.NewRecordRepository(pool)
	idGen := postgres.NewULIDGenerator()

	recordUC := usecase.NewRecordUseCase(
		postgres.NewTxManager(pool),
		entityRepo,
		recordRepo,
		idGen,
		postgres.NewRetrier(log),
		m,
		log,
	)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		EntityHandler: handler.NewEntityHandler(usecase.NewEntityUseCase(entityRepo, idGen)),
		StatementHandler: handler.NewStatementHandler(
			usecase.NewStatementUseCase(entityRepo, recordRepo, memory.NewCache(), 0, m, log),
			usecase.NewReconciliationUseCase(entityRepo, recordRepo),
		),
		RecordHandler:    handler.NewRecordHandler(recordUC),
		ReportHandler:    handler.NewReportHandler(usecase.NewReportUseCase(recordRepo, m, log)),
		HealthHandler:    handler.NewHealthHandler(handler.NamedCheck{Name: "postgres", Checker: pool}),
		IdempotencyStore: memory.NewIdempotencyStore(memory.NewCache()),
		Metrics:          m,
		Logger:           log,
	})

	return &testApp{router: router, recordUC: recordUC}
}

func (a *testApp) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	a.router.ServeHTTP(w, r)

	if out != nil && w.Code < 300 {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			t.Fatalf("failed to parse response: %v: %s", err, w.Body.String())
		}
	}

	return w.Code
}

func postgresEntityRepo(db *testutil.TestDB) *postgres.EntityRepository {
	return postgres.NewEntityRepository(db.Pool)
}

func postgresRecordRepo(db *testutil.TestDB) *postgres.RecordRepository {
	return postgres.NewRecordRepository(db.Pool)
}
