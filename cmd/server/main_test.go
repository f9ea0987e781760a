package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/storeledger/internal/infrastructure/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver:     config.StorageDriverMemory,
		CacheEnabled:      false,
		StatementCacheTTL: time.Minute,
		IdempotencyTTL:    time.Hour,
	}
}

func TestNewApp_MemoryDriverServesAPI(t *testing.T) {
	a, err := newApp(context.Background(), memoryConfig(), zerolog.Nop(), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.handler)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/ready")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v1/entities", "application/json", strings.NewReader(`{"kind":"supplier","name":"Mill"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entity struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entity))

	resp, err = http.Post(srv.URL+"/api/v1/records", "application/json",
		strings.NewReader(`{"type":"purchase","entity_id":"`+entity.ID+`","date":"2024-05-02","amount":"40"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/entities/" + entity.ID + "/statement")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var st struct {
		ClosingBalance string `json:"closing_balance"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "40", st.ClosingBalance)
}

func TestNewApp_CacheFallsBackWithoutRedis(t *testing.T) {
	cfg := memoryConfig()
	cfg.CacheEnabled = true
	cfg.RedisURL = "redis://127.0.0.1:1"
	cfg.RateLimitRPS = 100
	cfg.RateLimitBurst = 100

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := newApp(ctx, cfg, zerolog.Nop(), prometheus.NewRegistry(), false)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_PostgresConnectFailure(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = config.StorageDriverPostgres
	cfg.DatabaseURL = "://bad"

	_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry(), false)
	require.Error(t, err)
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	flag := cmd.Flags().Lookup("migrate")
	require.NotNil(t, flag)
	assert.Equal(t, "true", flag.DefValue)

	sub, _, err := cmd.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	assert.Equal(t, "down", sub.Name())
}
