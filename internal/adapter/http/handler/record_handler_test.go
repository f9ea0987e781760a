package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

type recordServiceStub struct {
	postFn func(ctx context.Context, input usecase.PostRecordInput) (*domain.Record, error)
	getFn  func(ctx context.Context, id string) (*domain.Record, error)
}

func (s *recordServiceStub) PostRecord(ctx context.Context, input usecase.PostRecordInput) (*domain.Record, error) {
	return s.postFn(ctx, input)
}

func (s *recordServiceStub) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	return s.getFn(ctx, id)
}

func TestRecordHandler_Create(t *testing.T) {
	var captured usecase.PostRecordInput
	handler := NewRecordHandler(&recordServiceStub{
		postFn: func(ctx context.Context, input usecase.PostRecordInput) (*domain.Record, error) {
			captured = input
			return &domain.Record{ID: "r1", Type: input.Type, EntityID: input.EntityID, Date: input.Date, Amount: input.Amount}, nil
		},
	})

	body := `{"type":"sale","entity_id":"c1","branch_id":"b1","date":"2024-03-01","amount":120}`
	req := httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, domain.SourceSale, captured.Type)
	assert.Equal(t, domain.Amount("120"), captured.Amount)
	assert.Equal(t, "b1", captured.BranchID)

	var resp dto.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.ID)
}

func TestRecordHandler_CreateMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"blocked entity", domain.ErrEntityBlocked, http.StatusConflict},
		{"unknown entity", domain.ErrEntityNotFound, http.StatusNotFound},
		{"kind mismatch", domain.ErrEntityKindMismatch, http.StatusUnprocessableEntity},
		{"bad amount", domain.ErrInvalidAmount, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewRecordHandler(&recordServiceStub{
				postFn: func(ctx context.Context, input usecase.PostRecordInput) (*domain.Record, error) {
					return nil, tt.err
				},
			})

			body := `{"type":"receipt","entity_id":"c1","date":"2024-03-01","amount":"5"}`
			rec := httptest.NewRecorder()
			handler.Create(rec, httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body)))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRecordHandler_CreateRejectsMissingEntity(t *testing.T) {
	handler := NewRecordHandler(&recordServiceStub{})

	body := `{"type":"sale","date":"2024-03-01","amount":"5"}`
	rec := httptest.NewRecorder()
	handler.Create(rec, httptest.NewRequest(http.MethodPost, "/records", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Fields)
	assert.Equal(t, "entity_id", resp.Fields[0].Field)
}

func TestRecordHandler_Get(t *testing.T) {
	handler := NewRecordHandler(&recordServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Record, error) {
			if id != "r1" {
				return nil, domain.ErrRecordNotFound
			}
			return &domain.Record{ID: "r1", Type: domain.SourceExpense}, nil
		},
	})

	rec := httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/records/r1", nil), "id", "r1"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.Get(rec, withURLParam(httptest.NewRequest(http.MethodGet, "/records/r2", nil), "id", "r2"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
