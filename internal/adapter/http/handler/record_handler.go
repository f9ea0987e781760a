package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// RecordService defines the behavior needed by RecordHandler.
type RecordService interface {
	PostRecord(ctx context.Context, input usecase.PostRecordInput) (*domain.Record, error)
	GetRecord(ctx context.Context, id string) (*domain.Record, error)
}

// RecordHandler handles record posting requests.
type RecordHandler struct {
	recordUC RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordUC RecordService) *RecordHandler {
	return &RecordHandler{recordUC: recordUC}
}

// Create posts a sale, purchase, receipt, payment, adjustment or expense.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PostRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeRequestError(w, "invalid record", err)
		return
	}

	record, err := h.recordUC.PostRecord(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to post record", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.RecordFromDomain(record))
}

// Get retrieves a record by ID.
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing record ID", "")
		return
	}

	record, err := h.recordUC.GetRecord(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get record", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordFromDomain(record))
}
