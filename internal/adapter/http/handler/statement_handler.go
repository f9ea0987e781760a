package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/usecase"
)

// StatementService defines the behavior needed to serve statements.
type StatementService interface {
	GetStatement(ctx context.Context, input usecase.GetStatementInput) (*usecase.EntityStatement, error)
}

// ReconciliationService defines the behavior needed to serve reconciliations.
type ReconciliationService interface {
	ReconcileEntity(ctx context.Context, entityID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// StatementHandler handles statement and reconciliation requests.
type StatementHandler struct {
	statementUC      StatementService
	reconciliationUC ReconciliationService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService, reconciliationUC ReconciliationService) *StatementHandler {
	return &StatementHandler{
		statementUC:      statementUC,
		reconciliationUC: reconciliationUC,
	}
}

// Statement returns the account statement of a client or supplier.
// An unknown entity still gets a statement with a zero opening balance.
func (h *StatementHandler) Statement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	dateRange, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	st, err := h.statementUC.GetStatement(r.Context(), usecase.GetStatementInput{
		EntityID: id,
		Range:    dateRange,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(id, st))
}

// Reconcile compares an entity's stored balance with its recomputed balance.
func (h *StatementHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileEntity(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile entity", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromDomain(result))
}

// ReconciliationReport reconciles every entity.
func (h *StatementHandler) ReconciliationReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile entities", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromDomain(report))
}
