package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GetFinancials(ctx context.Context, input usecase.FinancialsInput) (*domain.PeriodFinancials, error)
	GetBranchBreakdown(ctx context.Context, r domain.DateRange) ([]domain.BranchFinancials, error)
	GetMonthlyTrend(ctx context.Context, input usecase.FinancialsInput) ([]domain.MonthlyFinancials, error)
}

// ReportHandler handles financial report requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Financials returns business-wide period financials.
func (h *ReportHandler) Financials(w http.ResponseWriter, r *http.Request) {
	h.financials(w, r, r.URL.Query().Get("branch_id"))
}

// BranchFinancials returns the period financials of one branch.
func (h *ReportHandler) BranchFinancials(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing branch ID", "")
		return
	}

	h.financials(w, r, id)
}

func (h *ReportHandler) financials(w http.ResponseWriter, r *http.Request, branchID string) {
	dateRange, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	f, err := h.reportUC.GetFinancials(r.Context(), usecase.FinancialsInput{
		BranchID: branchID,
		Range:    dateRange,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute financials", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.FinancialsFromDomain(*f))
}

// Branches returns the per-branch breakdown.
func (h *ReportHandler) Branches(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	branches, err := h.reportUC.GetBranchBreakdown(r.Context(), dateRange)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute branch breakdown", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BranchBreakdownFromDomain(branches))
}

// Monthly returns the monthly trend.
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseRangeQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	months, err := h.reportUC.GetMonthlyTrend(r.Context(), usecase.FinancialsInput{
		BranchID: r.URL.Query().Get("branch_id"),
		Range:    dateRange,
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute monthly trend", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlyTrendFromDomain(months))
}
