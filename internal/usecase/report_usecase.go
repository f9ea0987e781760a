package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/storeledger/internal/domain"
)

// Report names used for metrics.
const (
	ReportFinancials = "financials"
	ReportBranches   = "branches"
	ReportMonthly    = "monthly"
)

var reportSourceTypes = []domain.SourceType{
	domain.SourceSale,
	domain.SourcePurchase,
	domain.SourceExpense,
}

// ReportUseCase aggregates sales, purchases and expenses into profit reports.
type ReportUseCase struct {
	recordRepo RecordRepository
	metrics    MetricsRecorder
	log        zerolog.Logger
}

// NewReportUseCase creates a new ReportUseCase. metrics may be nil.
func NewReportUseCase(recordRepo RecordRepository, metrics MetricsRecorder, log zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{
		recordRepo: recordRepo,
		metrics:    metricsOrNoop(metrics),
		log:        log,
	}
}

// FinancialsInput selects the records that feed a report.
// An empty BranchID covers the whole business.
type FinancialsInput struct {
	BranchID string
	Range    domain.DateRange
}

// GetFinancials computes the period financials of a branch or the business.
func (uc *ReportUseCase) GetFinancials(ctx context.Context, input FinancialsInput) (*domain.PeriodFinancials, error) {
	started := time.Now()

	sales, purchases, expenses, err := uc.load(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}

	f := domain.ComputeFinancials(sales, purchases, expenses, input.Range)
	uc.observe(ctx, ReportFinancials, input, f.Diagnostics, started)

	return &f, nil
}

// GetBranchBreakdown computes period financials for every branch.
func (uc *ReportUseCase) GetBranchBreakdown(ctx context.Context, r domain.DateRange) ([]domain.BranchFinancials, error) {
	started := time.Now()

	sales, purchases, expenses, err := uc.load(ctx, "")
	if err != nil {
		return nil, err
	}

	branches := domain.ComputeBranchFinancials(sales, purchases, expenses, r)

	var diags []domain.Diagnostic
	for _, b := range branches {
		diags = append(diags, b.Financials.Diagnostics...)
	}
	uc.observe(ctx, ReportBranches, FinancialsInput{Range: r}, diags, started)

	return branches, nil
}

// GetMonthlyTrend computes period financials per calendar month.
func (uc *ReportUseCase) GetMonthlyTrend(ctx context.Context, input FinancialsInput) ([]domain.MonthlyFinancials, error) {
	started := time.Now()

	sales, purchases, expenses, err := uc.load(ctx, input.BranchID)
	if err != nil {
		return nil, err
	}

	months, diags := domain.ComputeMonthlyFinancials(sales, purchases, expenses, input.Range)
	uc.observe(ctx, ReportMonthly, input, diags, started)

	return months, nil
}

func (uc *ReportUseCase) load(ctx context.Context, branchID string) (sales, purchases, expenses []domain.Record, err error) {
	records, err := uc.recordRepo.ListByTypes(ctx, branchID, reportSourceTypes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list report records: %w", err)
	}

	for _, rec := range records {
		switch rec.Type {
		case domain.SourceSale:
			sales = append(sales, rec)
		case domain.SourcePurchase:
			purchases = append(purchases, rec)
		case domain.SourceExpense:
			expenses = append(expenses, rec)
		}
	}

	return sales, purchases, expenses, nil
}

func (uc *ReportUseCase) observe(ctx context.Context, report string, input FinancialsInput, diags []domain.Diagnostic, started time.Time) {
	if len(diags) > 0 {
		scope := input.BranchID
		if scope == "" {
			scope = "*"
		}
		logDiagnostics(loggerFrom(ctx, &uc.log), diags, "branch_id", scope)
		uc.metrics.MalformedRecords(diags)
	}
	uc.metrics.ReportBuilt(report, time.Since(started))
}
