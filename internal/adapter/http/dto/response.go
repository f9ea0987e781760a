package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// EntityResponse represents a client or supplier in API responses.
type EntityResponse struct {
	ID             string           `json:"id"`
	Kind           string           `json:"kind"`
	Name           string           `json:"name"`
	Status         string           `json:"status"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	Balance        decimal.Decimal  `json:"balance"`
	Version        int64            `json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// EntityFromDomain converts a domain entity to a response.
func EntityFromDomain(e *domain.Entity) *EntityResponse {
	return &EntityResponse{
		ID:             e.ID,
		Kind:           string(e.Kind),
		Name:           e.Name,
		Status:         string(e.Status),
		OpeningBalance: e.OpeningBalance,
		CreditLimit:    e.CreditLimit,
		Balance:        e.Balance,
		Version:        e.Version,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// EntitiesFromDomain converts domain entities to responses.
func EntitiesFromDomain(entities []*domain.Entity) []*EntityResponse {
	result := make([]*EntityResponse, len(entities))
	for i, e := range entities {
		result[i] = EntityFromDomain(e)
	}
	return result
}

// ListEntitiesResponse represents a page of entities.
type ListEntitiesResponse struct {
	Entities []*EntityResponse `json:"entities"`
	Total    int64             `json:"total"`
}

// RecordResponse represents a stored record.
type RecordResponse struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	EntityID    string        `json:"entity_id,omitempty"`
	BranchID    string        `json:"branch_id,omitempty"`
	Date        string        `json:"date"`
	Amount      domain.Amount `json:"amount"`
	Reference   string        `json:"reference,omitempty"`
	Description string        `json:"description,omitempty"`
	Direction   string        `json:"direction,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

// RecordFromDomain converts a domain record to a response.
func RecordFromDomain(r *domain.Record) *RecordResponse {
	return &RecordResponse{
		ID:          r.ID,
		Type:        string(r.Type),
		EntityID:    r.EntityID,
		BranchID:    r.BranchID,
		Date:        r.Date,
		Amount:      r.Amount,
		Reference:   r.Reference,
		Description: r.Description,
		Direction:   string(r.Direction),
		CreatedAt:   r.CreatedAt,
	}
}

// DiagnosticResponse reports a malformed field that was absorbed.
type DiagnosticResponse struct {
	SourceType string `json:"source_type"`
	SourceID   string `json:"source_id,omitempty"`
	Field      string `json:"field"`
	Value      string `json:"value"`
	Reason     string `json:"reason"`
}

// DiagnosticsFromDomain converts diagnostics to responses.
func DiagnosticsFromDomain(diags []domain.Diagnostic) []DiagnosticResponse {
	if len(diags) == 0 {
		return nil
	}
	out := make([]DiagnosticResponse, len(diags))
	for i, d := range diags {
		out[i] = DiagnosticResponse{
			SourceType: string(d.SourceType),
			SourceID:   d.SourceID,
			Field:      d.Field,
			Value:      d.Value,
			Reason:     d.Reason,
		}
	}
	return out
}

// RangeResponse echoes the requested date range. Open bounds are omitted.
type RangeResponse struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// RangeFromDomain converts a date range to a response.
func RangeFromDomain(r domain.DateRange) RangeResponse {
	var out RangeResponse
	if r.From != nil {
		out.From = r.From.Format(domain.DateLayout)
	}
	if r.To != nil {
		out.To = r.To.Format(domain.DateLayout)
	}
	return out
}

// StatementLineResponse is one line of a statement.
type StatementLineResponse struct {
	Date           string          `json:"date,omitempty"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	SourceType     string          `json:"source_type,omitempty"`
	SourceID       string          `json:"source_id,omitempty"`
	Opening        bool            `json:"opening,omitempty"`
}

// CreditResponse reports a balance against the entity's credit limit.
type CreditResponse struct {
	Limit     decimal.Decimal `json:"limit"`
	Available decimal.Decimal `json:"available"`
	Exceeded  bool            `json:"exceeded"`
}

// StatementResponse represents an account statement.
type StatementResponse struct {
	EntityID       string                  `json:"entity_id"`
	EntityKind     string                  `json:"entity_kind,omitempty"`
	EntityName     string                  `json:"entity_name,omitempty"`
	Range          RangeResponse           `json:"range"`
	OpeningBalance decimal.Decimal         `json:"opening_balance"`
	ClosingBalance decimal.Decimal         `json:"closing_balance"`
	TotalDebit     decimal.Decimal         `json:"total_debit"`
	TotalCredit    decimal.Decimal         `json:"total_credit"`
	Lines          []StatementLineResponse `json:"lines"`
	Credit         *CreditResponse         `json:"credit,omitempty"`
	Diagnostics    []DiagnosticResponse    `json:"diagnostics,omitempty"`
}

// StatementFromDomain converts a statement to a response.
func StatementFromDomain(entityID string, es *usecase.EntityStatement) *StatementResponse {
	st := es.Statement
	resp := &StatementResponse{
		EntityID:       entityID,
		Range:          RangeFromDomain(st.Range),
		OpeningBalance: st.OpeningBalance,
		ClosingBalance: st.ClosingBalance,
		TotalDebit:     st.TotalDebit,
		TotalCredit:    st.TotalCredit,
		Lines:          make([]StatementLineResponse, len(st.Lines)),
		Diagnostics:    DiagnosticsFromDomain(st.Diagnostics),
	}

	if es.Entity != nil {
		resp.EntityKind = string(es.Entity.Kind)
		resp.EntityName = es.Entity.Name
	}

	if es.Credit != nil {
		resp.Credit = &CreditResponse{
			Limit:     es.Credit.Limit,
			Available: es.Credit.Available,
			Exceeded:  es.Credit.Exceeded,
		}
	}

	for i, l := range st.Lines {
		line := StatementLineResponse{
			Description:    l.Description,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: l.RunningBalance,
			SourceType:     string(l.SourceType),
			SourceID:       l.SourceID,
			Opening:        l.Opening,
		}
		if !l.Date.IsZero() {
			line.Date = l.Date.Format(domain.DateLayout)
		}
		resp.Lines[i] = line
	}

	return resp
}

// FinancialsResponse represents PeriodFinancials.
type FinancialsResponse struct {
	Range           RangeResponse        `json:"range"`
	TotalRevenue    decimal.Decimal      `json:"total_revenue"`
	TotalCost       decimal.Decimal      `json:"total_cost"`
	TotalExpense    decimal.Decimal      `json:"total_expense"`
	GrossProfit     decimal.Decimal      `json:"gross_profit"`
	NetProfit       decimal.Decimal      `json:"net_profit"`
	ProfitMarginPct decimal.Decimal      `json:"profit_margin_pct"`
	ExpenseRatioPct decimal.Decimal      `json:"expense_ratio_pct"`
	NetCashFlow     decimal.Decimal      `json:"net_cash_flow"`
	SalesCount      int                  `json:"sales_count"`
	PurchaseCount   int                  `json:"purchase_count"`
	ExpenseCount    int                  `json:"expense_count"`
	Diagnostics     []DiagnosticResponse `json:"diagnostics,omitempty"`
}

// FinancialsFromDomain converts PeriodFinancials to a response.
func FinancialsFromDomain(f domain.PeriodFinancials) *FinancialsResponse {
	return &FinancialsResponse{
		Range:           RangeFromDomain(f.Range),
		TotalRevenue:    f.TotalRevenue,
		TotalCost:       f.TotalCost,
		TotalExpense:    f.TotalExpense,
		GrossProfit:     f.GrossProfit,
		NetProfit:       f.NetProfit,
		ProfitMarginPct: f.ProfitMarginPct,
		ExpenseRatioPct: f.ExpenseRatioPct,
		NetCashFlow:     f.NetCashFlow,
		SalesCount:      f.SalesCount,
		PurchaseCount:   f.PurchaseCount,
		ExpenseCount:    f.ExpenseCount,
		Diagnostics:     DiagnosticsFromDomain(f.Diagnostics),
	}
}

// BranchFinancialsResponse is the financials of one branch.
type BranchFinancialsResponse struct {
	BranchID   string              `json:"branch_id"`
	Financials *FinancialsResponse `json:"financials"`
}

// BranchBreakdownResponse lists per-branch financials.
type BranchBreakdownResponse struct {
	Branches []BranchFinancialsResponse `json:"branches"`
}

// BranchBreakdownFromDomain converts branch financials to a response.
func BranchBreakdownFromDomain(branches []domain.BranchFinancials) *BranchBreakdownResponse {
	out := &BranchBreakdownResponse{Branches: make([]BranchFinancialsResponse, len(branches))}
	for i, b := range branches {
		out.Branches[i] = BranchFinancialsResponse{
			BranchID:   b.BranchID,
			Financials: FinancialsFromDomain(b.Financials),
		}
	}
	return out
}

// MonthlyFinancialsResponse is the financials of one calendar month.
type MonthlyFinancialsResponse struct {
	Month      string              `json:"month"`
	Financials *FinancialsResponse `json:"financials"`
}

// MonthlyTrendResponse lists monthly financials in calendar order.
type MonthlyTrendResponse struct {
	Months []MonthlyFinancialsResponse `json:"months"`
}

// MonthlyTrendFromDomain converts monthly financials to a response.
func MonthlyTrendFromDomain(months []domain.MonthlyFinancials) *MonthlyTrendResponse {
	out := &MonthlyTrendResponse{Months: make([]MonthlyFinancialsResponse, len(months))}
	for i, m := range months {
		out.Months[i] = MonthlyFinancialsResponse{
			Month:      time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"),
			Financials: FinancialsFromDomain(m.Financials),
		}
	}
	return out
}

// ReconciliationResponse represents a reconciliation check.
type ReconciliationResponse struct {
	EntityID          string          `json:"entity_id"`
	StoredBalance     decimal.Decimal `json:"stored_balance"`
	CalculatedBalance decimal.Decimal `json:"calculated_balance"`
	Difference        decimal.Decimal `json:"difference"`
	IsReconciled      bool            `json:"is_reconciled"`
	Records           int             `json:"records"`
	Diagnostics       int             `json:"diagnostics"`
	CheckedAt         time.Time       `json:"checked_at"`
}

// ReconciliationFromDomain converts a reconciliation result to a response.
func ReconciliationFromDomain(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		EntityID:          r.EntityID,
		StoredBalance:     r.StoredBalance,
		CalculatedBalance: r.CalculatedBalance,
		Difference:        r.Difference,
		IsReconciled:      r.IsReconciled,
		Records:           r.Records,
		Diagnostics:       r.Diagnostics,
		CheckedAt:         r.LastChecked,
	}
}

// ReconciliationReportResponse summarises a reconciliation of every entity.
type ReconciliationReportResponse struct {
	TotalEntities      int                       `json:"total_entities"`
	ReconciledEntities int                       `json:"reconciled_entities"`
	Discrepancies      []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt          time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromDomain converts a reconciliation report to a response.
func ReconciliationReportFromDomain(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	out := &ReconciliationReportResponse{
		TotalEntities:      r.TotalEntities,
		ReconciledEntities: r.ReconciledEntities,
		Discrepancies:      make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:          r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		out.Discrepancies[i] = ReconciliationFromDomain(d)
	}
	return out
}
