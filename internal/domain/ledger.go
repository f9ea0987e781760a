package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is a record normalized to one side of an entity's account.
// At most one of Debit and Credit is non-zero.
type LedgerEntry struct {
	Date        time.Time
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	SourceType  SourceType
	SourceID    string
}

// Net returns Debit - Credit.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// StatementLine is a ledger entry with the balance after applying it.
type StatementLine struct {
	LedgerEntry
	RunningBalance decimal.Decimal
	Opening        bool
}

// Statement is an ordered account statement. Lines[0] is always the opening
// balance line.
type Statement struct {
	Range          DateRange
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Lines          []StatementLine
	Diagnostics    []Diagnostic
}

// Entries returns the statement lines without the opening line.
func (s *Statement) Entries() []StatementLine {
	if len(s.Lines) == 0 {
		return nil
	}
	return s.Lines[1:]
}

// Diagnostic describes a data-quality problem that was absorbed while
// computing a statement or a report.
type Diagnostic struct {
	SourceType SourceType
	SourceID   string
	Field      string
	Value      string
	Reason     string
}

func amountDiagnostic(rec Record, st SourceType, reason string) Diagnostic {
	return Diagnostic{
		SourceType: st,
		SourceID:   rec.ID,
		Field:      "amount",
		Value:      string(rec.Amount),
		Reason:     reason,
	}
}

func dateDiagnostic(rec Record, st SourceType, reason string) Diagnostic {
	return Diagnostic{
		SourceType: st,
		SourceID:   rec.ID,
		Field:      "date",
		Value:      rec.Date,
		Reason:     reason,
	}
}
