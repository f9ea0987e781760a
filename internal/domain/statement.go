package domain

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// OpeningDescription labels the synthetic first line of every statement.
const OpeningDescription = "Opening balance"

// SourceSet is a batch of records sharing a caller-supplied source type.
type SourceSet struct {
	Type    SourceType
	Records []Record
}

type pendingLine struct {
	entry LedgerEntry
	day   time.Time
	seq   int
}

// BuildStatement folds the records of every source set that fall inside r
// into a running-balance statement anchored at opening.
//
// Entries are ordered by calendar date; entries on the same date are ordered
// by source type (sales, purchases, adjustments, receipts, payments) and then
// by the order they were supplied in. The opening balance is never filtered.
// The same inputs always produce the same statement.
func BuildStatement(opening decimal.Decimal, sources []SourceSet, r DateRange) Statement {
	var (
		pending []pendingLine
		diags   []Diagnostic
		seq     int
	)

	for _, src := range sources {
		records, filterDiags := filterRecords(src.Records, r, src.Type)
		diags = append(diags, filterDiags...)

		for _, rec := range records {
			entry, entryDiags := Normalize(rec, src.Type)
			diags = append(diags, entryDiags...)

			pending = append(pending, pendingLine{
				entry: entry,
				day:   calendarDay(entry.Date),
				seq:   seq,
			})
			seq++
		}
	}

	slices.SortStableFunc(pending, func(a, b pendingLine) int {
		if c := a.day.Compare(b.day); c != 0 {
			return c
		}
		if c := cmp.Compare(a.entry.SourceType.priority(), b.entry.SourceType.priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	openingLine := StatementLine{
		LedgerEntry: LedgerEntry{
			Description: OpeningDescription,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		},
		RunningBalance: opening,
		Opening:        true,
	}
	if r.From != nil {
		openingLine.Date = calendarDay(*r.From)
	}

	lines := make([]StatementLine, 0, len(pending)+1)
	lines = append(lines, openingLine)

	balance := opening
	totalDebit, totalCredit := decimal.Zero, decimal.Zero

	for _, p := range pending {
		balance = balance.Add(p.entry.Debit).Sub(p.entry.Credit)
		totalDebit = totalDebit.Add(p.entry.Debit)
		totalCredit = totalCredit.Add(p.entry.Credit)

		lines = append(lines, StatementLine{
			LedgerEntry:    p.entry,
			RunningBalance: balance,
		})
	}

	return Statement{
		Range:          r.clone(),
		OpeningBalance: opening,
		ClosingBalance: balance,
		TotalDebit:     totalDebit,
		TotalCredit:    totalCredit,
		Lines:          lines,
		Diagnostics:    diags,
	}
}
