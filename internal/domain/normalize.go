package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize maps a raw record of the given source type to a ledger entry.
//
// Sales, purchases and expenses are debits; receipts and payments are
// credits; adjustments take the side named by the record's Direction.
// Normalize never fails: a missing, malformed or negative amount becomes zero
// and an unreadable date becomes the zero time, each reported as a Diagnostic.
func Normalize(rec Record, st SourceType) (LedgerEntry, []Diagnostic) {
	var diags []Diagnostic

	entry := LedgerEntry{
		Description: describe(rec, st),
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		SourceType:  st,
		SourceID:    rec.ID,
	}

	if t, ok := ParseRecordDate(rec.Date); ok {
		entry.Date = t
	} else {
		diags = append(diags, dateDiagnostic(rec, st, "unreadable date"))
	}

	amount, err := ParseAmount(rec.Amount)
	if err != nil {
		diags = append(diags, amountDiagnostic(rec, st, err.Error()))
		amount = decimal.Zero
	}

	switch st {
	case SourceSale, SourcePurchase, SourceExpense:
		entry.Debit = amount
	case SourceReceipt, SourcePayment:
		entry.Credit = amount
	case SourceAdjustment:
		switch rec.Direction {
		case DirectionDebit:
			entry.Debit = amount
		case DirectionCredit:
			entry.Credit = amount
		default:
			diags = append(diags, Diagnostic{
				SourceType: st,
				SourceID:   rec.ID,
				Field:      "direction",
				Value:      string(rec.Direction),
				Reason:     ErrInvalidDirection.Error(),
			})
		}
	default:
		diags = append(diags, Diagnostic{
			SourceType: st,
			SourceID:   rec.ID,
			Field:      "type",
			Value:      string(st),
			Reason:     ErrInvalidSourceType.Error(),
		})
	}

	return entry, diags
}

func describe(rec Record, st SourceType) string {
	if d := strings.TrimSpace(rec.Description); d != "" {
		return d
	}

	ref := strings.TrimSpace(rec.Reference)
	if ref == "" {
		ref = rec.ID
	}
	if ref == "" {
		return st.Label()
	}

	return st.Label() + " #" + ref
}
