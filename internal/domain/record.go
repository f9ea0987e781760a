package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SourceType tags where a ledger movement came from.
type SourceType string

const (
	SourceSale       SourceType = "sale"
	SourcePurchase   SourceType = "purchase"
	SourceReceipt    SourceType = "receipt"
	SourcePayment    SourceType = "payment"
	SourceAdjustment SourceType = "adjustment"
	SourceExpense    SourceType = "expense"
)

// IsValid reports whether s is a known source type.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceSale, SourcePurchase, SourceReceipt, SourcePayment, SourceAdjustment, SourceExpense:
		return true
	}
	return false
}

// Label returns the human-readable document name used in statement descriptions.
func (s SourceType) Label() string {
	switch s {
	case SourceSale:
		return "Sales invoice"
	case SourcePurchase:
		return "Purchase invoice"
	case SourceReceipt:
		return "Receipt voucher"
	case SourcePayment:
		return "Payment voucher"
	case SourceAdjustment:
		return "Adjustment"
	case SourceExpense:
		return "Expense"
	default:
		return string(s)
	}
}

// priority orders same-day statement lines: invoices first, settlements last.
func (s SourceType) priority() int {
	switch s {
	case SourceSale:
		return 0
	case SourcePurchase:
		return 1
	case SourceAdjustment:
		return 2
	case SourceReceipt:
		return 3
	case SourcePayment:
		return 4
	case SourceExpense:
		return 5
	default:
		return 6
	}
}

// Direction is the explicit side of an adjustment.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// IsValid reports whether d is debit or credit.
func (d Direction) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// Amount is a monetary value as delivered by a source system. It may hold a
// JSON number, a numeric string or anything else; it is only interpreted by
// ParseAmount.
type Amount string

// AmountFromDecimal wraps a decimal as a raw Amount.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount(d.String())
}

// UnmarshalJSON accepts numbers, strings and null.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*a = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
	default:
		*a = Amount(b)
	}
	return nil
}

// MarshalJSON always emits a string so malformed values survive a round trip.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(a))
}

// ParseAmount converts a raw amount to a non-negative decimal.
func ParseAmount(raw Amount) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: missing", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}

	return d, nil
}

// Record is a raw financial event as stored by the persistence layer:
// an invoice, a voucher, an adjustment or a daily expense.
type Record struct {
	CreatedAt   time.Time
	ID          string
	Type        SourceType
	EntityID    string
	BranchID    string
	Date        string
	Amount      Amount
	Reference   string
	Description string
	Direction   Direction
}
