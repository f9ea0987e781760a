package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEntityName   = errors.New("invalid entity name")
	ErrInvalidEntityKind   = errors.New("invalid entity kind")
	ErrInvalidEntityStatus = errors.New("invalid entity status")
	ErrInvalidCreditLimit  = errors.New("credit limit must not be negative")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum allowed")
	ErrAmountTooSmall      = errors.New("amount below minimum allowed")
	ErrReferenceTooLong    = errors.New("reference exceeds maximum length")
)

// Validation constants
const (
	MaxEntityNameLength  = 255
	MinEntityNameLength  = 1
	MaxReferenceLength   = 64
	MaxDescriptionLength = 512
	MaxRecordAmount      = "1000000000000" // 1 trillion
	MinRecordAmount      = "0.01"
	MaxAmountScale       = 4 // matches NUMERIC(20, 4) balances
)

// ValidateEntityName validates a client or supplier display name.
func ValidateEntityName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinEntityNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidEntityName)
	}

	if len(name) > MaxEntityNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidEntityName, MaxEntityNameLength)
	}

	if !utf8.ValidString(name) || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: contains control or invalid characters", ErrInvalidEntityName)
	}

	return nil
}

// ValidateEntityKind validates an entity kind.
func ValidateEntityKind(kind EntityKind) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntityKind, kind)
	}
	return nil
}

// ValidateEntityStatus validates an entity status.
func ValidateEntityStatus(status EntityStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEntityStatus, status)
	}
	return nil
}

// ValidateCreditLimit accepts nil or a non-negative limit.
func ValidateCreditLimit(limit *decimal.Decimal) error {
	if limit != nil && limit.IsNegative() {
		return ErrInvalidCreditLimit
	}
	return nil
}

// ValidateAmount validates the amount of a newly posted record.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	minAmount, _ := decimal.NewFromString(MinRecordAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinRecordAmount)
	}

	if amount.Exponent() < -MaxAmountScale && !amount.Equal(amount.Round(MaxAmountScale)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountScale)
	}

	maxAmount, _ := decimal.NewFromString(MaxRecordAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxRecordAmount)
	}

	return nil
}

// ValidateRecordDate requires a plain YYYY-MM-DD date.
func ValidateRecordDate(date string) error {
	if _, err := time.Parse(DateLayout, strings.TrimSpace(date)); err != nil {
		return fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, date)
	}
	return nil
}

// ValidateRecord validates a record before it is posted. Stored records are
// read tolerantly; new ones must be well formed.
func ValidateRecord(rec *Record) error {
	if !rec.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSourceType, rec.Type)
	}

	if rec.Type != SourceExpense && strings.TrimSpace(rec.EntityID) == "" {
		return ErrMissingEntity
	}

	amount, err := ParseAmount(rec.Amount)
	if err != nil {
		return err
	}
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if err := ValidateRecordDate(rec.Date); err != nil {
		return err
	}

	if rec.Type == SourceAdjustment && !rec.Direction.IsValid() {
		return ErrInvalidDirection
	}

	if len(rec.Reference) > MaxReferenceLength {
		return fmt.Errorf("%w: %d characters", ErrReferenceTooLong, MaxReferenceLength)
	}

	rec.Description = truncateUTF8(rec.Description, MaxDescriptionLength)

	return nil
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
