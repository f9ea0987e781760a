package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntityKind distinguishes clients from suppliers.
type EntityKind string

const (
	EntityKindClient   EntityKind = "client"
	EntityKindSupplier EntityKind = "supplier"
)

// IsValid reports whether k is a known kind.
func (k EntityKind) IsValid() bool {
	return k == EntityKindClient || k == EntityKindSupplier
}

// LedgerSources lists the source types that move this kind's balance.
// An unknown kind accepts every ledger source type.
func (k EntityKind) LedgerSources() []SourceType {
	switch k {
	case EntityKindClient:
		return []SourceType{SourceSale, SourceReceipt, SourceAdjustment}
	case EntityKindSupplier:
		return []SourceType{SourcePurchase, SourcePayment, SourceAdjustment}
	default:
		return []SourceType{SourceSale, SourcePurchase, SourceReceipt, SourcePayment, SourceAdjustment}
	}
}

// EntityStatus is the lifecycle state of an entity.
type EntityStatus string

const (
	EntityStatusActive   EntityStatus = "active"
	EntityStatusInactive EntityStatus = "inactive"
	EntityStatusBlocked  EntityStatus = "blocked"
)

// IsValid reports whether s is a known status.
func (s EntityStatus) IsValid() bool {
	switch s {
	case EntityStatusActive, EntityStatusInactive, EntityStatusBlocked:
		return true
	}
	return false
}

// Entity is a client or a supplier with an account balance.
type Entity struct {
	ID             string
	Kind           EntityKind
	Name           string
	OpeningBalance decimal.Decimal
	CreditLimit    *decimal.Decimal
	Status         EntityStatus
	// Balance is the stored running balance maintained on every posted record.
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidatePosting checks that a record of type st may be posted to the entity.
func (e *Entity) ValidatePosting(st SourceType) error {
	if e.Status == EntityStatusBlocked {
		return ErrEntityBlocked
	}

	for _, allowed := range e.Kind.LedgerSources() {
		if allowed == st {
			return nil
		}
	}

	return ErrEntityKindMismatch
}

// ApplyEntry returns the balance after applying entry.
func (e *Entity) ApplyEntry(entry LedgerEntry) decimal.Decimal {
	return e.Balance.Add(entry.Net())
}

// CreditPosition describes a balance against the entity's credit limit.
type CreditPosition struct {
	Limit     decimal.Decimal
	Available decimal.Decimal
	Exceeded  bool
}

// CreditPosition reports how balance stands against the credit limit.
// It returns false when the entity has no limit.
func (e *Entity) CreditPosition(balance decimal.Decimal) (CreditPosition, bool) {
	if e.CreditLimit == nil {
		return CreditPosition{}, false
	}

	limit := *e.CreditLimit
	return CreditPosition{
		Limit:     limit,
		Available: limit.Sub(balance),
		Exceeded:  balance.GreaterThan(limit),
	}, true
}
