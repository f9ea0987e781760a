package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEntity_ValidatePosting(t *testing.T) {
	tests := []struct {
		name    string
		kind    EntityKind
		status  EntityStatus
		st      SourceType
		wantErr error
	}{
		{name: "client sale", kind: EntityKindClient, status: EntityStatusActive, st: SourceSale},
		{name: "client receipt", kind: EntityKindClient, status: EntityStatusActive, st: SourceReceipt},
		{name: "client purchase", kind: EntityKindClient, status: EntityStatusActive, st: SourcePurchase, wantErr: ErrEntityKindMismatch},
		{name: "supplier payment", kind: EntityKindSupplier, status: EntityStatusInactive, st: SourcePayment},
		{name: "supplier sale", kind: EntityKindSupplier, status: EntityStatusActive, st: SourceSale, wantErr: ErrEntityKindMismatch},
		{name: "expense never posts to entity", kind: EntityKindSupplier, status: EntityStatusActive, st: SourceExpense, wantErr: ErrEntityKindMismatch},
		{name: "blocked entity", kind: EntityKindClient, status: EntityStatusBlocked, st: SourceSale, wantErr: ErrEntityBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entity{Kind: tt.kind, Status: tt.status}
			err := e.ValidatePosting(tt.st)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEntity_ApplyEntry(t *testing.T) {
	e := &Entity{Balance: decimal.NewFromInt(100)}

	got := e.ApplyEntry(LedgerEntry{Debit: decimal.NewFromInt(50), Credit: decimal.Zero})
	if !got.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150, got %s", got)
	}

	got = e.ApplyEntry(LedgerEntry{Debit: decimal.Zero, Credit: decimal.NewFromInt(130)})
	if !got.Equal(decimal.NewFromInt(-30)) {
		t.Fatalf("expected -30, got %s", got)
	}
}

func TestEntity_CreditPosition(t *testing.T) {
	e := &Entity{}
	if _, ok := e.CreditPosition(decimal.NewFromInt(10)); ok {
		t.Fatal("expected no position without a limit")
	}

	limit := decimal.NewFromInt(1000)
	e.CreditLimit = &limit

	pos, ok := e.CreditPosition(decimal.NewFromInt(1200))
	if !ok {
		t.Fatal("expected a position")
	}
	if !pos.Exceeded || !pos.Available.Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("unexpected position %+v", pos)
	}

	pos, _ = e.CreditPosition(decimal.NewFromInt(400))
	if pos.Exceeded || !pos.Available.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("unexpected position %+v", pos)
	}
}
