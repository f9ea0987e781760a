package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// CreateEntityRequest represents a request to create a client or supplier.
type CreateEntityRequest struct {
	Kind           string           `json:"kind" validate:"required,oneof=client supplier"`
	Name           string           `json:"name" validate:"required,max=255"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
	CreditLimit    *decimal.Decimal `json:"credit_limit,omitempty"`
	Status         string           `json:"status,omitempty" validate:"omitempty,oneof=active inactive blocked"`
}

// Validate checks the request shape.
func (r *CreateEntityRequest) Validate() error {
	return validateStruct(r)
}

// ToUseCaseInput converts to use case input.
func (r *CreateEntityRequest) ToUseCaseInput() usecase.CreateEntityInput {
	input := usecase.CreateEntityInput{
		Kind:        domain.EntityKind(r.Kind),
		Name:        r.Name,
		Status:      domain.EntityStatus(r.Status),
		CreditLimit: r.CreditLimit,
	}
	if r.OpeningBalance != nil {
		input.OpeningBalance = *r.OpeningBalance
	}
	return input
}

// PostRecordRequest represents a sale, purchase, receipt, payment,
// adjustment or expense to record. Amount accepts a JSON number or string.
type PostRecordRequest struct {
	Type        string        `json:"type" validate:"required,oneof=sale purchase receipt payment adjustment expense"`
	EntityID    string        `json:"entity_id,omitempty" validate:"required_unless=Type expense"`
	BranchID    string        `json:"branch_id,omitempty"`
	Date        string        `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      domain.Amount `json:"amount" validate:"required"`
	Reference   string        `json:"reference,omitempty" validate:"max=64"`
	Description string        `json:"description,omitempty"`
	Direction   string        `json:"direction,omitempty" validate:"omitempty,oneof=debit credit"`
}

// Validate checks the request shape.
func (r *PostRecordRequest) Validate() error {
	return validateStruct(r)
}

// ToUseCaseInput converts to use case input.
func (r *PostRecordRequest) ToUseCaseInput() usecase.PostRecordInput {
	return usecase.PostRecordInput{
		Type:        domain.SourceType(r.Type),
		EntityID:    r.EntityID,
		BranchID:    r.BranchID,
		Date:        r.Date,
		Amount:      r.Amount,
		Reference:   r.Reference,
		Description: r.Description,
		Direction:   domain.Direction(r.Direction),
	}
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
