package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/storeledger/internal/domain"
)

// EntityUseCase handles client and supplier management.
type EntityUseCase struct {
	entityRepo EntityRepository
	idGen      IDGenerator
}

// NewEntityUseCase creates a new EntityUseCase.
func NewEntityUseCase(entityRepo EntityRepository, idGen IDGenerator) *EntityUseCase {
	return &EntityUseCase{
		entityRepo: entityRepo,
		idGen:      idGen,
	}
}

// CreateEntityInput represents input for creating a client or supplier.
type CreateEntityInput struct {
	CreditLimit    *decimal.Decimal
	Kind           domain.EntityKind
	Name           string
	Status         domain.EntityStatus
	OpeningBalance decimal.Decimal
}

// CreateEntity creates a new client or supplier. Its stored balance starts at
// the opening balance.
func (uc *EntityUseCase) CreateEntity(ctx context.Context, input CreateEntityInput) (*domain.Entity, error) {
	if err := domain.ValidateEntityKind(input.Kind); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if err := domain.ValidateEntityName(name); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.EntityStatusActive
	}
	if err := domain.ValidateEntityStatus(status); err != nil {
		return nil, err
	}

	if err := domain.ValidateCreditLimit(input.CreditLimit); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	entity := &domain.Entity{
		ID:             uc.idGen.Generate(),
		Kind:           input.Kind,
		Name:           name,
		OpeningBalance: input.OpeningBalance,
		CreditLimit:    input.CreditLimit,
		Status:         status,
		Balance:        input.OpeningBalance,
		Version:        0,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.entityRepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

// GetEntity retrieves an entity by ID.
func (uc *EntityUseCase) GetEntity(ctx context.Context, id string) (*domain.Entity, error) {
	return uc.entityRepo.GetByID(ctx, id)
}

// ListEntitiesInput represents input for listing entities.
type ListEntitiesInput struct {
	Kind   domain.EntityKind
	Limit  int
	Offset int
}

// ListEntities lists entities with pagination, optionally filtered by kind.
func (uc *EntityUseCase) ListEntities(ctx context.Context, input ListEntitiesInput) ([]*domain.Entity, error) {
	if input.Kind != "" {
		if err := domain.ValidateEntityKind(input.Kind); err != nil {
			return nil, err
		}
	}

	if input.Limit <= 0 {
		input.Limit = 20
	}
	if input.Limit > 100 {
		input.Limit = 100
	}
	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.entityRepo.List(ctx, input.Kind, input.Limit, input.Offset)
}
