package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
	"github.com/iho/storeledger/internal/usecase"
)

// EntityService defines the behavior needed by EntityHandler.
type EntityService interface {
	CreateEntity(ctx context.Context, input usecase.CreateEntityInput) (*domain.Entity, error)
	GetEntity(ctx context.Context, id string) (*domain.Entity, error)
	ListEntities(ctx context.Context, input usecase.ListEntitiesInput) ([]*domain.Entity, error)
}

// EntityHandler handles client and supplier HTTP requests.
type EntityHandler struct {
	entityUC EntityService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entityUC EntityService) *EntityHandler {
	return &EntityHandler{entityUC: entityUC}
}

// Create creates a new client or supplier.
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEntityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeRequestError(w, "invalid entity", err)
		return
	}

	entity, err := h.entityUC.CreateEntity(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entity", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntityFromDomain(entity))
}

// Get retrieves an entity by ID.
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entity ID", "")
		return
	}

	entity, err := h.entityUC.GetEntity(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entity", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntityFromDomain(entity))
}

// List lists entities, optionally filtered by kind.
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	entities, err := h.entityUC.ListEntities(r.Context(), usecase.ListEntitiesInput{
		Kind:   domain.EntityKind(r.URL.Query().Get("kind")),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entities", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntitiesResponse{
		Entities: dto.EntitiesFromDomain(entities),
		Total:    int64(len(entities)),
	})
}
