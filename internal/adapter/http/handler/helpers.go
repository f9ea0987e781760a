package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/storeledger/internal/adapter/http/dto"
	"github.com/iho/storeledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeRequestError writes a 400, listing invalid fields when err carries them.
func writeRequestError(w http.ResponseWriter, message string, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
			Error:   message,
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
		return
	}
	writeError(w, http.StatusBadRequest, message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEntityBlocked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEntityKindMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSourceType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrMissingEntity),
		errors.Is(err, domain.ErrReferenceTooLong),
		errors.Is(err, domain.ErrInvalidEntityName),
		errors.Is(err, domain.ErrInvalidEntityKind),
		errors.Is(err, domain.ErrInvalidEntityStatus),
		errors.Is(err, domain.ErrInvalidCreditLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseRangeQuery reads the from and to query parameters.
func parseRangeQuery(r *http.Request) (domain.DateRange, error) {
	q := r.URL.Query()
	return domain.ParseDateRange(q.Get("from"), q.Get("to"))
}
