package domain

import "errors"

var (
	// Entity errors
	ErrEntityNotFound     = errors.New("entity not found")
	ErrEntityBlocked      = errors.New("entity is blocked")
	ErrEntityKindMismatch = errors.New("record type does not apply to entity kind")

	// Record errors
	ErrInvalidSourceType = errors.New("invalid source type")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidDirection  = errors.New("adjustment direction must be debit or credit")
	ErrMissingEntity     = errors.New("record requires an entity")
	ErrRecordNotFound    = errors.New("record not found")
)
