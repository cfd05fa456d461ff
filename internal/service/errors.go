package service

import (
	"errors"

	"go-inventory-api/pkg/validator"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateName   = errors.New("product name already exists")
	ErrNoProducts      = errors.New("no products to export")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields []validator.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Message
}
