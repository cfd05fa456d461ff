package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed field with a caller-facing message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = validator.New()

func ValidateStruct(data interface{}) []FieldError {
	var errors []FieldError
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, FieldError{
				Field:   err.Field(),
				Message: message(err),
			})
		}
	}
	return errors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "gte":
		if err.Param() == "0" {
			return fmt.Sprintf("%s must be a non-negative integer", err.Field())
		}
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
