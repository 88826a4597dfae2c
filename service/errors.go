package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhijeet-0165/ridefusion/storage"
)

var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrBookingFailed     = errors.New("booking failed")
	ErrCancelFailed      = errors.New("cancel failed")
	ErrPurchaseFailed    = errors.New("purchase failed")

	ErrBookingInFlight  = errors.New("another request for this ride or booking is in progress")
	ErrRideFull         = errors.New("ride is full")
	ErrRideNotFound     = errors.New("ride not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	ErrUnknownPassOption  = errors.New("unknown pass option")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already exists")

	// ErrConnection is surfaced when the datastore cannot be reached.
	ErrConnection = storage.ErrConnection
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrRideNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrUnknownPassOption)
}

// fail tags cause with the operation-level error kind while keeping it inspectable.
func fail(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}

// validateStruct turns the first tag violation into a ValidationError.
func validateStruct(v interface{}) error {
	err := storage.Validator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return ValidationError{Field: lowerFirst(fe.Field()), Msg: describeTag(fe)}
	}
	return ValidationError{Msg: err.Error()}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "eqfield":
		return "does not match " + lowerFirst(fe.Param())
	case "nefield":
		return "must differ from " + lowerFirst(fe.Param())
	case "datetime":
		return "must use the format " + fe.Param()
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
