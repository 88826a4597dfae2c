package storage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrConnection = errors.New("datastore unreachable")
)

// DataIntegrityError reports a stored record that does not satisfy its model.
type DataIntegrityError struct {
	Entity string
	ID     string
	Err    error
}

func (e *DataIntegrityError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("malformed %s record: %v", e.Entity, e.Err)
	}
	return fmt.Sprintf("malformed %s record %s: %v", e.Entity, e.ID, e.Err)
}

func (e *DataIntegrityError) Unwrap() error {
	return e.Err
}

func IsDataIntegrity(err error) bool {
	var target *DataIntegrityError
	return errors.As(err, &target)
}

var validate = validator.New()

// Validator is the validator shared by record integrity checks and request
// validation, so struct tag metadata is cached once.
func Validator() *validator.Validate {
	return validate
}

// CheckIntegrity validates a decoded record against its struct tags.
func CheckIntegrity(entity, id string, record interface{}) error {
	if err := validate.Struct(record); err != nil {
		return &DataIntegrityError{Entity: entity, ID: id, Err: err}
	}
	return nil
}
