package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrMissingField    = errors.New("record is missing a field required by the receipt")
	ErrInvalidImage    = errors.New("terms image could not be decoded")
	ErrStorageDisabled = errors.New("terms image storage is not configured")
)

// MissingFieldError names the field a receipt could not be rendered without
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cannot render receipt: missing %s", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }
