package models

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable machine-readable code attached to every business
// failure. Callers branch on the code; the message is for humans.
type ErrorCode string

const (
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateEntry      ErrorCode = "DUPLICATE_ENTRY"
	ErrCodeInsufficientStock   ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeInvalidTransferSpec ErrorCode = "INVALID_TRANSFER_SPEC"
	ErrCodeValidation          ErrorCode = "VALIDATION_ERROR"
)

// BusinessError is a rule failure surfaced to the caller. Retrying the same
// request will fail the same way. Infrastructure failures (lost connection,
// deadlock victim) are returned as plain errors so callers can tell the two
// classes apart.
type BusinessError struct {
	Code    ErrorCode
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

func NotFoundError(format string, args ...any) *BusinessError {
	return &BusinessError{Code: ErrCodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func DuplicateEntryError(format string, args ...any) *BusinessError {
	return &BusinessError{Code: ErrCodeDuplicateEntry, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStockError(format string, args ...any) *BusinessError {
	return &BusinessError{Code: ErrCodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransferSpecError(format string, args ...any) *BusinessError {
	return &BusinessError{Code: ErrCodeInvalidTransferSpec, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...any) *BusinessError {
	return &BusinessError{Code: ErrCodeValidation, Message: fmt.Sprintf(format, args...)}
}

// AsBusinessError unwraps err into a BusinessError, if it is one.
func AsBusinessError(err error) (*BusinessError, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
