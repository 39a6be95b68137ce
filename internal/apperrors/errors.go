package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not a member of the household it is acting on.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned for infrastructure failures that should not leak details.
var ErrInternal = errors.New("internal error")

// Ledger errors. The wrapped sentinels keep errors.Is working on the broad kind.
var (
	ErrInvalidAmount           = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrEmptyCart               = fmt.Errorf("%w: no purchased items in the shopping list", ErrValidation)
	ErrAccountNotFound         = fmt.Errorf("%w: account", ErrNotFound)
	ErrCardNotFound            = fmt.Errorf("%w: credit card", ErrNotFound)
	ErrInvoiceNotFound         = fmt.Errorf("%w: invoice", ErrNotFound)
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInsufficientCreditLimit = errors.New("insufficient credit limit")
)

// AppError carries an HTTP status and a client-safe message on top of an underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Internal wraps an infrastructure failure as a 500 AppError that still matches ErrInternal.
func Internal(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, errors.Join(ErrInternal, err))
}

// StatusCode maps an error onto the HTTP status the API answers with.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientFunds), errors.Is(err, ErrInsufficientCreditLimit):
		return http.StatusUnprocessableEntity
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
