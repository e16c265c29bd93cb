package service

import (
	"errors"
	"fmt"

	"go-pos-ledger/internal/repository"
	"go-pos-ledger/pkg/validator"
)

var (
	ErrIncompleteClientInfo     = errors.New("client name, surname and identification are required")
	ErrInvalidProductLine       = errors.New("invalid product line")
	ErrInsufficientInventory    = errors.New("insufficient inventory")
	ErrIncompletePayment        = errors.New("payments do not cover the sale total")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrNotFound                 = repository.ErrNotFound
	ErrPreconditionViolation    = errors.New("precondition violation")
	ErrChangeSettlementRequired = errors.New("overpayment requires a change return method")
	ErrIncompleteChangeInfo     = errors.New("transfer change requires reference and bank")
	ErrValidation               = errors.New("validation failed")
)

// SaleError carries the sale-engine operation and, when relevant, the index of
// the product line that failed. Line is -1 for sale-wide failures.
type SaleError struct {
	Op   string
	Line int
	Err  error
}

// Error implements the error interface.
func (e *SaleError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("sale: %s failed on line %d: %v", e.Op, e.Line+1, e.Err)
	}
	return fmt.Sprintf("sale: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SaleError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *SaleError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func saleError(op string, err error) error {
	return &SaleError{Op: op, Line: -1, Err: err}
}

func lineError(op string, line int, err error) error {
	return &SaleError{Op: op, Line: line, Err: err}
}

// preconditionf wraps ErrPreconditionViolation with a detail message.
func preconditionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionViolation, fmt.Sprintf(format, args...))
}

// validateStruct reports the first struct-tag failure as ErrValidation.
func validateStruct(v interface{}) error {
	if errs := validator.ValidateStruct(v); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on tag '%s'", ErrValidation, first.FailedField, first.Tag)
	}
	return nil
}
