package domain

import (
	"errors"
	"fmt"
)

var ErrRecordNotFound = errors.New("record not found")
var ErrInvalidState = errors.New("invalid state")

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrCardExpired       = errors.New("card expired")
	ErrCardInactive      = errors.New("card not active")
	ErrMerchantInactive  = errors.New("merchant not active")
	ErrAccountInactive   = errors.New("account not active")
	ErrFraudFlagged      = errors.New("transaction flagged for fraud")
	ErrInvalidPAN        = errors.New("invalid card number")
	ErrInvalidCVV        = errors.New("invalid card verification value")
	ErrInvalidExpiry     = errors.New("invalid card expiry")
	ErrCryptoFailure     = errors.New("crypto failure")
)

var (
	ErrEmptyBatch     = errors.New("settlement batch has no transactions")
	ErrMixedCurrency  = errors.New("settlement batch mixes currencies")
	ErrAlreadyBatched = errors.New("transaction already belongs to a settlement batch")
)

var (
	ErrTruncatedMessage   = errors.New("truncated message")
	ErrInvalidFieldLength = errors.New("invalid field length")
	ErrInvalidEncoding    = errors.New("invalid field encoding")
	ErrInvalidFieldNumber = errors.New("invalid field number")
	ErrDuplicateField     = errors.New("duplicate field")
	ErrMissingField       = errors.New("missing field")
	ErrUnexpectedMTI      = errors.New("unexpected message type")
)

// NotFoundError names the missing entity. errors.Is(err, ErrRecordNotFound)
// holds for every NotFoundError.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

func NotFound(entity string, id fmt.Stringer) error {
	return &NotFoundError{Entity: entity, ID: id.String()}
}

type InvalidStateError struct {
	Entity   string
	Expected string
	Actual   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s in status %s, expected %s", e.Entity, e.Actual, e.Expected)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

func InvalidState[S ~string](entity string, expected, actual S) error {
	return &InvalidStateError{Entity: entity, Expected: string(expected), Actual: string(actual)}
}
