package services

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindStore         Kind = "store"
	KindPartialCommit Kind = "partial_commit"
)

var (
	ErrAddressNotFound    = errors.New("address not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrOrderNotFound      = errors.New("order not found")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCartChanged        = errors.New("cart changed during checkout")
	ErrInvalidTransition  = errors.New("invalid status transition")
)

// Error is the classified failure every service method returns.
type Error struct {
	Kind    Kind
	Message string
	// OrderID is set for partial commits: the order exists but follow-up
	// work did not finish.
	OrderID uint
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(sentinel error, message string) error {
	return &Error{Kind: KindNotFound, Message: message, Err: sentinel}
}

func ConflictError(sentinel error, message string) error {
	return &Error{Kind: KindConflict, Message: message, Err: sentinel}
}

// StoreError wraps a persistence failure. Already classified errors pass
// through unchanged.
func StoreError(op string, err error) error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	return &Error{Kind: KindStore, Message: op + " failed", Err: err}
}

func PartialCommitError(orderID uint, err error) error {
	return &Error{
		Kind:    KindPartialCommit,
		Message: fmt.Sprintf("order %d was placed but the cart could not be cleared", orderID),
		OrderID: orderID,
		Err:     err,
	}
}

// KindOf returns the kind of a service error, or KindStore for anything
// unclassified.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStore
}
