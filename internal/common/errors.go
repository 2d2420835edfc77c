package common

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced table/order/item/product/sale id
// does not exist. Handlers map it to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFound builds a NotFoundError for the given resource and id.
func NewNotFound(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

// ConflictError reports an operation that violates the order/table state
// machine (table not free, order not open, empty order on close, ownership
// mismatch). The message always names the ids involved and the state that
// caused the rejection. Handlers map it to 409.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict builds a ConflictError with a formatted message.
func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var cf *ConflictError
	return errors.As(err, &cf)
}
