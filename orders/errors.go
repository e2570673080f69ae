package orders

import (
	"errors"
	"fmt"
)

// ErrCompleted guards every mutation of a checked-out order
var ErrCompleted = errors.New("order completed, cannot be modified")

// ValidationError names the offending field so handlers can surface it
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NotFoundError covers missing or inactive referenced rows
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
