package costing

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ValidationError reports caller-supplied data failing a precondition.
// It is raised before any store call and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// InUseError reports a delete blocked by a dependent record. The
// underlying delete is never attempted.
type InUseError struct {
	Resource string
	Reason   string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s is in use: %s", e.Resource, e.Reason)
}

// NotFoundError reports an operation targeting a nonexistent record.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// notFoundOrErr converts gorm's record-not-found into a NotFoundError and
// passes every other store error through untouched.
func notFoundOrErr(err error, resource string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInUse reports whether err is an InUseError
func IsInUse(err error) bool {
	var ie *InUseError
	return errors.As(err, &ie)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
