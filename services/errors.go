package services

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrFullyBooked means the slot lacks enough free tables. It is not retried.
	ErrFullyBooked = errors.New("this time slot is fully booked, please choose another time")
	// ErrTransientConflict means every attempt lost a race to another booking.
	// Repeating the identical request is reasonable.
	ErrTransientConflict = errors.New("could not confirm reservation due to concurrent booking, please try again")
)

// Validation codes
const (
	CodeInvalidTimeSlot = "invalid_time_slot"
	CodeOffGrid         = "off_grid"
	CodeBeforeOpening   = "before_opening"
	CodeAfterClosing    = "after_closing"
	CodeInvalidGuests   = "invalid_guests"
	CodePartyTooLarge   = "party_too_large"
	CodeMissingField    = "missing_field"
	CodeInvalidEmail    = "invalid_email"
	CodeInvalidName     = "invalid_name"
	CodeInvalidPhone    = "invalid_phone"
)

// ValidationError is a user-facing rejection raised before storage is touched.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(code, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidationCode returns the code of a wrapped *ValidationError, or "".
func ValidationCode(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Code
	}
	return ""
}
