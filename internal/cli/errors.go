package cli

import (
	"errors"
	"fmt"

	"github.com/jacksmith/lodge/internal/ops"
	"github.com/jacksmith/lodge/internal/record"
)

// ValidationError indicates a validation failure.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// FormatError returns a user-friendly error message prefixed with "error: ".
// Errors the user can act on get a hint line.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	msg := "error: " + err.Error()
	if hint := Hint(err); hint != "" {
		msg += "\nhint: " + hint
	}
	return msg
}

// Hint suggests a next command for err, or returns "".
func Hint(err error) string {
	var (
		corrupt  *record.CorruptError
		notFound *ops.NotFoundError
		noCap    *ops.NoCapacityError
		dup      *ops.DuplicateReservationError
	)
	switch {
	case errors.As(err, &corrupt):
		if corrupt.Collection == "reservations" {
			return "run 'lodge check --fix' to set the damaged reservations aside and start over"
		}
		return "run 'lodge check' to inspect the damaged collection; saving a record rewrites it"
	case errors.As(err, &notFound):
		switch notFound.Type {
		case ops.EntityFacility:
			return "run 'lodge facility list' to see known facilities"
		case ops.EntityCustomer:
			return "run 'lodge customer list' to see known customers"
		case ops.EntityReservation:
			return "run 'lodge reservations' to see current reservations"
		}
	case errors.As(err, &noCap):
		return fmt.Sprintf("raise it with 'lodge facility modify %s capacity <n>'", noCap.Facility)
	case errors.As(err, &dup):
		return "set allow_duplicate_reservations: true in .lodgeconfig.yaml to permit repeats"
	}
	return ""
}
