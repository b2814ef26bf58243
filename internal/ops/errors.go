package ops

import (
	"errors"
	"fmt"
)

// EntityType names the kind of record an error refers to.
type EntityType string

const (
	EntityFacility    EntityType = "facility"
	EntityCustomer    EntityType = "customer"
	EntityReservation EntityType = "reservation"
)

// NotFoundError indicates a lookup by key found nothing. No mutation happened.
type NotFoundError struct {
	Type EntityType
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// IsNotFound reports whether err is a *NotFoundError for the given type.
func IsNotFound(err error, typ EntityType) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Type == typ
}

// NoCapacityError indicates a reservation was refused because the facility has
// no units left. No mutation happened.
type NoCapacityError struct {
	Facility string
}

func (e *NoCapacityError) Error() string {
	return fmt.Sprintf("facility %s has no capacity left", e.Facility)
}

// DuplicateReservationError indicates the customer already holds a reservation
// at the facility and duplicates are not allowed. No mutation happened.
type DuplicateReservationError struct {
	CustomerEmail string
	FacilityName  string
}

func (e *DuplicateReservationError) Error() string {
	return fmt.Sprintf("customer %s already has a reservation at %s", e.CustomerEmail, e.FacilityName)
}

// NegativeCapacityError indicates an attempt to store a facility with a
// capacity below zero.
type NegativeCapacityError struct {
	Facility string
	Capacity int
}

func (e *NegativeCapacityError) Error() string {
	return fmt.Sprintf("capacity of %s must not be negative, got %d", e.Facility, e.Capacity)
}

// reservationID formats a reservation pair for NotFoundError.
func reservationID(customerEmail, facilityName string) string {
	return fmt.Sprintf("%s at %s", customerEmail, facilityName)
}
