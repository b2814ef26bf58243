// Package ops provides business logic for modifying lodge data.
package ops

import (
	"errors"
	"fmt"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
	"github.com/jacksmith/lodge/internal/repository"
)

// Reservation operations hold the reservations lock for their whole run and
// take the facilities lock (and briefly the customers lock) inside it. Any
// other operation touching more than one collection must nest in the same
// order: reservations, facilities, customers.

// CancelResult describes the outcome of cancelling a reservation.
type CancelResult struct {
	// Removed is how many reservation records matched and were removed.
	Removed int
	// CapacityRestored is false when the facility no longer exists.
	CapacityRestored bool
	// Capacity is the facility's capacity after the cancel.
	Capacity int
}

// ReservationFilter narrows ListReservations. Empty fields match everything.
type ReservationFilter struct {
	CustomerEmail string
	FacilityName  string
}

// CreateReservation reserves one unit of capacity at a facility for a
// customer. The facility is decremented first and the reservation appended
// second; if the append cannot be persisted the decrement is undone before the
// reservations lock is released.
//
// Errors: *NotFoundError (customer, then facility), *NoCapacityError,
// *DuplicateReservationError, *record.CorruptError, or an I/O error.
func CreateReservation(s Store, customerEmail, facilityName string) (*model.Reservation, error) {
	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	res := model.Reservation{CustomerEmail: customerEmail, FacilityName: facilityName}

	apply := func(reservations []model.Reservation) ([]model.Reservation, error) {
		_, found, err := s.Customers().Find(customerEmail)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &NotFoundError{Type: EntityCustomer, ID: customerEmail}
		}

		_, err = s.Facilities().Modify(facilityName, func(f *model.Facility) error {
			if f.Capacity <= 0 {
				return &NoCapacityError{Facility: facilityName}
			}
			if !cfg.AllowDuplicateReservations && repository.CountPair(reservations, customerEmail, facilityName) > 0 {
				return &DuplicateReservationError{CustomerEmail: customerEmail, FacilityName: facilityName}
			}
			f.Capacity--
			return nil
		})
		if err != nil {
			if errors.Is(err, record.ErrNotFound) {
				return nil, &NotFoundError{Type: EntityFacility, ID: facilityName}
			}
			return nil, err
		}
		return append(reservations, res), nil
	}
	// Only reached once the decrement has been written.
	undo := func() error {
		return rollbackCapacity(s, facilityName, +1)
	}

	if err := s.Reservations().UpdateOrUndo(apply, undo); err != nil {
		return nil, err
	}

	s.Logger().Debug("reservation created", "customer", customerEmail, "facility", facilityName)
	return &res, nil
}

// CancelReservation removes every reservation for the pair and returns one
// unit of capacity to the facility. The increment has no upper bound: it does
// not know the facility's original capacity. If the facility has been deleted
// the reservation is still removed and CapacityRestored is false. If the
// removal cannot be persisted the increment is undone before the reservations
// lock is released.
//
// Errors: *NotFoundError (reservation), *record.CorruptError, or an I/O error.
func CancelReservation(s Store, customerEmail, facilityName string) (*CancelResult, error) {
	result := &CancelResult{}

	apply := func(reservations []model.Reservation) ([]model.Reservation, error) {
		kept, removed := repository.RemovePair(reservations, customerEmail, facilityName)
		if removed == 0 {
			return nil, &NotFoundError{Type: EntityReservation, ID: reservationID(customerEmail, facilityName)}
		}
		result.Removed = removed

		updated, err := s.Facilities().Modify(facilityName, func(f *model.Facility) error {
			f.Capacity++
			return nil
		})
		switch {
		case errors.Is(err, record.ErrNotFound):
			s.Logger().Info("facility of cancelled reservation no longer exists",
				"customer", customerEmail,
				"facility", facilityName)
		case err != nil:
			return nil, err
		default:
			result.CapacityRestored = true
			result.Capacity = updated.Capacity
		}
		return kept, nil
	}
	undo := func() error {
		if !result.CapacityRestored {
			return nil
		}
		return rollbackCapacity(s, facilityName, -1)
	}

	if err := s.Reservations().UpdateOrUndo(apply, undo); err != nil {
		return nil, err
	}

	s.Logger().Debug("reservation cancelled",
		"customer", customerEmail,
		"facility", facilityName,
		"removed", result.Removed)
	return result, nil
}

// ListReservations returns the stored reservations matching filter, in stored
// order. A corrupt collection yields an empty list and a *record.CorruptError.
func ListReservations(s Store, filter ReservationFilter) ([]model.Reservation, error) {
	reservations, err := s.Reservations().LoadAll()
	if err != nil {
		return reservations, err
	}

	var result []model.Reservation
	for _, r := range reservations {
		if filter.CustomerEmail != "" && r.CustomerEmail != filter.CustomerEmail {
			continue
		}
		if filter.FacilityName != "" && r.FacilityName != filter.FacilityName {
			continue
		}
		result = append(result, r)
	}
	return result, nil
}

// rollbackCapacity undoes a capacity change made by a reservation operation.
// It never takes capacity below zero. A failure is logged and returned.
func rollbackCapacity(s Store, facilityName string, delta int) error {
	_, err := s.Facilities().Modify(facilityName, func(f *model.Facility) error {
		if f.Capacity+delta < 0 {
			return record.ErrNoChange
		}
		f.Capacity += delta
		return nil
	})
	if err != nil {
		s.Logger().Warn("capacity rollback failed",
			"facility", facilityName,
			"delta", delta,
			"error", err)
		return fmt.Errorf("failed to roll back capacity of %s: %w", facilityName, err)
	}
	return nil
}
