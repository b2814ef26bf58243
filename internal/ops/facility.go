package ops

import (
	"errors"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// FacilityChanges represents fields that can be updated on a facility.
// The name is the key and cannot change.
type FacilityChanges struct {
	Location     *string
	Capacity     *int
	ContactEmail *string
}

// CreateFacility stores f, replacing any facility with the same name.
// It reports whether an existing facility was replaced.
func CreateFacility(s Store, f model.Facility) (bool, error) {
	if f.Capacity < 0 {
		return false, &NegativeCapacityError{Facility: f.Name, Capacity: f.Capacity}
	}

	_, existed, err := s.Facilities().Find(f.Name)
	if err != nil && !record.IsCorrupt(err) {
		return false, err
	}
	if err := s.Facilities().Save(f); err != nil {
		return false, err
	}
	return existed, nil
}

// GetFacility returns the named facility.
func GetFacility(s Store, name string) (*model.Facility, error) {
	f, found, err := s.Facilities().Find(name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &NotFoundError{Type: EntityFacility, ID: name}
	}
	return &f, nil
}

// ListFacilities returns every facility in stored order.
// A corrupt collection yields an empty list and a *record.CorruptError.
func ListFacilities(s Store) ([]model.Facility, error) {
	return s.Facilities().LoadAll()
}

// DeleteFacility removes the named facility. Reservations referencing it are
// left in place; Check reports them.
func DeleteFacility(s Store, name string) error {
	removed, err := s.Facilities().Delete(model.Facility{Name: name})
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{Type: EntityFacility, ID: name}
	}
	return nil
}

// ModifyFacility applies changes to the named facility and returns the stored
// result.
func ModifyFacility(s Store, name string, changes FacilityChanges) (*model.Facility, error) {
	if changes.Capacity != nil && *changes.Capacity < 0 {
		return nil, &NegativeCapacityError{Facility: name, Capacity: *changes.Capacity}
	}

	updated, err := s.Facilities().Modify(name, func(f *model.Facility) error {
		if changes.Location != nil {
			f.Location = *changes.Location
		}
		if changes.Capacity != nil {
			f.Capacity = *changes.Capacity
		}
		if changes.ContactEmail != nil {
			f.ContactEmail = *changes.ContactEmail
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, &NotFoundError{Type: EntityFacility, ID: name}
		}
		return nil, err
	}
	return &updated, nil
}
