// Package repository provides typed access to the lodge collections.
package repository

import (
	"fmt"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// FacilityRepository stores facilities keyed by name.
type FacilityRepository struct {
	store *record.Store[model.Facility]
}

// NewFacilityRepository returns a repository over the given backend.
func NewFacilityRepository(b record.Backend, opts ...record.Option) *FacilityRepository {
	return &FacilityRepository{
		store: record.New("facilities", b, model.FacilityCodec{}, model.FacilityKey, opts...),
	}
}

// LoadAll returns every facility. On a corrupt collection it returns an empty
// slice and a *record.CorruptError.
func (r *FacilityRepository) LoadAll() ([]model.Facility, error) {
	return r.store.Load()
}

// Find looks up a facility by name.
func (r *FacilityRepository) Find(name string) (model.Facility, bool, error) {
	return r.store.Find(name)
}

// Save inserts or replaces the facility with f's name.
func (r *FacilityRepository) Save(f model.Facility) error {
	return r.store.Upsert(f)
}

// Delete removes every facility named f.Name and reports whether any existed.
func (r *FacilityRepository) Delete(f model.Facility) (bool, error) {
	n, err := r.store.Delete(f.Name)
	return n > 0, err
}

// Modify applies fn to the named facility and saves the result as a single
// locked cycle. It returns record.ErrNotFound if there is no such facility and
// writes nothing if fn fails.
func (r *FacilityRepository) Modify(name string, fn func(f *model.Facility) error) (model.Facility, error) {
	var updated model.Facility
	err := r.store.UpdateStrict(func(facilities []model.Facility) ([]model.Facility, error) {
		for i := range facilities {
			if facilities[i].Name != name {
				continue
			}
			if err := fn(&facilities[i]); err != nil {
				return nil, err
			}
			if facilities[i].Name != name {
				return nil, fmt.Errorf("facility name cannot be changed by Modify")
			}
			updated = facilities[i]
			return facilities, nil
		}
		return nil, fmt.Errorf("facility %q: %w", name, record.ErrNotFound)
	})
	return updated, err
}

// Location describes where the collection is stored.
func (r *FacilityRepository) Location() string {
	return r.store.Location()
}
