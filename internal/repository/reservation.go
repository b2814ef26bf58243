package repository

import (
	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// ReservationRepository stores reservations. Unlike facilities and customers,
// the same (customer, facility) pair may be stored more than once.
type ReservationRepository struct {
	store *record.Store[model.Reservation]
}

// NewReservationRepository returns a repository over the given backend.
func NewReservationRepository(b record.Backend, opts ...record.Option) *ReservationRepository {
	return &ReservationRepository{
		store: record.New("reservations", b, model.ReservationCodec{}, model.ReservationKey, opts...),
	}
}

func (r *ReservationRepository) LoadAll() ([]model.Reservation, error) {
	return r.store.Load()
}

// Append stores res without checking for an identical existing record.
func (r *ReservationRepository) Append(res model.Reservation) error {
	return r.store.Update(func(reservations []model.Reservation) ([]model.Reservation, error) {
		return append(reservations, res), nil
	})
}

// CancelAll removes every reservation for the pair and returns how many were
// removed. The collection is not rewritten when nothing matches.
func (r *ReservationRepository) CancelAll(customerEmail, facilityName string) (int, error) {
	removed := 0
	err := r.store.Update(func(reservations []model.Reservation) ([]model.Reservation, error) {
		var kept []model.Reservation
		kept, removed = RemovePair(reservations, customerEmail, facilityName)
		if removed == 0 {
			return nil, record.ErrNoChange
		}
		return kept, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Count returns how many reservations exist for the pair.
func (r *ReservationRepository) Count(customerEmail, facilityName string) (int, error) {
	reservations, err := r.store.Load()
	if err != nil {
		return 0, err
	}
	return CountPair(reservations, customerEmail, facilityName), nil
}

// Update runs fn over the whole collection under the collection lock.
// Unlike Append it refuses to run on a corrupt collection, so callers never
// rewrite reservations they could not read. See record.Store.UpdateStrict.
func (r *ReservationRepository) Update(fn func([]model.Reservation) ([]model.Reservation, error)) error {
	return r.store.UpdateStrict(fn)
}

// UpdateOrUndo is Update with a compensation step run, still under the lock,
// when the result of fn cannot be written.
func (r *ReservationRepository) UpdateOrUndo(fn func([]model.Reservation) ([]model.Reservation, error), undo func() error) error {
	return r.store.UpdateStrictOrUndo(fn, undo)
}

// Quarantine sets aside an unreadable reservations collection and starts an
// empty one. It returns where the old data went, or "" if nothing was done.
func (r *ReservationRepository) Quarantine() (string, error) {
	return r.store.Quarantine()
}

func (r *ReservationRepository) Location() string {
	return r.store.Location()
}

// CountPair returns how many of reservations belong to the pair.
func CountPair(reservations []model.Reservation, customerEmail, facilityName string) int {
	n := 0
	for _, res := range reservations {
		if res.Matches(customerEmail, facilityName) {
			n++
		}
	}
	return n
}

// RemovePair returns reservations without the pair's records, and how many
// were dropped. The input slice is not modified.
func RemovePair(reservations []model.Reservation, customerEmail, facilityName string) ([]model.Reservation, int) {
	kept := make([]model.Reservation, 0, len(reservations))
	for _, res := range reservations {
		if !res.Matches(customerEmail, facilityName) {
			kept = append(kept, res)
		}
	}
	return kept, len(reservations) - len(kept)
}
