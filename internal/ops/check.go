package ops

import (
	"errors"
	"fmt"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// IssueType represents the type of integrity issue.
type IssueType string

const (
	IssueCorruptCollection    IssueType = "corrupt_collection"
	IssueMissingCustomer      IssueType = "missing_customer"
	IssueMissingFacility      IssueType = "missing_facility"
	IssueDuplicateReservation IssueType = "duplicate_reservation"
)

// Issue represents a data integrity problem found by Check.
type Issue struct {
	Type    IssueType
	Item    string // collection name or reservation pair
	Message string
	// Fixable issues are repaired by Fix.
	Fixable bool
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s - %s", i.Item, i.Type, i.Message)
}

// reservationsItem names the reservations collection in issues.
const reservationsItem = "reservations"

// ErrCannotFix is returned by Fix when a collection it depends on is corrupt.
var ErrCannotFix = errors.New("cannot repair references while a collection is corrupt")

// Check reports corrupt collections, reservations that reference a customer or
// facility that no longer exists, and pairs reserved more than once.
// Reference checks against a corrupt collection are skipped.
func Check(s Store) ([]Issue, error) {
	var issues []Issue

	reservations, err := s.Reservations().LoadAll()
	reservationsOK, err := corruptIssue(err, s.Reservations().Location(), true, &issues)
	if err != nil {
		return nil, err
	}
	facilities, err := s.Facilities().LoadAll()
	facilitiesOK, err := corruptIssue(err, s.Facilities().Location(), false, &issues)
	if err != nil {
		return nil, err
	}
	customers, err := s.Customers().LoadAll()
	customersOK, err := corruptIssue(err, s.Customers().Location(), false, &issues)
	if err != nil {
		return nil, err
	}
	if !reservationsOK {
		return issues, nil
	}

	facilityNames := facilitySet(facilities)
	customerEmails := customerSet(customers)
	seen := make(map[string]int)

	for _, r := range reservations {
		item := reservationID(r.CustomerEmail, r.FacilityName)

		if customersOK && !customerEmails[r.CustomerEmail] {
			issues = append(issues, Issue{
				Type:    IssueMissingCustomer,
				Item:    item,
				Message: fmt.Sprintf("customer %s does not exist", r.CustomerEmail),
				Fixable: true,
			})
		}
		if facilitiesOK && !facilityNames[r.FacilityName] {
			issues = append(issues, Issue{
				Type:    IssueMissingFacility,
				Item:    item,
				Message: fmt.Sprintf("facility %s does not exist", r.FacilityName),
				Fixable: true,
			})
		}

		key := model.ReservationKey(r)
		seen[key]++
		if seen[key] == 2 {
			issues = append(issues, Issue{
				Type:    IssueDuplicateReservation,
				Item:    item,
				Message: "pair is reserved more than once",
			})
		}
	}

	return issues, nil
}

// Fix repairs what Check marks as fixable and returns one entry per repair.
// An unreadable reservations collection is set aside next to the original
// and replaced by an empty one. Reservations whose customer or facility no
// longer exists are removed. Capacity is not adjusted.
//
// Corrupt facilities or customers are not touched: saving a record rewrites
// them. While either is corrupt Fix returns ErrCannotFix.
func Fix(s Store) ([]Issue, error) {
	var fixed []Issue

	backup, err := s.Reservations().Quarantine()
	if err != nil {
		return nil, err
	}
	if backup != "" {
		fixed = append(fixed, Issue{
			Type:    IssueCorruptCollection,
			Item:    reservationsItem,
			Message: fmt.Sprintf("moved unreadable data to %s and started an empty collection", backup),
			Fixable: true,
		})
	}

	var removed []Issue
	err = s.Reservations().Update(func(reservations []model.Reservation) ([]model.Reservation, error) {
		facilities, err := s.Facilities().LoadAll()
		if err != nil {
			if record.IsCorrupt(err) {
				return nil, fmt.Errorf("%w: %v", ErrCannotFix, err)
			}
			return nil, err
		}
		customers, err := s.Customers().LoadAll()
		if err != nil {
			if record.IsCorrupt(err) {
				return nil, fmt.Errorf("%w: %v", ErrCannotFix, err)
			}
			return nil, err
		}

		facilityNames := facilitySet(facilities)
		customerEmails := customerSet(customers)

		kept := make([]model.Reservation, 0, len(reservations))
		for _, r := range reservations {
			item := reservationID(r.CustomerEmail, r.FacilityName)
			switch {
			case !customerEmails[r.CustomerEmail]:
				removed = append(removed, Issue{
					Type:    IssueMissingCustomer,
					Item:    item,
					Message: "removed reservation of missing customer",
					Fixable: true,
				})
			case !facilityNames[r.FacilityName]:
				removed = append(removed, Issue{
					Type:    IssueMissingFacility,
					Item:    item,
					Message: "removed reservation at missing facility",
					Fixable: true,
				})
			default:
				kept = append(kept, r)
			}
		}
		if len(removed) == 0 {
			return nil, record.ErrNoChange
		}
		return kept, nil
	})
	if err != nil {
		return fixed, err
	}
	return append(fixed, removed...), nil
}

// corruptIssue turns a *record.CorruptError into an Issue. It returns whether
// the collection loaded cleanly, and any other error unchanged.
func corruptIssue(err error, location string, fixable bool, issues *[]Issue) (bool, error) {
	if err == nil {
		return true, nil
	}
	var corrupt *record.CorruptError
	if !errors.As(err, &corrupt) {
		return false, err
	}
	*issues = append(*issues, Issue{
		Type:    IssueCorruptCollection,
		Item:    corrupt.Collection,
		Message: fmt.Sprintf("%s cannot be parsed: %v", location, corrupt.Err),
		Fixable: fixable,
	})
	return false, nil
}

func facilitySet(facilities []model.Facility) map[string]bool {
	set := make(map[string]bool, len(facilities))
	for _, f := range facilities {
		set[f.Name] = true
	}
	return set
}

func customerSet(customers []model.Customer) map[string]bool {
	set := make(map[string]bool, len(customers))
	for _, c := range customers {
		set[c.Email] = true
	}
	return set
}
