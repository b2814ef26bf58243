// Package model defines the core data structures for lodge.
package model

// Facility is a lodging facility with a number of reservable units.
type Facility struct {
	Name         string `yaml:"name"`
	Location     string `yaml:"location"`
	Capacity     int    `yaml:"capacity"`
	ContactEmail string `yaml:"contact_email"`
}

// Customer is a person who can hold reservations.
type Customer struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}

// Reservation ties a customer to a facility. The pair is the only identity a
// reservation has; storage does not require it to be unique.
type Reservation struct {
	CustomerEmail string `yaml:"customer_email"`
	FacilityName  string `yaml:"facility_name"`
}

// keySeparator joins the two halves of a reservation key. It cannot appear in
// a validated email address.
const keySeparator = "\x1f"

// FacilityKey returns the unique key of a facility (its name).
func FacilityKey(f Facility) string {
	return f.Name
}

// CustomerKey returns the unique key of a customer (its email).
func CustomerKey(c Customer) string {
	return c.Email
}

// ReservationKey returns the composite key of a reservation.
// It is empty when either half is missing.
func ReservationKey(r Reservation) string {
	return PairKey(r.CustomerEmail, r.FacilityName)
}

// PairKey builds a reservation key from its two halves.
func PairKey(customerEmail, facilityName string) string {
	if customerEmail == "" || facilityName == "" {
		return ""
	}
	return customerEmail + keySeparator + facilityName
}

// Matches reports whether r is a reservation for the given pair.
func (r Reservation) Matches(customerEmail, facilityName string) bool {
	return r.CustomerEmail == customerEmail && r.FacilityName == facilityName
}
