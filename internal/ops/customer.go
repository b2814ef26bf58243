package ops

import (
	"errors"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// CustomerChanges represents fields that can be updated on a customer.
// The email is the key and cannot change.
type CustomerChanges struct {
	Name  *string
	Phone *string
}

// CreateCustomer stores c, replacing any customer with the same email.
// It reports whether an existing customer was replaced.
func CreateCustomer(s Store, c model.Customer) (bool, error) {
	_, existed, err := s.Customers().Find(c.Email)
	if err != nil && !record.IsCorrupt(err) {
		return false, err
	}
	if err := s.Customers().Save(c); err != nil {
		return false, err
	}
	return existed, nil
}

// GetCustomer returns the customer with the given email.
func GetCustomer(s Store, email string) (*model.Customer, error) {
	c, found, err := s.Customers().Find(email)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &NotFoundError{Type: EntityCustomer, ID: email}
	}
	return &c, nil
}

// ListCustomers returns every customer in stored order.
func ListCustomers(s Store) ([]model.Customer, error) {
	return s.Customers().LoadAll()
}

// DeleteCustomer removes the customer with the given email. Their
// reservations are left in place; Check reports them.
func DeleteCustomer(s Store, email string) error {
	removed, err := s.Customers().Delete(model.Customer{Email: email})
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{Type: EntityCustomer, ID: email}
	}
	return nil
}

// ModifyCustomer applies changes to the customer and returns the stored result.
func ModifyCustomer(s Store, email string, changes CustomerChanges) (*model.Customer, error) {
	updated, err := s.Customers().Modify(email, func(c *model.Customer) error {
		if changes.Name != nil {
			c.Name = *changes.Name
		}
		if changes.Phone != nil {
			c.Phone = *changes.Phone
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, record.ErrNotFound) {
			return nil, &NotFoundError{Type: EntityCustomer, ID: email}
		}
		return nil, err
	}
	return &updated, nil
}
