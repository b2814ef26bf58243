package repository

import (
	"fmt"

	"github.com/jacksmith/lodge/internal/model"
	"github.com/jacksmith/lodge/internal/record"
)

// CustomerRepository stores customers keyed by email.
type CustomerRepository struct {
	store *record.Store[model.Customer]
}

// NewCustomerRepository returns a repository over the given backend.
func NewCustomerRepository(b record.Backend, opts ...record.Option) *CustomerRepository {
	return &CustomerRepository{
		store: record.New("customers", b, model.CustomerCodec{}, model.CustomerKey, opts...),
	}
}

func (r *CustomerRepository) LoadAll() ([]model.Customer, error) {
	return r.store.Load()
}

func (r *CustomerRepository) Find(email string) (model.Customer, bool, error) {
	return r.store.Find(email)
}

func (r *CustomerRepository) Save(c model.Customer) error {
	return r.store.Upsert(c)
}

func (r *CustomerRepository) Delete(c model.Customer) (bool, error) {
	n, err := r.store.Delete(c.Email)
	return n > 0, err
}

// Modify applies fn to the customer with the given email and saves it.
// The email cannot be changed through Modify.
func (r *CustomerRepository) Modify(email string, fn func(c *model.Customer) error) (model.Customer, error) {
	var updated model.Customer
	err := r.store.UpdateStrict(func(customers []model.Customer) ([]model.Customer, error) {
		for i := range customers {
			if customers[i].Email != email {
				continue
			}
			if err := fn(&customers[i]); err != nil {
				return nil, err
			}
			if customers[i].Email != email {
				return nil, fmt.Errorf("customer email cannot be changed by Modify")
			}
			updated = customers[i]
			return customers, nil
		}
		return nil, fmt.Errorf("customer %q: %w", email, record.ErrNotFound)
	})
	return updated, err
}

func (r *CustomerRepository) Location() string {
	return r.store.Location()
}
