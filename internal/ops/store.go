package ops

import (
	"log/slog"

	"github.com/jacksmith/lodge/internal/repository"
	"github.com/jacksmith/lodge/internal/storage"
)

// Store defines the persistence interface required by business logic operations.
// The concrete implementation is storage.Storage; tests may substitute
// repositories over other backends.
type Store interface {
	Facilities() *repository.FacilityRepository
	Customers() *repository.CustomerRepository
	Reservations() *repository.ReservationRepository
	LoadConfig() (*storage.Config, error)
	Logger() *slog.Logger
}
