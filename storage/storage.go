package storage

import (
	"context"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

type IStorage interface {
	User() IUserStorage
	Ride() IRideStorage
	Booking() IBookingStorage
	Close()
}

// IUserStorage returns nil, nil when no user matches.
type IUserStorage interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCredentials(ctx context.Context, email, password string) (*models.User, error)
}

type IRideStorage interface {
	Create(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	GetByID(ctx context.Context, id string) (*models.Ride, error)
	GetActive(ctx context.Context) ([]*models.Ride, error)
	GetDriverRides(ctx context.Context, driverID string) ([]*models.Ride, error)
	// AdjustBookedSeats adds delta to the booked seat counter, never going below
	// zero, and returns the stored count.
	AdjustBookedSeats(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id, driverID string) error
}

type IBookingStorage interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetUserBookings lists non-cancelled bookings with their ride, newest first.
	GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// IKeyValue holds per-user documents such as the wallet and owned passes.
// Get returns ErrNotFound for a missing key.
type IKeyValue interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
