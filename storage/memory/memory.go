// Package memory keeps every collection in process memory. It backs local
// development (STORAGE_DRIVER=memory, KV_DRIVER=memory) and the service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	rides    map[string]models.Ride
	bookings map[string]models.Booking

	// seq breaks created_at ties so listings stay stable.
	seq  map[string]int
	next int
}

func New() *Store {
	return &Store{
		users:    make(map[string]models.User),
		rides:    make(map[string]models.Ride),
		bookings: make(map[string]models.Booking),
		seq:      make(map[string]int),
	}
}

func (s *Store) User() storage.IUserStorage       { return userRepo{s} }
func (s *Store) Ride() storage.IRideStorage       { return rideRepo{s} }
func (s *Store) Booking() storage.IBookingStorage { return bookingRepo{s} }
func (s *Store) Close()                           {}

// ===== users =====

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = *user
	out := *user
	return &out, nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email }), nil
}

func (r userRepo) GetByCredentials(_ context.Context, email, password string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email && u.Password == password }), nil
}

func (r userRepo) find(match func(models.User) bool) *models.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if match(u) {
			out := u
			return &out
		}
	}
	return nil
}

// ===== rides =====

type rideRepo struct{ s *Store }

func (r rideRepo) Create(_ context.Context, ride *models.Ride) (*models.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.rides[ride.ID] = *ride
	r.s.next++
	r.s.seq[ride.ID] = r.s.next
	out := *ride
	return &out, nil
}

func (r rideRepo) GetByID(_ context.Context, id string) (*models.Ride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	ride, ok := r.s.rides[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &ride, nil
}

func (r rideRepo) GetActive(_ context.Context) ([]*models.Ride, error) {
	return r.list(func(ride models.Ride) bool { return ride.Status == models.RideStatusActive }), nil
}

func (r rideRepo) GetDriverRides(_ context.Context, driverID string) ([]*models.Ride, error) {
	return r.list(func(ride models.Ride) bool { return ride.DriverID == driverID }), nil
}

func (r rideRepo) AdjustBookedSeats(_ context.Context, id string, delta int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.rides[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	ride.BookedSeats += delta
	if ride.BookedSeats < 0 {
		ride.BookedSeats = 0
	}
	r.s.rides[id] = ride
	return ride.BookedSeats, nil
}

func (r rideRepo) Delete(_ context.Context, id, driverID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.rides[id]
	if !ok || ride.DriverID != driverID {
		return storage.ErrNotFound
	}
	delete(r.s.rides, id)
	delete(r.s.seq, id)
	return nil
}

func (r rideRepo) list(match func(models.Ride) bool) []*models.Ride {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Ride{}
	for _, ride := range r.s.rides {
		if match(ride) {
			ride := ride
			out = append(out, &ride)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.s.seq[out[i].ID] > r.s.seq[out[j].ID]
	})
	return out
}

// ===== bookings =====

type bookingRepo struct{ s *Store }

func (r bookingRepo) Create(_ context.Context, booking *models.Booking) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := *booking
	stored.Ride = nil
	r.s.bookings[booking.ID] = stored
	out := stored
	return &out, nil
}

func (r bookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return r.joinLocked(b), nil
}

func (r bookingRepo) GetUserBookings(_ context.Context, userID string) ([]*models.Booking, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*models.Booking{}
	for _, b := range r.s.bookings {
		if b.UserID == userID && !strings.EqualFold(b.Status, models.BookingCancelled) {
			out = append(out, r.joinLocked(b))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].BookingDate.After(out[j].BookingDate)
	})
	return out, nil
}

func (r bookingRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return storage.ErrNotFound
	}
	b.Status = status
	r.s.bookings[id] = b
	return nil
}

func (r bookingRepo) joinLocked(b models.Booking) *models.Booking {
	if ride, ok := r.s.rides[b.RideID]; ok {
		b.Ride = &ride
	}
	return &b
}
