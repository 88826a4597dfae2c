package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
	"github.com/abhijeet-0165/ridefusion/storage/memory"
)

var (
	testNow   = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	errRemote = errors.New("remote write rejected")
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// faultyStorage wraps the memory store and fails selected calls.
type faultyStorage struct {
	*memory.Store
	rides    *faultyRides
	bookings *faultyBookings
}

func newFaultyStorage() *faultyStorage {
	mem := memory.New()
	return &faultyStorage{
		Store:    mem,
		rides:    &faultyRides{IRideStorage: mem.Ride()},
		bookings: &faultyBookings{IBookingStorage: mem.Booking()},
	}
}

func (f *faultyStorage) Ride() storage.IRideStorage       { return f.rides }
func (f *faultyStorage) Booking() storage.IBookingStorage { return f.bookings }

type faultyRides struct {
	storage.IRideStorage
	// adjustErr is returned for AdjustBookedSeats calls whose delta equals failDelta.
	adjustErr error
	failDelta int
	getErr    error
	// block, when set, holds GetByID for blockID until closed.
	blockID string
	entered chan struct{}
	block   chan struct{}
}

func (f *faultyRides) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.block != nil && id == f.blockID {
		f.entered <- struct{}{}
		<-f.block
	}
	return f.IRideStorage.GetByID(ctx, id)
}

func (f *faultyRides) AdjustBookedSeats(ctx context.Context, id string, delta int) (int, error) {
	if f.adjustErr != nil && delta == f.failDelta {
		return 0, f.adjustErr
	}
	return f.IRideStorage.AdjustBookedSeats(ctx, id, delta)
}

type faultyBookings struct {
	storage.IBookingStorage
	createErr error
	// statusErr is returned when UpdateStatus is asked for failStatus.
	statusErr  error
	failStatus string
}

func (f *faultyBookings) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.IBookingStorage.Create(ctx, b)
}

func (f *faultyBookings) UpdateStatus(ctx context.Context, id, status string) error {
	if f.statusErr != nil && status == f.failStatus {
		return f.statusErr
	}
	return f.IBookingStorage.UpdateStatus(ctx, id, status)
}

// faultyKV fails writes to keys starting with failPrefix.
type faultyKV struct {
	*memory.KV
	failPrefix string
	setErr     error
	getErr     error
}

func newFaultyKV() *faultyKV {
	return &faultyKV{KV: memory.NewKV()}
}

func (f *faultyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.KV.Get(ctx, key)
}

func (f *faultyKV) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil && strings.HasPrefix(key, f.failPrefix) {
		return f.setErr
	}
	return f.KV.Set(ctx, key, value)
}

type fixture struct {
	stg *faultyStorage
	kv  *faultyKV
	svc IServiceManager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	stg := newFaultyStorage()
	kv := newFaultyKV()
	opts = append([]Option{WithClock(fixedClock(testNow))}, opts...)
	return &fixture{
		stg: stg,
		kv:  kv,
		svc: New(stg, kv, logger.NewNop(), opts...),
	}
}

func (f *fixture) addRide(t *testing.T, ride models.Ride) *models.Ride {
	t.Helper()
	if ride.DriverID == "" {
		ride.DriverID = "driver-1"
	}
	if ride.VehicleType == "" {
		ride.VehicleType = models.VehicleCar
	}
	if ride.Status == "" {
		ride.Status = models.RideStatusActive
	}
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = testNow
	}
	created, err := f.stg.Store.Ride().Create(context.Background(), &ride)
	require.NoError(t, err)
	return created
}

func (f *fixture) fund(t *testing.T, userID string, amount int64) {
	t.Helper()
	_, err := f.svc.Wallet().TopUp(context.Background(), userID, amount)
	require.NoError(t, err)
}

func (f *fixture) storePasses(t *testing.T, userID string, passes ...models.MonthlyPass) {
	t.Helper()
	raw, err := json.Marshal(passes)
	require.NoError(t, err)
	require.NoError(t, f.kv.KV.Set(context.Background(), passesKey(userID), raw))
}

func (f *fixture) seats(t *testing.T, rideID string) int {
	t.Helper()
	ride, err := f.stg.Store.Ride().GetByID(context.Background(), rideID)
	require.NoError(t, err)
	return ride.BookedSeats
}

func (f *fixture) balance(t *testing.T, userID string) int64 {
	t.Helper()
	w, err := f.svc.Wallet().Load(context.Background(), userID)
	require.NoError(t, err)
	return w.Balance
}
