package service

import (
	"time"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/storage"
)

type IServiceManager interface {
	User() UserService
	Ride() RideService
	Wallet() WalletService
	Pass() PassService
	Booking() BookingService
	Dashboard() DashboardService
}

type service struct {
	userService      UserService
	rideService      RideService
	walletService    WalletService
	passService      PassService
	bookingService   BookingService
	dashboardService DashboardService
}

type options struct {
	now               func() time.Time
	matcher           RouteMatcher
	publishWindowDays int
}

type Option func(*options)

// WithClock replaces time.Now, mostly for tests around pass expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRouteMatcher swaps the endpoint comparison used for pass fare waivers.
func WithRouteMatcher(m RouteMatcher) Option {
	return func(o *options) { o.matcher = m }
}

func WithPublishWindow(days int) Option {
	return func(o *options) { o.publishWindowDays = days }
}

// New wires the services. kv holds the per-user wallet and pass documents.
func New(stg storage.IStorage, kv storage.IKeyValue, log logger.ILogger, opts ...Option) IServiceManager {
	o := options{
		now:               time.Now,
		matcher:           FuzzyEndpointMatch,
		publishWindowDays: 2,
	}
	for _, opt := range opts {
		opt(&o)
	}

	wallet := NewWalletService(kv, log, o.now)
	passes := NewPassService(kv, wallet, log, o.now, o.matcher)
	rides := NewRideService(stg, log, o.now, o.publishWindowDays)
	bookings := NewBookingService(stg, wallet, passes, log, o.now)

	return &service{
		userService:      NewUserService(stg, log, o.now),
		rideService:      rides,
		walletService:    wallet,
		passService:      passes,
		bookingService:   bookings,
		dashboardService: NewDashboardService(rides, bookings, wallet, passes),
	}
}

func (s *service) User() UserService {
	return s.userService
}

func (s *service) Ride() RideService {
	return s.rideService
}

func (s *service) Wallet() WalletService {
	return s.walletService
}

func (s *service) Pass() PassService {
	return s.passService
}

func (s *service) Booking() BookingService {
	return s.bookingService
}

func (s *service) Dashboard() DashboardService {
	return s.dashboardService
}
