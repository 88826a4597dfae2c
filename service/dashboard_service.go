package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

// Dashboard is everything a rider screen re-reads after a booking or cancellation.
type Dashboard struct {
	Rides    []*models.Ride       `json:"rides"`
	Bookings []*models.Booking    `json:"bookings"`
	Wallet   *models.Wallet       `json:"wallet"`
	Passes   []models.MonthlyPass `json:"passes"`
}

type DashboardService interface {
	Snapshot(ctx context.Context, userID string, filter models.RideFilter) (*Dashboard, error)
}

type dashboardService struct {
	rides    RideService
	bookings BookingService
	wallet   WalletService
	passes   PassService
}

func NewDashboardService(rides RideService, bookings BookingService, wallet WalletService, passes PassService) DashboardService {
	return &dashboardService{rides: rides, bookings: bookings, wallet: wallet, passes: passes}
}

func (s *dashboardService) Snapshot(ctx context.Context, userID string, filter models.RideFilter) (*Dashboard, error) {
	var d Dashboard
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rides, err := s.rides.Search(ctx, filter)
		d.Rides = rides
		return err
	})
	g.Go(func() error {
		bookings, err := s.bookings.GetUserBookings(ctx, userID)
		d.Bookings = bookings
		return err
	})
	g.Go(func() error {
		w, err := s.wallet.Load(ctx, userID)
		d.Wallet = w
		return err
	})
	g.Go(func() error {
		passes, err := s.passes.LoadActive(ctx, userID)
		d.Passes = passes
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
