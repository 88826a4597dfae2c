package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

// BookingState tracks how far a booking attempt got.
type BookingState string

const (
	StateIdle      BookingState = "idle"
	StatePricing   BookingState = "pricing"
	StateReserving BookingState = "reserving"
	StateCharging  BookingState = "charging"
	StateConfirmed BookingState = "confirmed"
	StateFailed    BookingState = "failed"
)

type BookingService interface {
	// Book reserves one seat for userID. A concurrent attempt on the same ride
	// is rejected with ErrBookingInFlight rather than queued.
	Book(ctx context.Context, userID, rideID string) (*BookingResult, error)
	Cancel(ctx context.Context, userID, bookingID string) (*CancelResult, error)
	GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error)
}

type BookingResult struct {
	State       BookingState        `json:"state"`
	Booking     *models.Booking     `json:"booking,omitempty"`
	Wallet      *models.Wallet      `json:"wallet,omitempty"`
	UsedPass    *models.MonthlyPass `json:"usedPass,omitempty"`
	BookedSeats int                 `json:"bookedSeats"`
}

type CancelResult struct {
	Booking     *models.Booking `json:"booking"`
	Wallet      *models.Wallet  `json:"wallet"`
	// BookedSeats is nil when the ride no longer exists.
	BookedSeats *int `json:"bookedSeats,omitempty"`
}

type bookingService struct {
	rides    storage.IRideStorage
	bookings storage.IBookingStorage
	wallet   WalletService
	passes   PassService
	log      logger.ILogger
	now      func() time.Time
	guard    *inFlight
}

func NewBookingService(stg storage.IStorage, wallet WalletService, passes PassService, log logger.ILogger, now func() time.Time) BookingService {
	return &bookingService{
		rides:    stg.Ride(),
		bookings: stg.Booking(),
		wallet:   wallet,
		passes:   passes,
		log:      log,
		now:      now,
		guard:    newInFlight(),
	}
}

func (s *bookingService) Book(ctx context.Context, userID, rideID string) (*BookingResult, error) {
	// Scoped to the rider: different riders may book the same ride at once.
	key := "ride:" + userID + ":" + rideID
	if !s.guard.tryAcquire(key) {
		return nil, ErrBookingInFlight
	}
	defer s.guard.release(key)

	res := &BookingResult{State: StateIdle}
	failed := func(err error) (*BookingResult, error) {
		res.State = StateFailed
		return res, err
	}

	// Pricing
	res.State = StatePricing
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return failed(ErrRideNotFound)
		}
		return failed(fail(ErrBookingFailed, err))
	}
	if ride.IsFull() {
		return failed(ErrRideFull)
	}

	active, err := s.passes.LoadActive(ctx, userID)
	if err != nil {
		return failed(fail(ErrBookingFailed, err))
	}
	pass := s.passes.MatchForRide(active, ride)
	price := ride.PricePerSeat
	if pass != nil {
		price = 0
	}

	w, err := s.wallet.Load(ctx, userID)
	if err != nil {
		return failed(fail(ErrBookingFailed, err))
	}
	if w.Balance < price {
		return failed(ErrInsufficientFunds)
	}

	// Reserving
	res.State = StateReserving
	now := s.now()
	booking := &models.Booking{
		ID:          uuid.NewString(),
		UserID:      userID,
		RideID:      ride.ID,
		Amount:      price,
		Status:      models.BookingConfirmed,
		Route:       ride.RouteLabel(),
		BookingDate: now,
	}
	if pass != nil {
		passID := pass.ID
		booking.UsedPass = &passID
	}

	flow := newSaga("booking", s.log, s.now,
		logger.String("booking_id", booking.ID),
		logger.String("ride_id", ride.ID),
		logger.String("user_id", userID),
	)

	if _, err := s.bookings.Create(ctx, booking); err != nil {
		flow.rollback(ctx, "create_booking", err)
		return failed(fail(ErrBookingFailed, err))
	}
	flow.onFailure("create_booking", func(ctx context.Context) error {
		return s.bookings.UpdateStatus(ctx, booking.ID, models.BookingCancelled)
	})

	booked, err := s.rides.AdjustBookedSeats(ctx, ride.ID, 1)
	if err != nil {
		flow.rollback(ctx, "reserve_seat", err)
		return failed(fail(ErrBookingFailed, err))
	}
	flow.onFailure("reserve_seat", func(ctx context.Context) error {
		_, err := s.rides.AdjustBookedSeats(ctx, ride.ID, -1)
		return err
	})

	// Charging
	res.State = StateCharging
	desc := "Ride: " + ride.RouteLabel()
	if price == 0 && pass != nil {
		desc += " (Monthly Pass)"
	}
	w, err = s.wallet.Apply(ctx, userID, -price, newTransaction(now, desc, price, models.TransactionDebit))
	if err != nil {
		flow.rollback(ctx, "charge_wallet", err)
		return failed(fail(ErrBookingFailed, err))
	}

	res.State = StateConfirmed
	res.Booking = booking
	res.Wallet = w
	res.UsedPass = pass
	res.BookedSeats = booked

	s.log.Info("ride booked",
		logger.String("booking_id", booking.ID),
		logger.String("ride_id", ride.ID),
		logger.String("user_id", userID),
		logger.Int64("amount", price),
		logger.Bool("pass", pass != nil),
	)
	return res, nil
}

func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) (*CancelResult, error) {
	key := "booking:" + bookingID
	if !s.guard.tryAcquire(key) {
		return nil, ErrBookingInFlight
	}
	defer s.guard.release(key)

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fail(ErrCancelFailed, err)
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotFound
	}
	if booking.Status == models.BookingCancelled {
		return nil, ErrAlreadyCancelled
	}

	flow := newSaga("cancel", s.log, s.now,
		logger.String("booking_id", booking.ID),
		logger.String("ride_id", booking.RideID),
		logger.String("user_id", userID),
	)

	if err := s.bookings.UpdateStatus(ctx, booking.ID, models.BookingCancelled); err != nil {
		flow.rollback(ctx, "cancel_booking", err)
		return nil, fail(ErrCancelFailed, err)
	}
	flow.onFailure("cancel_booking", func(ctx context.Context) error {
		return s.bookings.UpdateStatus(ctx, booking.ID, models.BookingConfirmed)
	})

	var seats *int
	booked, err := s.rides.AdjustBookedSeats(ctx, booking.RideID, -1)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.log.Warning("ride no longer exists, skipping seat release",
			logger.String("booking_id", booking.ID),
			logger.String("ride_id", booking.RideID),
		)
	case err != nil:
		flow.rollback(ctx, "release_seat", err)
		return nil, fail(ErrCancelFailed, err)
	default:
		seats = &booked
		flow.onFailure("release_seat", func(ctx context.Context) error {
			_, err := s.rides.AdjustBookedSeats(ctx, booking.RideID, 1)
			return err
		})
	}

	refund := newTransaction(s.now(), "Refund: "+booking.Route, booking.Amount, models.TransactionCredit)
	w, err := s.wallet.Apply(ctx, userID, booking.Amount, refund)
	if err != nil {
		flow.rollback(ctx, "refund_wallet", err)
		return nil, fail(ErrCancelFailed, err)
	}

	booking.Status = models.BookingCancelled
	if booking.Ride != nil && seats != nil {
		booking.Ride.BookedSeats = *seats
	}

	s.log.Info("booking cancelled",
		logger.String("booking_id", booking.ID),
		logger.String("ride_id", booking.RideID),
		logger.String("user_id", userID),
		logger.Int64("refund", booking.Amount),
	)
	return &CancelResult{Booking: booking, Wallet: w, BookedSeats: seats}, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	return s.bookings.GetUserBookings(ctx, userID)
}
