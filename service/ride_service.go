package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const (
	defaultSeats        = 3
	defaultPricePerSeat = 50
)

type RideService interface {
	Publish(ctx context.Context, driver *models.User, req models.PublishRideRequest) (*models.Ride, error)
	GetActive(ctx context.Context) ([]*models.Ride, error)
	Search(ctx context.Context, filter models.RideFilter) ([]*models.Ride, error)
	GetDriverRides(ctx context.Context, driverID string) ([]*models.Ride, error)
	Delete(ctx context.Context, driverID, rideID string) error
}

type rideService struct {
	stg        storage.IRideStorage
	log        logger.ILogger
	now        func() time.Time
	windowDays int
}

func NewRideService(stg storage.IStorage, log logger.ILogger, now func() time.Time, windowDays int) RideService {
	return &rideService{
		stg:        stg.Ride(),
		log:        log,
		now:        now,
		windowDays: windowDays,
	}
}

func (s *rideService) Publish(ctx context.Context, driver *models.User, req models.PublishRideRequest) (*models.Ride, error) {
	if driver == nil || driver.ID == "" {
		return nil, ValidationError{Field: "driver", Msg: "is required"}
	}

	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	if req.VehicleType == "" {
		req.VehicleType = models.VehicleCar
	}
	if req.Seats == 0 {
		req.Seats = defaultSeats
	}
	if req.PricePerSeat == 0 {
		req.PricePerSeat = defaultPricePerSeat
	}
	if req.Date == "" {
		req.Date = s.now().Format(models.DateLayout)
	}

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if strings.EqualFold(req.From, req.To) {
		return nil, ValidationError{Field: "to", Msg: "must differ from from"}
	}
	if err := s.checkDate(req.Date); err != nil {
		return nil, err
	}

	ride := &models.Ride{
		ID:           uuid.NewString(),
		DriverID:     driver.ID,
		DriverName:   driver.Name,
		DriverPhone:  driver.Phone,
		VehicleType:  req.VehicleType,
		From:         req.From,
		To:           req.To,
		Date:         req.Date,
		Time:         req.Time,
		Seats:        req.Seats,
		BookedSeats:  0,
		PricePerSeat: req.PricePerSeat,
		Status:       models.RideStatusActive,
		Notes:        strings.TrimSpace(req.Notes),
		WomenOnly:    req.WomenOnly,
		ExamSpecial:  req.ExamSpecial,
		CreatedAt:    s.now(),
	}

	created, err := s.stg.Create(ctx, ride)
	if err != nil {
		return nil, err
	}
	s.log.Info("ride published",
		logger.String("ride_id", created.ID),
		logger.String("driver_id", driver.ID),
		logger.String("route", created.RouteLabel()),
	)
	return created, nil
}

// checkDate allows scheduling from today up to windowDays ahead.
func (s *rideService) checkDate(date string) error {
	day, err := time.ParseInLocation(models.DateLayout, date, s.now().Location())
	if err != nil {
		return ValidationError{Field: "date", Msg: "must use the format " + models.DateLayout}
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) || day.After(today.AddDate(0, 0, s.windowDays)) {
		return ValidationError{Field: "date", Msg: "must be within the pre-booking window"}
	}
	return nil
}

func (s *rideService) GetActive(ctx context.Context) ([]*models.Ride, error) {
	return s.stg.GetActive(ctx)
}

func (s *rideService) Search(ctx context.Context, filter models.RideFilter) ([]*models.Ride, error) {
	rides, err := s.stg.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRides(rides, filter), nil
}

func (s *rideService) GetDriverRides(ctx context.Context, driverID string) ([]*models.Ride, error) {
	return s.stg.GetDriverRides(ctx, driverID)
}

func (s *rideService) Delete(ctx context.Context, driverID, rideID string) error {
	if err := s.stg.Delete(ctx, rideID, driverID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRideNotFound
		}
		return err
	}
	s.log.Info("ride deleted", logger.String("ride_id", rideID), logger.String("driver_id", driverID))
	return nil
}
