package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const rideColumns = `id, driver_id, driver_name, driver_phone, vehicle_type, from_location, to_location,
	to_char(ride_date, 'YYYY-MM-DD'), ride_time, seats, booked_seats, price_per_seat, status, notes,
	women_only, exam_special, created_at`

type rideRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewRideRepo(db *pgxpool.Pool, log logger.ILogger) storage.IRideStorage {
	return &rideRepo{db: db, log: log}
}

func (r *rideRepo) Create(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	query := `
		INSERT INTO rides (id, driver_id, driver_name, driver_phone, vehicle_type, from_location, to_location,
			ride_date, ride_time, seats, booked_seats, price_per_seat, status, notes, women_only, exam_special, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::date, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`
	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.DriverID,
		ride.DriverName,
		ride.DriverPhone,
		string(ride.VehicleType),
		ride.From,
		ride.To,
		ride.Date,
		ride.Time,
		ride.Seats,
		ride.BookedSeats,
		ride.PricePerSeat,
		ride.Status,
		ride.Notes,
		ride.WomenOnly,
		ride.ExamSpecial,
		ride.CreatedAt,
	)
	if err != nil {
		r.log.Error("failed to create ride", logger.Error(err))
		return nil, wrapErr(err)
	}
	return ride, nil
}

func (r *rideRepo) GetByID(ctx context.Context, id string) (*models.Ride, error) {
	var ride models.Ride
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(rideDest(&ride)...)
	if err != nil {
		err = wrapErr(err)
		if err != storage.ErrNotFound {
			r.log.Error("failed to get ride by id", logger.String("id", id), logger.Error(err))
		}
		return nil, err
	}
	if err := storage.CheckIntegrity("ride", ride.ID, ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *rideRepo) GetActive(ctx context.Context) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE status = 'active'
		ORDER BY created_at DESC
	`
	return r.scanRides(ctx, query)
}

func (r *rideRepo) GetDriverRides(ctx context.Context, driverID string) ([]*models.Ride, error) {
	query := `
		SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1
		ORDER BY created_at DESC
	`
	return r.scanRides(ctx, query, driverID)
}

func (r *rideRepo) AdjustBookedSeats(ctx context.Context, id string, delta int) (int, error) {
	var booked int
	err := r.db.QueryRow(ctx,
		`UPDATE rides SET booked_seats = GREATEST(booked_seats + $1, 0) WHERE id = $2 RETURNING booked_seats`,
		delta, id,
	).Scan(&booked)
	if err != nil {
		err = wrapErr(err)
		if err != storage.ErrNotFound {
			r.log.Error("failed to adjust booked seats", logger.String("id", id), logger.Int("delta", delta), logger.Error(err))
		}
		return 0, err
	}
	return booked, nil
}

func (r *rideRepo) Delete(ctx context.Context, id, driverID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM rides WHERE id = $1 AND driver_id = $2`, id, driverID)
	if err != nil {
		r.log.Error("failed to delete ride", logger.String("id", id), logger.Error(err))
		return wrapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *rideRepo) scanRides(ctx context.Context, query string, args ...interface{}) ([]*models.Ride, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to query rides", logger.Error(err))
		return nil, wrapErr(err)
	}
	defer rows.Close()

	rides := []*models.Ride{}
	for rows.Next() {
		var ride models.Ride
		if err := rows.Scan(rideDest(&ride)...); err != nil {
			return nil, wrapErr(err)
		}
		if err := storage.CheckIntegrity("ride", ride.ID, ride); err != nil {
			r.log.Error("rejecting malformed ride", logger.String("id", ride.ID), logger.Error(err))
			return nil, err
		}
		rides = append(rides, &ride)
	}
	return rides, wrapErr(rows.Err())
}

func rideDest(ride *models.Ride) []interface{} {
	return []interface{}{
		&ride.ID, &ride.DriverID, &ride.DriverName, &ride.DriverPhone, (*string)(&ride.VehicleType),
		&ride.From, &ride.To, &ride.Date, &ride.Time, &ride.Seats, &ride.BookedSeats, &ride.PricePerSeat,
		&ride.Status, &ride.Notes, &ride.WomenOnly, &ride.ExamSpecial, &ride.CreatedAt,
	}
}
