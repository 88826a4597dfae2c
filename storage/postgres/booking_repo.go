package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

// Rides can be deleted by their driver while bookings stay, hence the LEFT JOIN
// and the COALESCE around every ride column.
const bookingJoinSelect = `
	SELECT b.id, b.user_id, b.ride_id, b.amount, b.status, b.route, b.used_pass, b.booking_date,
	       r.id IS NOT NULL,
	       COALESCE(r.id, ''), COALESCE(r.driver_id, ''), COALESCE(r.driver_name, ''), COALESCE(r.driver_phone, ''),
	       COALESCE(r.vehicle_type, ''), COALESCE(r.from_location, ''), COALESCE(r.to_location, ''),
	       COALESCE(to_char(r.ride_date, 'YYYY-MM-DD'), ''), COALESCE(r.ride_time, ''),
	       COALESCE(r.seats, 0), COALESCE(r.booked_seats, 0), COALESCE(r.price_per_seat, 0),
	       COALESCE(r.status, ''), COALESCE(r.notes, ''), COALESCE(r.women_only, FALSE), COALESCE(r.exam_special, FALSE),
	       COALESCE(r.created_at, b.booking_date)
	FROM bookings b
	LEFT JOIN rides r ON r.id = b.ride_id
`

type bookingRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewBookingRepo(db *pgxpool.Pool, log logger.ILogger) storage.IBookingStorage {
	return &bookingRepo{db: db, log: log}
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (id, user_id, ride_id, amount, status, route, used_pass, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.RideID,
		booking.Amount,
		booking.Status,
		booking.Route,
		booking.UsedPass,
		booking.BookingDate,
	)
	if err != nil {
		r.log.Error("failed to create booking", logger.String("ride_id", booking.RideID), logger.Error(err))
		return nil, wrapErr(err)
	}
	return booking, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	row := r.db.QueryRow(ctx, bookingJoinSelect+` WHERE b.id = $1`, id)
	booking, err := scanBooking(row)
	if err != nil {
		err = wrapErr(err)
		if err != storage.ErrNotFound {
			r.log.Error("failed to get booking by id", logger.String("id", id), logger.Error(err))
		}
		return nil, err
	}
	if err := checkBooking(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) GetUserBookings(ctx context.Context, userID string) ([]*models.Booking, error) {
	query := bookingJoinSelect + `
		WHERE b.user_id = $1 AND b.status <> 'cancelled'
		ORDER BY b.booking_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("failed to query user bookings", logger.String("user_id", userID), logger.Error(err))
		return nil, wrapErr(err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		if err := checkBooking(booking); err != nil {
			r.log.Error("rejecting malformed booking", logger.String("id", booking.ID), logger.Error(err))
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, wrapErr(rows.Err())
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		r.log.Error("failed to update booking status", logger.String("id", id), logger.Error(err))
		return wrapErr(err)
	}
	if res.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var (
		b       models.Booking
		ride    models.Ride
		hasRide bool
	)
	dest := []interface{}{
		&b.ID, &b.UserID, &b.RideID, &b.Amount, &b.Status, &b.Route, &b.UsedPass, &b.BookingDate,
		&hasRide,
	}
	dest = append(dest, rideDest(&ride)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if hasRide {
		b.Ride = &ride
	}
	return &b, nil
}

func checkBooking(b *models.Booking) error {
	if err := storage.CheckIntegrity("booking", b.ID, *b); err != nil {
		return err
	}
	if b.Ride != nil {
		return storage.CheckIntegrity("ride", b.Ride.ID, *b.Ride)
	}
	return nil
}
