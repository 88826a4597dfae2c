package models

import "time"

type VehicleType string

const (
	VehicleCar  VehicleType = "Car"
	VehicleAuto VehicleType = "Auto"
	VehicleBike VehicleType = "Bike"
)

const RideStatusActive = "active"

// DateLayout is the calendar-day format rides are scheduled and filtered by.
const DateLayout = "2006-01-02"

type Ride struct {
	ID           string      `json:"id" validate:"required"`
	DriverID     string      `json:"driverId" validate:"required"`
	DriverName   string      `json:"driverName"`
	DriverPhone  string      `json:"driverPhone"`
	VehicleType  VehicleType `json:"vehicleType" validate:"oneof=Car Auto Bike"`
	From         string      `json:"from" validate:"required"`
	To           string      `json:"to" validate:"required"`
	Date         string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time         string      `json:"time"`
	Seats        int         `json:"seats" validate:"gte=0"`
	BookedSeats  int         `json:"bookedSeats" validate:"gte=0"`
	PricePerSeat int64       `json:"pricePerSeat" validate:"gte=0"`
	Status       string      `json:"status" validate:"required"`
	Notes        string      `json:"notes"`
	WomenOnly    bool        `json:"womenOnly"`
	ExamSpecial  bool        `json:"examSpecial"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// RouteLabel renders "<from> → <to>", the label stored on bookings and ledger lines.
func (r *Ride) RouteLabel() string {
	return r.From + " → " + r.To
}

func (r *Ride) SeatsLeft() int {
	if r.BookedSeats >= r.Seats {
		return 0
	}
	return r.Seats - r.BookedSeats
}

func (r *Ride) IsFull() bool {
	return r.BookedSeats >= r.Seats
}

// PublishRideRequest is what a driver submits when offering a ride.
// Zero-valued VehicleType, Seats and PricePerSeat take the publishing defaults.
type PublishRideRequest struct {
	VehicleType  VehicleType `json:"vehicleType" validate:"omitempty,oneof=Car Auto Bike"`
	From         string      `json:"from" validate:"required"`
	To           string      `json:"to" validate:"required,nefield=From"`
	Date         string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string      `json:"time" validate:"omitempty,datetime=15:04"`
	Seats        int         `json:"seats" validate:"gte=0,lte=6"`
	PricePerSeat int64       `json:"pricePerSeat" validate:"gte=0"`
	Notes        string      `json:"notes"`
	WomenOnly    bool        `json:"womenOnly"`
	ExamSpecial  bool        `json:"examSpecial"`
}

// RideFilter narrows an inventory snapshot. Empty strings, false toggles and a nil
// MaxPrice impose no constraint.
type RideFilter struct {
	LocationQuery string      `json:"q" form:"q"`
	VehicleType   VehicleType `json:"vehicle" form:"vehicle"`
	MaxPrice      *int64      `json:"maxPrice" form:"maxPrice"`
	Date          string      `json:"date" form:"date"`
	WomenOnly     bool        `json:"womenOnly" form:"womenOnly"`
	ExamSpecial   bool        `json:"examSpecial" form:"examSpecial"`
}
