package models

import "time"

const (
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID          string    `json:"id" validate:"required"`
	UserID      string    `json:"userId" validate:"required"`
	RideID      string    `json:"rideId" validate:"required"`
	Amount      int64     `json:"amount" validate:"gte=0"`
	Status      string    `json:"status" validate:"oneof=confirmed cancelled"`
	Route       string    `json:"route"`
	UsedPass    *string   `json:"usedPass,omitempty"`
	BookingDate time.Time `json:"bookingDate"`

	// Ride is populated by joined reads and is nil once the driver deleted the ride.
	Ride *Ride `json:"ride,omitempty" validate:"omitempty"`
}
