package bot

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/service"
	"github.com/abhijeet-0165/ridefusion/storage"
)

func TestFormatRide(t *testing.T) {
	r := &models.Ride{
		ID: "r1", From: "Campus", To: "Hostel", VehicleType: models.VehicleAuto,
		Date: "2026-10-15", Time: "08:30", Seats: 3, BookedSeats: 1, PricePerSeat: 20,
		DriverName: "Aman", WomenOnly: true,
	}
	out := formatRide(r)
	assert.Contains(t, out, "🛺 Campus → Hostel")
	assert.Contains(t, out, "2 of 3 seats left · ₹20/seat")
	assert.Contains(t, out, "women only")
	assert.NotContains(t, out, "exam special")
	assert.Contains(t, out, "ID: r1")
}

func TestFormatBookingResult(t *testing.T) {
	res := &service.BookingResult{
		Booking: &models.Booking{ID: "b1", Route: "A → B", Amount: 40},
		Wallet:  &models.Wallet{Balance: 60},
	}
	assert.Equal(t, "✅ Booked A → B for ₹40.\nBalance: ₹60\nBooking ID: b1", formatBookingResult(res))

	res.UsedPass = &models.MonthlyPass{Title: "Campus Loop"}
	assert.Contains(t, formatBookingResult(res), "with your Campus Loop pass")
}

func TestFormatBooking(t *testing.T) {
	passID := "p1"
	b := &models.Booking{
		ID: "b1", Route: "A → B", Amount: 0, UsedPass: &passID,
		BookingDate: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "🧾 A → B\n📅 2026-10-15\n💳 monthly pass\nID: b1", formatBooking(b))

	b.UsedPass = nil
	b.Amount = 50
	b.Ride = &models.Ride{Date: "2026-10-16", Time: "18:00"}
	assert.Equal(t, "🧾 A → B\n📅 2026-10-16 18:00\n💳 ₹50\nID: b1", formatBooking(b))
}

func TestFormatWallet(t *testing.T) {
	assert.Equal(t, "💰 Balance: ₹0", formatWallet(&models.Wallet{}))

	day := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	w := &models.Wallet{
		Balance: 160,
		History: []models.Transaction{
			{Description: "Ride: A → B", Amount: 40, Type: models.TransactionDebit, Date: day},
			{Description: "Top Up", Amount: 200, Type: models.TransactionCredit, Date: day},
		},
	}
	assert.Equal(t, "💰 Balance: ₹160\n\nRecent:\n15 Oct -₹40  Ride: A → B\n15 Oct +₹200  Top Up", formatWallet(w))
}

func TestFormatPassAndOffer(t *testing.T) {
	p := models.MonthlyPass{Title: "Campus Loop"}
	assert.Equal(t, "🎫 Campus Loop (1 day left)", formatPass(p, 1))
	assert.Equal(t, "🎫 Campus Loop (12 days left)", formatPass(p, 12))

	o := models.PassOffer{PassOption: models.PassOption{ID: 2, Title: "Campus Loop", Subtitle: "Hostel Shuttle", Price: 1200, ValidDays: 30}}
	assert.Equal(t, "2. Campus Loop · Hostel Shuttle · ₹1200 / 30 days", formatOffer(o))
	o.Owned = true
	assert.Contains(t, formatOffer(o), "owned")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{service.ErrInsufficientFunds, "Not enough balance. Use /topup to add money."},
		{fmt.Errorf("%w: %w", service.ErrBookingFailed, storage.ErrConnection), "We can't reach our servers right now. Nothing was charged, please retry."},
		{service.ErrRideNotFound, "ride not found"},
		{service.ValidationError{Field: "amount", Msg: "must be a positive amount"}, "amount: must be a positive amount"},
		{fmt.Errorf("%w: boom", service.ErrCancelFailed), "Something went wrong, please try again later."},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}
