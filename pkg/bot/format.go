package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/service"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const (
	msgWelcome    = "👋 Welcome to RideFusion! Share rides around campus and pay from your wallet."
	msgLoginFirst = "Please /login <email> <password> first."
	msgHelp       = "/rides [place] - find rides\n" +
		"/book <rideID> - book a seat\n" +
		"/trips - your upcoming trips\n" +
		"/cancel <bookingID> - cancel a trip\n" +
		"/wallet - balance and history\n" +
		"/topup <amount> - add money\n" +
		"/passes - monthly passes\n" +
		"/buypass <optionID> - buy a pass\n\n" +
		"Driving? /publish, /myrides, /deleteride <rideID>"
)

var vehicleIcons = map[models.VehicleType]string{
	models.VehicleCar:  "🚗",
	models.VehicleAuto: "🛺",
	models.VehicleBike: "🏍",
}

func formatRide(r *models.Ride) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", vehicleIcons[r.VehicleType], r.RouteLabel())
	fmt.Fprintf(&sb, "📅 %s %s\n", r.Date, r.Time)
	fmt.Fprintf(&sb, "💺 %d of %d seats left · ₹%d/seat\n", r.SeatsLeft(), r.Seats, r.PricePerSeat)
	fmt.Fprintf(&sb, "👤 %s", r.DriverName)

	var tags []string
	if r.WomenOnly {
		tags = append(tags, "women only")
	}
	if r.ExamSpecial {
		tags = append(tags, "exam special")
	}
	if len(tags) > 0 {
		fmt.Fprintf(&sb, "\n🏷 %s", strings.Join(tags, ", "))
	}
	fmt.Fprintf(&sb, "\nID: %s", r.ID)
	return sb.String()
}

func formatBookingResult(res *service.BookingResult) string {
	line := fmt.Sprintf("✅ Booked %s for ₹%d.", res.Booking.Route, res.Booking.Amount)
	if res.UsedPass != nil {
		line = fmt.Sprintf("✅ Booked %s with your %s pass.", res.Booking.Route, res.UsedPass.Title)
	}
	return fmt.Sprintf("%s\nBalance: ₹%d\nBooking ID: %s", line, res.Wallet.Balance, res.Booking.ID)
}

func formatBooking(b *models.Booking) string {
	when := b.BookingDate.Format(models.DateLayout)
	if b.Ride != nil {
		when = strings.TrimSpace(b.Ride.Date + " " + b.Ride.Time)
	}
	paid := fmt.Sprintf("₹%d", b.Amount)
	if b.UsedPass != nil {
		paid = "monthly pass"
	}
	return fmt.Sprintf("🧾 %s\n📅 %s\n💳 %s\nID: %s", b.Route, when, paid, b.ID)
}

func formatWallet(w *models.Wallet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 Balance: ₹%d", w.Balance)
	if len(w.History) == 0 {
		return sb.String()
	}
	sb.WriteString("\n\nRecent:")
	for _, tx := range w.History {
		sign := "+"
		if tx.Type == models.TransactionDebit {
			sign = "-"
		}
		fmt.Fprintf(&sb, "\n%s %s₹%d  %s", tx.Date.Format("02 Jan"), sign, tx.Amount, tx.Description)
	}
	return sb.String()
}

func formatPass(p models.MonthlyPass, daysLeft int) string {
	unit := "days"
	if daysLeft == 1 {
		unit = "day"
	}
	return fmt.Sprintf("🎫 %s (%d %s left)", p.Title, daysLeft, unit)
}

func formatOffer(o models.PassOffer) string {
	s := fmt.Sprintf("%d. %s · %s · ₹%d / %d days", o.ID, o.Title, o.Subtitle, o.Price, o.ValidDays)
	if o.Owned {
		s += " ✔ owned"
	}
	return s
}

// userMessage turns a service error into something safe to show in chat.
func userMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInsufficientFunds):
		return "Not enough balance. Use /topup to add money."
	case errors.Is(err, service.ErrRideFull):
		return "That ride is already full."
	case errors.Is(err, service.ErrBookingInFlight):
		return "This ride is being booked right now, try again in a moment."
	case errors.Is(err, service.ErrAlreadyCancelled):
		return "That booking is already cancelled."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Wrong email or password."
	case service.IsValidation(err), service.IsNotFound(err):
		return err.Error()
	case errors.Is(err, storage.ErrConnection):
		return "We can't reach our servers right now. Nothing was charged, please retry."
	}
	return "Something went wrong, please try again later."
}
