package service

import (
	"strings"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

// FilterRides keeps the rides that satisfy every set criterion, in input order.
// Full rides are always dropped.
func FilterRides(rides []*models.Ride, f models.RideFilter) []*models.Ride {
	query := strings.ToLower(strings.TrimSpace(f.LocationQuery))

	out := make([]*models.Ride, 0, len(rides))
	for _, ride := range rides {
		if ride == nil || ride.IsFull() {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(ride.From), query) &&
			!strings.Contains(strings.ToLower(ride.To), query) {
			continue
		}
		if f.VehicleType != "" && ride.VehicleType != f.VehicleType {
			continue
		}
		if f.MaxPrice != nil && ride.PricePerSeat > *f.MaxPrice {
			continue
		}
		if f.Date != "" && ride.Date != f.Date {
			continue
		}
		if f.WomenOnly && !ride.WomenOnly {
			continue
		}
		if f.ExamSpecial && !ride.ExamSpecial {
			continue
		}
		out = append(out, ride)
	}
	return out
}
