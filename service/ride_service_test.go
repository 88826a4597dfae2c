package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

var testDriver = &models.User{ID: "driver-1", Name: "Gurpreet", Phone: "9876543210"}

func TestPublishAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ride, err := f.svc.Ride().Publish(ctx, testDriver, models.PublishRideRequest{
		From: "  Chitkara University ",
		To:   "Rajpura Bus Stand",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, ride.ID)
	assert.Equal(t, "Chitkara University", ride.From)
	assert.Equal(t, models.VehicleCar, ride.VehicleType)
	assert.Equal(t, 3, ride.Seats)
	assert.Equal(t, int64(50), ride.PricePerSeat)
	assert.Equal(t, "2026-10-15", ride.Date)
	assert.Equal(t, 0, ride.BookedSeats)
	assert.Equal(t, models.RideStatusActive, ride.Status)
	assert.Equal(t, "Gurpreet", ride.DriverName)

	active, err := f.svc.Ride().GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ride.ID, active[0].ID)
}

func TestPublishValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		req   models.PublishRideRequest
		field string
	}{
		{name: "missing origin", req: models.PublishRideRequest{To: "B"}, field: "from"},
		{name: "same endpoints", req: models.PublishRideRequest{From: "Campus", To: "campus"}, field: "to"},
		{name: "too many seats", req: models.PublishRideRequest{From: "A", To: "B", Seats: 7}, field: "seats"},
		{name: "unknown vehicle", req: models.PublishRideRequest{From: "A", To: "B", VehicleType: "Bus"}, field: "vehicleType"},
		{name: "bad date", req: models.PublishRideRequest{From: "A", To: "B", Date: "15/10/2026"}, field: "date"},
		{name: "yesterday", req: models.PublishRideRequest{From: "A", To: "B", Date: "2026-10-14"}, field: "date"},
		{name: "past the window", req: models.PublishRideRequest{From: "A", To: "B", Date: "2026-10-18"}, field: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Ride().Publish(ctx, testDriver, tt.req)
			require.Error(t, err)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	_, err := f.svc.Ride().Publish(ctx, nil, models.PublishRideRequest{From: "A", To: "B"})
	assert.True(t, IsValidation(err))

	active, err := f.svc.Ride().GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestPublishWindowIsConfigurable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, WithPublishWindow(5))

	_, err := f.svc.Ride().Publish(ctx, testDriver, models.PublishRideRequest{From: "A", To: "B", Date: "2026-10-20"})
	assert.NoError(t, err)
	_, err = f.svc.Ride().Publish(ctx, testDriver, models.PublishRideRequest{From: "A", To: "B", Date: "2026-10-21"})
	assert.True(t, IsValidation(err))
}

func TestSearchFiltersActiveRides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addRide(t, models.Ride{ID: "cheap", From: "Campus", To: "Hostel", Seats: 3, PricePerSeat: 20})
	f.addRide(t, models.Ride{ID: "dear", From: "Campus", To: "Chandigarh", Seats: 3, PricePerSeat: 200})
	f.addRide(t, models.Ride{ID: "gone", From: "Campus", To: "Hostel", Seats: 3, PricePerSeat: 20, Status: "cancelled"})

	maxPrice := int64(100)
	rides, err := f.svc.Ride().Search(ctx, models.RideFilter{LocationQuery: "campus", MaxPrice: &maxPrice})
	require.NoError(t, err)
	assert.Equal(t, []string{"cheap"}, rideIDs(rides))
}

func TestDeleteRideIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ride := f.addRide(t, models.Ride{ID: "r1", From: "A", To: "B", Seats: 3, PricePerSeat: 10})

	err := f.svc.Ride().Delete(ctx, "someone-else", ride.ID)
	assert.ErrorIs(t, err, ErrRideNotFound)

	mine, err := f.svc.Ride().GetDriverRides(ctx, "driver-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, f.svc.Ride().Delete(ctx, "driver-1", ride.ID))
	mine, err = f.svc.Ride().GetDriverRides(ctx, "driver-1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	assert.ErrorIs(t, f.svc.Ride().Delete(ctx, "driver-1", ride.ID), ErrRideNotFound)
}
