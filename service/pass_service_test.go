package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
)

func pass(id string, optionID int, from, to string, purchased time.Time, validDays int) models.MonthlyPass {
	return models.MonthlyPass{
		ID:            id,
		PassID:        optionID,
		Title:         from + " → " + to,
		Route:         models.Route{From: from, To: to},
		PurchasedDate: purchased,
		ValidDays:     validDays,
		Price:         2200,
	}
}

func TestPassLoadActiveExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	day := 24 * time.Hour

	expired := pass("old", 1, "Rajpura", "Chandigarh", testNow.Add(-31*day), 30)
	fresh := pass("new", 1, "Rajpura", "Chandigarh", testNow.Add(-29*day), 30)
	f.storePasses(t, "u1", expired, fresh)

	active, err := f.svc.Pass().LoadActive(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "new", active[0].ID)

	// the stored set was compacted
	raw, err := f.kv.KV.Get(ctx, passesKey("u1"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"old"`)
	assert.Contains(t, string(raw), `"new"`)
}

func TestPassIsExpiredBoundary(t *testing.T) {
	f := newFixture(t)
	p := pass("p", 1, "A", "B", testNow.AddDate(0, 0, -30), 30)

	assert.True(t, f.svc.Pass().IsExpired(p), "expiry instant counts as expired")
	assert.True(t, IsPassExpired(p, testNow.Add(time.Second)))
	assert.False(t, IsPassExpired(p, testNow.Add(-time.Second)))
}

func TestPassDaysLeft(t *testing.T) {
	p := pass("p", 1, "A", "B", testNow, 30)

	assert.Equal(t, 30, PassDaysLeft(p, testNow))
	assert.Equal(t, 30, PassDaysLeft(p, testNow.Add(time.Hour)))
	assert.Equal(t, 1, PassDaysLeft(p, testNow.AddDate(0, 0, 30).Add(-time.Minute)))
	assert.Equal(t, 0, PassDaysLeft(p, testNow.AddDate(0, 0, 31)))
}

func TestMatchForRide(t *testing.T) {
	f := newFixture(t)
	active := pass("p1", 1, "Rajpura", "Chandigarh", testNow.Add(-time.Hour), 30)

	tests := []struct {
		name    string
		passes  []models.MonthlyPass
		ride    models.Ride
		matchID string
	}{
		{
			name:    "substring on destination",
			passes:  []models.MonthlyPass{active},
			ride:    models.Ride{From: "Rajpura", To: "Chandigarh Sector 5"},
			matchID: "p1",
		},
		{
			name:    "ride name contained in pass name, any case",
			passes:  []models.MonthlyPass{pass("p2", 2, "Chitkara University", "Hostel Block A", testNow, 30)},
			ride:    models.Ride{From: "chitkara", To: "HOSTEL"},
			matchID: "p2",
		},
		{
			name:   "reverse direction does not match",
			passes: []models.MonthlyPass{active},
			ride:   models.Ride{From: "Chandigarh", To: "Rajpura"},
		},
		{
			name:   "expired pass is ignored",
			passes: []models.MonthlyPass{pass("old", 1, "Rajpura", "Chandigarh", testNow.AddDate(0, 0, -40), 30)},
			ride:   models.Ride{From: "Rajpura", To: "Chandigarh"},
		},
		{
			name:    "first match wins",
			passes:  []models.MonthlyPass{active, pass("p3", 1, "Rajpura", "Chandigarh", testNow, 30)},
			ride:    models.Ride{From: "Rajpura", To: "Chandigarh"},
			matchID: "p1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ride := tt.ride
			got := f.svc.Pass().MatchForRide(tt.passes, &ride)
			if tt.matchID == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.matchID, got.ID)
		})
	}
}

func TestMatchForRideUsesInjectedMatcher(t *testing.T) {
	exact := func(a, b string) bool { return a == b }
	f := newFixture(t, WithRouteMatcher(exact))
	p := pass("p1", 1, "Rajpura", "Chandigarh", testNow, 30)

	assert.Nil(t, f.svc.Pass().MatchForRide([]models.MonthlyPass{p}, &models.Ride{From: "Rajpura", To: "Chandigarh Sector 5"}))
	assert.NotNil(t, f.svc.Pass().MatchForRide([]models.MonthlyPass{p}, &models.Ride{From: "Rajpura", To: "Chandigarh"}))
}

func TestFuzzyEndpointMatch(t *testing.T) {
	assert.True(t, FuzzyEndpointMatch("Chitkara University", "chitkara"))
	assert.True(t, FuzzyEndpointMatch("Campus", "Campus Gate 2"))
	assert.False(t, FuzzyEndpointMatch("Campus", "Hostel"))
	assert.False(t, FuzzyEndpointMatch("", "Hostel"))
}

func TestPassPurchase(t *testing.T) {
	ctx := context.Background()

	t.Run("debits the wallet and stores the pass", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "u1", 3000)

		res, err := f.svc.Pass().Purchase(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Equal(t, int64(800), res.Wallet.Balance)
		assert.Equal(t, "Monthly Pass: Rajpura → Chandigarh", res.Wallet.History[0].Description)
		assert.Equal(t, models.TransactionDebit, res.Wallet.History[0].Type)
		assert.Equal(t, int64(2200), res.Wallet.History[0].Amount)
		assert.Equal(t, testNow, res.Pass.PurchasedDate)
		assert.Equal(t, 30, res.Pass.ValidDays)

		owned, err := f.svc.Pass().HasActivePass(ctx, "u1", 1)
		require.NoError(t, err)
		assert.True(t, owned)

		offers, err := f.svc.Pass().CatalogFor(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, offers, 2)
		assert.True(t, offers[0].Owned)
		assert.False(t, offers[1].Owned)
	})

	t.Run("insufficient funds leaves state untouched", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "u1", 1000)

		_, err := f.svc.Pass().Purchase(ctx, "u1", 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, int64(1000), f.balance(t, "u1"))

		active, err := f.svc.Pass().LoadActive(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, active)
	})

	t.Run("unknown option", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Pass().Purchase(ctx, "u1", 99)
		assert.ErrorIs(t, err, ErrUnknownPassOption)
	})

	// Buying the same option twice is accepted and yields two overlapping passes.
	t.Run("repeat purchase is not deduplicated", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "u1", 2400)

		_, err := f.svc.Pass().Purchase(ctx, "u1", 2)
		require.NoError(t, err)
		res, err := f.svc.Pass().Purchase(ctx, "u1", 2)
		require.NoError(t, err)

		assert.Len(t, res.Passes, 2)
		assert.NotEqual(t, res.Passes[0].ID, res.Passes[1].ID)
		assert.Equal(t, int64(0), res.Wallet.Balance)
	})

	t.Run("failed debit removes the new pass", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "u1", 3000)
		f.kv.failPrefix = walletKeyPrefix
		f.kv.setErr = errRemote

		_, err := f.svc.Pass().Purchase(ctx, "u1", 1)
		assert.ErrorIs(t, err, ErrPurchaseFailed)
		assert.ErrorIs(t, err, errRemote)

		f.kv.setErr = nil
		active, err := f.svc.Pass().LoadActive(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, active)
		assert.Equal(t, int64(3000), f.balance(t, "u1"))
	})

	t.Run("failed pass write aborts before debit", func(t *testing.T) {
		f := newFixture(t)
		f.fund(t, "u1", 3000)
		f.kv.failPrefix = passesKeyPrefix
		f.kv.setErr = errRemote

		_, err := f.svc.Pass().Purchase(ctx, "u1", 1)
		assert.ErrorIs(t, err, ErrPurchaseFailed)
		assert.Equal(t, int64(3000), f.balance(t, "u1"))
	})
}
