package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

func TestWalletLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing wallet is empty", func(t *testing.T) {
		f := newFixture(t)
		w, err := f.svc.Wallet().Load(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), w.Balance)
		assert.NotNil(t, w.History)
		assert.Empty(t, w.History)
	})

	t.Run("corrupt document is a data integrity error", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.kv.KV.Set(ctx, walletKey("u1"), []byte(`{"balance":"lots"}`)))

		_, err := f.svc.Wallet().Load(ctx, "u1")
		assert.True(t, storage.IsDataIntegrity(err))
	})

	t.Run("short dates from older clients load", func(t *testing.T) {
		f := newFixture(t)
		doc := `{"balance":160,"history":[` +
			`{"id":"mgx2","desc":"Ride: Campus → Rajpura","amount":40,"type":"debit","date":"10/15/2026"},` +
			`{"id":"mgx1","desc":"Top Up","amount":200,"type":"credit","date":"10/14/2026"}]}`
		require.NoError(t, f.kv.KV.Set(ctx, walletKey("u1"), []byte(doc)))

		w, err := f.svc.Wallet().Load(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, int64(160), w.Balance)
		require.Len(t, w.History, 2)
		assert.Equal(t, "2026-10-15", w.History[0].Date.Format("2006-01-02"))
		assert.Equal(t, models.TransactionCredit, w.History[1].Type)
	})

	t.Run("unreachable store surfaces connection error", func(t *testing.T) {
		f := newFixture(t)
		f.kv.getErr = fmt.Errorf("%w: dial tcp", storage.ErrConnection)

		_, err := f.svc.Wallet().Load(ctx, "u1")
		assert.ErrorIs(t, err, ErrConnection)
	})
}

func TestWalletApplyKeepsBalanceAndBoundedHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	wallet := f.svc.Wallet()

	deltas := []int64{500, -120, 40, -60, 1000, -5, -5, 300, -250, 75, 10, -90, 20}
	var sum int64
	for i, d := range deltas {
		kind := models.TransactionCredit
		if d < 0 {
			kind = models.TransactionDebit
		}
		tx := newTransaction(testNow, fmt.Sprintf("tx-%d", i), d, kind)
		_, err := wallet.Apply(ctx, "u1", d, tx)
		require.NoError(t, err)
		sum += d
	}

	w, err := wallet.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, sum, w.Balance)
	require.Len(t, w.History, models.WalletHistoryLimit)

	// newest first
	for i, tx := range w.History {
		assert.Equal(t, fmt.Sprintf("tx-%d", len(deltas)-1-i), tx.Description)
		assert.GreaterOrEqual(t, tx.Amount, int64(0))
	}
}

func TestWalletApplyAllowsNegativeBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w, err := f.svc.Wallet().Apply(ctx, "u1", -30, newTransaction(testNow, "Ride: A → B", 30, models.TransactionDebit))
	require.NoError(t, err)
	assert.Equal(t, int64(-30), w.Balance)
}

func TestWalletTopUp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	w, err := f.svc.Wallet().TopUp(ctx, "u1", 250)
	require.NoError(t, err)
	assert.Equal(t, int64(250), w.Balance)
	require.Len(t, w.History, 1)
	assert.Equal(t, "Top Up", w.History[0].Description)
	assert.Equal(t, models.TransactionCredit, w.History[0].Type)
	assert.Equal(t, testNow, w.History[0].Date)

	for _, amount := range []int64{0, -10} {
		_, err := f.svc.Wallet().TopUp(ctx, "u1", amount)
		assert.True(t, IsValidation(err), "amount %d", amount)
	}
	assert.Equal(t, int64(250), f.balance(t, "u1"))
}

func TestWalletApplyIsSerialisedPerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const workers = 20
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := f.svc.Wallet().TopUp(ctx, "u1", 5)
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, int64(workers*5), f.balance(t, "u1"))
}
