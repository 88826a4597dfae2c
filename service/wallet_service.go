package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const walletKeyPrefix = "wallet_v2_"

// WalletService is the only path that changes a balance.
type WalletService interface {
	// Load returns an empty wallet when the user has none yet.
	Load(ctx context.Context, userID string) (*models.Wallet, error)
	// Apply adds delta to the balance and records tx as the newest history line.
	// It does not reject a negative result; callers check funds first.
	Apply(ctx context.Context, userID string, delta int64, tx models.Transaction) (*models.Wallet, error)
	TopUp(ctx context.Context, userID string, amount int64) (*models.Wallet, error)
}

type walletService struct {
	kv    storage.IKeyValue
	log   logger.ILogger
	now   func() time.Time
	locks *keyedMutex
}

func NewWalletService(kv storage.IKeyValue, log logger.ILogger, now func() time.Time) WalletService {
	return &walletService{
		kv:    kv,
		log:   log,
		now:   now,
		locks: newKeyedMutex(),
	}
}

func walletKey(userID string) string {
	return walletKeyPrefix + userID
}

func (s *walletService) Load(ctx context.Context, userID string) (*models.Wallet, error) {
	raw, err := s.kv.Get(ctx, walletKey(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &models.Wallet{Balance: 0, History: []models.Transaction{}}, nil
		}
		return nil, err
	}

	var w models.Wallet
	if err := json.Unmarshal(raw, &w); err != nil {
		s.log.Error("wallet document is not valid JSON", logger.String("user_id", userID), logger.Error(err))
		return nil, &storage.DataIntegrityError{Entity: "wallet", ID: userID, Err: err}
	}
	if err := storage.CheckIntegrity("wallet", userID, w); err != nil {
		return nil, err
	}
	if w.History == nil {
		w.History = []models.Transaction{}
	}
	return &w, nil
}

func (s *walletService) Apply(ctx context.Context, userID string, delta int64, tx models.Transaction) (*models.Wallet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	w, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	w.Balance += delta
	history := make([]models.Transaction, 0, models.WalletHistoryLimit)
	history = append(history, tx)
	history = append(history, w.History...)
	if len(history) > models.WalletHistoryLimit {
		history = history[:models.WalletHistoryLimit]
	}
	w.History = history

	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, walletKey(userID), raw); err != nil {
		return nil, err
	}

	s.log.Debug("wallet updated",
		logger.String("user_id", userID),
		logger.Int64("delta", delta),
		logger.Int64("balance", w.Balance),
		logger.String("tx", tx.Description),
	)
	return w, nil
}

func (s *walletService) TopUp(ctx context.Context, userID string, amount int64) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, ValidationError{Field: "amount", Msg: "must be a positive amount"}
	}
	return s.Apply(ctx, userID, amount, s.newTransaction("Top Up", amount, models.TransactionCredit))
}

func (s *walletService) newTransaction(desc string, amount int64, kind models.TransactionType) models.Transaction {
	return newTransaction(s.now(), desc, amount, kind)
}

func newTransaction(at time.Time, desc string, amount int64, kind models.TransactionType) models.Transaction {
	if amount < 0 {
		amount = -amount
	}
	return models.Transaction{
		ID:          uuid.NewString(),
		Description: desc,
		Amount:      amount,
		Type:        kind,
		Date:        at,
	}
}
