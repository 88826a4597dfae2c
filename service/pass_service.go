package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/abhijeet-0165/ridefusion/pkg/logger"
	"github.com/abhijeet-0165/ridefusion/pkg/models"
	"github.com/abhijeet-0165/ridefusion/storage"
)

const passesKeyPrefix = "monthlyPasses_"

var passCatalog = []models.PassOption{
	{
		ID:        1,
		Title:     "Rajpura → Chandigarh",
		Price:     2200,
		Subtitle:  "College Daily",
		Route:     models.Route{From: "Rajpura", To: "Chandigarh"},
		ValidDays: 30,
	},
	{
		ID:        2,
		Title:     "Campus Loop",
		Price:     1200,
		Subtitle:  "Hostel Shuttle",
		Route:     models.Route{From: "Campus", To: "Hostel"},
		ValidDays: 30,
	},
}

type PassService interface {
	Catalog() []models.PassOption
	// CatalogFor marks the options the user currently holds an active pass for.
	CatalogFor(ctx context.Context, userID string) ([]models.PassOffer, error)
	// LoadActive drops expired passes and prunes them from storage.
	LoadActive(ctx context.Context, userID string) ([]models.MonthlyPass, error)
	// Purchase does not deduplicate: buying an option twice yields two passes.
	Purchase(ctx context.Context, userID string, optionID int) (*PurchaseResult, error)
	HasActivePass(ctx context.Context, userID string, optionID int) (bool, error)
	MatchForRide(passes []models.MonthlyPass, ride *models.Ride) *models.MonthlyPass
	IsExpired(pass models.MonthlyPass) bool
	DaysLeft(pass models.MonthlyPass) int
}

type PurchaseResult struct {
	Pass   models.MonthlyPass   `json:"pass"`
	Passes []models.MonthlyPass `json:"passes"`
	Wallet *models.Wallet       `json:"wallet"`
}

type passService struct {
	kv      storage.IKeyValue
	wallet  WalletService
	log     logger.ILogger
	now     func() time.Time
	matcher RouteMatcher
	locks   *keyedMutex
}

func NewPassService(kv storage.IKeyValue, wallet WalletService, log logger.ILogger, now func() time.Time, matcher RouteMatcher) PassService {
	if matcher == nil {
		matcher = FuzzyEndpointMatch
	}
	return &passService{
		kv:      kv,
		wallet:  wallet,
		log:     log,
		now:     now,
		matcher: matcher,
		locks:   newKeyedMutex(),
	}
}

func passesKey(userID string) string {
	return passesKeyPrefix + userID
}

func (s *passService) Catalog() []models.PassOption {
	out := make([]models.PassOption, len(passCatalog))
	copy(out, passCatalog)
	return out
}

func (s *passService) CatalogFor(ctx context.Context, userID string) ([]models.PassOffer, error) {
	active, err := s.LoadActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	offers := make([]models.PassOffer, 0, len(passCatalog))
	for _, opt := range passCatalog {
		offers = append(offers, models.PassOffer{PassOption: opt, Owned: holds(active, opt.ID)})
	}
	return offers, nil
}

func (s *passService) LoadActive(ctx context.Context, userID string) ([]models.MonthlyPass, error) {
	unlock := s.locks.lock(userID)
	defer unlock()
	return s.loadActiveLocked(ctx, userID)
}

func (s *passService) loadActiveLocked(ctx context.Context, userID string) ([]models.MonthlyPass, error) {
	stored, err := s.read(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]models.MonthlyPass, 0, len(stored))
	for _, p := range stored {
		if p.Expiry().After(now) {
			active = append(active, p)
		}
	}

	if len(active) != len(stored) {
		if err := s.write(ctx, userID, active); err != nil {
			return nil, err
		}
		s.log.Info("pruned expired passes",
			logger.String("user_id", userID),
			logger.Int("removed", len(stored)-len(active)),
		)
	}
	return active, nil
}

func (s *passService) Purchase(ctx context.Context, userID string, optionID int) (*PurchaseResult, error) {
	opt, ok := findOption(optionID)
	if !ok {
		return nil, ErrUnknownPassOption
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	w, err := s.wallet.Load(ctx, userID)
	if err != nil {
		return nil, fail(ErrPurchaseFailed, err)
	}
	if w.Balance < opt.Price {
		return nil, ErrInsufficientFunds
	}

	active, err := s.loadActiveLocked(ctx, userID)
	if err != nil {
		return nil, fail(ErrPurchaseFailed, err)
	}

	now := s.now()
	pass := models.MonthlyPass{
		ID:            uuid.NewString(),
		PassID:        opt.ID,
		Title:         opt.Title,
		Route:         opt.Route,
		PurchasedDate: now,
		ValidDays:     opt.ValidDays,
		Price:         opt.Price,
	}
	updated := append(append(make([]models.MonthlyPass, 0, len(active)+1), active...), pass)

	if err := s.write(ctx, userID, updated); err != nil {
		return nil, fail(ErrPurchaseFailed, err)
	}

	tx := newTransaction(now, "Monthly Pass: "+opt.Title, opt.Price, models.TransactionDebit)
	w, err = s.wallet.Apply(ctx, userID, -opt.Price, tx)
	if err != nil {
		if rbErr := s.write(context.WithoutCancel(ctx), userID, active); rbErr != nil {
			s.log.Error("pass purchase compensation failed, reconcile manually",
				logger.String("user_id", userID),
				logger.String("pass_id", pass.ID),
				logger.Time("at", s.now()),
				logger.Error(rbErr),
			)
		}
		return nil, fail(ErrPurchaseFailed, err)
	}

	s.log.Info("monthly pass purchased",
		logger.String("user_id", userID),
		logger.String("pass_id", pass.ID),
		logger.Int("option_id", opt.ID),
		logger.Int64("price", opt.Price),
	)
	return &PurchaseResult{Pass: pass, Passes: updated, Wallet: w}, nil
}

func (s *passService) HasActivePass(ctx context.Context, userID string, optionID int) (bool, error) {
	active, err := s.LoadActive(ctx, userID)
	if err != nil {
		return false, err
	}
	return holds(active, optionID), nil
}

func (s *passService) MatchForRide(passes []models.MonthlyPass, ride *models.Ride) *models.MonthlyPass {
	if ride == nil {
		return nil
	}
	now := s.now()
	for i := range passes {
		p := passes[i]
		if IsPassExpired(p, now) {
			continue
		}
		if s.matcher(p.Route.From, ride.From) && s.matcher(p.Route.To, ride.To) {
			return &p
		}
	}
	return nil
}

func (s *passService) IsExpired(pass models.MonthlyPass) bool {
	return IsPassExpired(pass, s.now())
}

func (s *passService) DaysLeft(pass models.MonthlyPass) int {
	return PassDaysLeft(pass, s.now())
}

// IsPassExpired reports whether now has reached the pass expiry.
func IsPassExpired(pass models.MonthlyPass, now time.Time) bool {
	return !now.Before(pass.Expiry())
}

// PassDaysLeft rounds the remaining time up to whole days.
func PassDaysLeft(pass models.MonthlyPass, now time.Time) int {
	left := pass.Expiry().Sub(now)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

func (s *passService) read(ctx context.Context, userID string) ([]models.MonthlyPass, error) {
	raw, err := s.kv.Get(ctx, passesKey(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []models.MonthlyPass{}, nil
		}
		return nil, err
	}

	var passes []models.MonthlyPass
	if err := json.Unmarshal(raw, &passes); err != nil {
		return nil, &storage.DataIntegrityError{Entity: "monthly passes", ID: userID, Err: err}
	}
	for _, p := range passes {
		if err := storage.CheckIntegrity("monthly pass", p.ID, p); err != nil {
			return nil, err
		}
	}
	return passes, nil
}

func (s *passService) write(ctx context.Context, userID string, passes []models.MonthlyPass) error {
	raw, err := json.Marshal(passes)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, passesKey(userID), raw)
}

func findOption(id int) (models.PassOption, bool) {
	for _, opt := range passCatalog {
		if opt.ID == id {
			return opt, true
		}
	}
	return models.PassOption{}, false
}

func holds(passes []models.MonthlyPass, optionID int) bool {
	for _, p := range passes {
		if p.PassID == optionID {
			return true
		}
	}
	return false
}
