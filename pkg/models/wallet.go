package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// WalletHistoryLimit caps the retained history. Older entries are dropped, the
// balance still reflects them.
const WalletHistoryLimit = 10

type Transaction struct {
	ID          string          `json:"id" validate:"required"`
	Description string          `json:"desc"`
	Amount      int64           `json:"amount" validate:"gte=0"`
	Type        TransactionType `json:"type" validate:"oneof=credit debit"`
	Date        time.Time       `json:"date"`
}

// legacyDateLayout is the locale short date older wallet documents carry.
const legacyDateLayout = "1/2/2006"

// UnmarshalJSON accepts both RFC 3339 timestamps and legacy short dates.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type plain Transaction
	var raw struct {
		plain
		Date string `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction(raw.plain)
	if raw.Date == "" {
		return nil
	}
	if d, err := time.Parse(time.RFC3339Nano, raw.Date); err == nil {
		t.Date = d
		return nil
	}
	d, err := time.ParseInLocation(legacyDateLayout, raw.Date, time.UTC)
	if err != nil {
		return fmt.Errorf("transaction %s: unrecognised date %q", t.ID, raw.Date)
	}
	t.Date = d
	return nil
}

type Wallet struct {
	Balance int64         `json:"balance"`
	History []Transaction `json:"history" validate:"dive"`
}
