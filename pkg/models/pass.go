package models

import "time"

type Route struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
}

// PassOption is a catalog entry. Owned passes copy its fields at purchase time.
type PassOption struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Subtitle  string `json:"subtitle"`
	Route     Route  `json:"route"`
	ValidDays int    `json:"validDays"`
}

type MonthlyPass struct {
	ID            string    `json:"id" validate:"required"`
	PassID        int       `json:"passId"`
	Title         string    `json:"title"`
	Route         Route     `json:"route"`
	PurchasedDate time.Time `json:"purchasedDate"`
	ValidDays     int       `json:"validDays" validate:"gt=0"`
	Price         int64     `json:"price" validate:"gte=0"`
}

// Expiry is the purchase instant moved forward by ValidDays calendar days.
func (p MonthlyPass) Expiry() time.Time {
	return p.PurchasedDate.AddDate(0, 0, p.ValidDays)
}

// PassOffer is a catalog entry annotated with whether the user already holds it.
type PassOffer struct {
	PassOption
	Owned bool `json:"owned"`
}
