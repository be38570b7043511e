// Package giros manages transfers between two accounts. A giro is only
// visible to a user who owns both of its accounts.
package giros

import "time"

// Giro moves an amount from a source to a destination account.
type Giro struct {
	ID                   int64     `json:"id"`
	SourceAccountID      int64     `json:"id_source_account"`
	DestinationAccountID int64     `json:"id_destination_account"`
	Data                 time.Time `json:"data"`
	Note                 *string   `json:"note"`
	Amount               float64   `json:"amount"`
	Expense              *float64  `json:"expense"`
	CurrencyID           int64     `json:"id_currency"`
}

// Input carries the writable giro fields.
type Input struct {
	SourceAccountID      int64     `json:"id_source_account" validate:"required,gt=0"`
	DestinationAccountID int64     `json:"id_destination_account" validate:"required,gt=0,nefield=SourceAccountID"`
	Data                 time.Time `json:"data" validate:"required"`
	Note                 *string   `json:"note" validate:"omitempty,max=1024"`
	Amount               float64   `json:"amount" validate:"gt=0"`
	Expense              *float64  `json:"expense"`
	CurrencyID           int64     `json:"id_currency" validate:"required,gt=0"`
}

// Side selects which account of a giro a listing filters on.
type Side string

const (
	Source      Side = "id_source_account"
	Destination Side = "id_destination_account"
)
