package accounts

import "time"

// Account is a ledger a user records transactions against.
type Account struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Status         bool      `json:"status"`
	Note           *string   `json:"note"`
	CurrentBalance float64   `json:"current_balance"`
	InitialBalance float64   `json:"initial_balance"`
	CreationDate   time.Time `json:"creation_date"`
	AccountTypeID  int64     `json:"id_account_type"`
	CurrencyID     int64     `json:"id_currency"`
}

// Input carries the writable account fields.
type Input struct {
	Name           string  `json:"name" validate:"required,max=255"`
	Status         bool    `json:"status"`
	Note           *string `json:"note" validate:"omitempty,max=1024"`
	CurrentBalance float64 `json:"current_balance"`
	InitialBalance float64 `json:"initial_balance"`
	AccountTypeID  int64   `json:"id_account_type" validate:"required,gt=0"`
	CurrencyID     int64   `json:"id_currency" validate:"required,gt=0"`
}
