// Package transactions records movements on accounts and the details
// attached to them. A transaction belongs to whoever owns its account.
package transactions

import "time"

// Transaction is one movement on an account.
type Transaction struct {
	ID            int64     `json:"id"`
	AccountID     int64     `json:"id_account"`
	TypeID        int64     `json:"id_transaction_type"`
	PlaceID       *int64    `json:"id_place"`
	BeneficiaryID *int64    `json:"id_beneficiary"`
	Note          *string   `json:"note"`
	Amount        float64   `json:"amount"`
	Data          time.Time `json:"data"`
	CurrencyID    int64     `json:"id_currency"`
	Expense       *float64  `json:"expense"`
	CausalID      int64     `json:"id_causal"`
}

// Input carries the writable transaction fields.
type Input struct {
	AccountID     int64     `json:"id_account" validate:"required,gt=0"`
	TypeID        int64     `json:"id_transaction_type" validate:"required,gt=0"`
	PlaceID       *int64    `json:"id_place" validate:"omitempty,gt=0"`
	BeneficiaryID *int64    `json:"id_beneficiary" validate:"omitempty,gt=0"`
	Note          *string   `json:"note" validate:"omitempty,max=1024"`
	Amount        float64   `json:"amount"`
	Data          time.Time `json:"data" validate:"required"`
	CurrencyID    int64     `json:"id_currency" validate:"required,gt=0"`
	Expense       *float64  `json:"expense"`
	CausalID      int64     `json:"id_causal" validate:"required,gt=0"`
}

// Detail links a detail label to a transaction.
type Detail struct {
	DetailID      int64  `json:"id_detail" validate:"required,gt=0"`
	TransactionID int64  `json:"id_transaction" validate:"required,gt=0"`
	Amount        *int64 `json:"amount"`
}
