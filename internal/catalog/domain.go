// Package catalog serves read-only reference data shared by every user.
package catalog

// Currency is an ISO 4217 currency.
type Currency struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Code   string `json:"code"`
	Number int64  `json:"number"`
}

// Type labels an account or a transaction.
type Type struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Kind selects which type table a lookup reads.
type Kind string

const (
	AccountTypes     Kind = "account_type"
	TransactionTypes Kind = "transaction_type"
)
