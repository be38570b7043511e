// Package labels manages causals and details: short descriptions a user
// attaches to transactions. Rows without an owner are shared defaults.
package labels

// Label is a causal or a detail.
type Label struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	UserID      *int64 `json:"id_user"`
}

// Input carries the writable label fields.
type Input struct {
	Description string `json:"description" validate:"required,max=255"`
}

// Kind selects the label table.
type Kind string

const (
	Causals Kind = "causal"
	Details Kind = "detail"
)
