package places

// Place is a shop or payee a transaction happened at. A nil UserID marks a
// shared default place.
type Place struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Address *string `json:"address"`
	Country *string `json:"country"`
	Email   *string `json:"email"`
	Website *string `json:"website"`
	Phone   *string `json:"phone"`
	Note    *string `json:"note"`
	UserID  *int64  `json:"id_user"`
}

// Input carries the writable place fields.
type Input struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Country *string `json:"country" validate:"omitempty,max=255"`
	Email   *string `json:"email" validate:"omitempty,email,max=255"`
	Website *string `json:"website" validate:"omitempty,url,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=64"`
	Note    *string `json:"note" validate:"omitempty,max=1024"`
}
