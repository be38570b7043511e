package users

import "time"

// User is the personal profile every credential and owned resource hangs off.
type User struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Phone     *string    `json:"phone,omitempty"`
	Country   *string    `json:"country,omitempty"`
	Address   *string    `json:"address,omitempty"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	Note      *string    `json:"note,omitempty"`
}

// Input carries the writable user fields.
type Input struct {
	Name      string     `json:"name" validate:"required,max=255"`
	Surname   string     `json:"surname" validate:"required,max=255"`
	Phone     *string    `json:"phone" validate:"omitempty,max=64"`
	Country   *string    `json:"country" validate:"omitempty,max=255"`
	Address   *string    `json:"address" validate:"omitempty,max=255"`
	Birthdate *time.Time `json:"birthdate"`
	Note      *string    `json:"note" validate:"omitempty,max=1024"`
}
