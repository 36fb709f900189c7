package model

// Client is a booker profile. The client reference on an appointment is
// nullable, so admin-seeded appointments can exist without one.
type Client struct {
	Base
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	Password     string `db:"-" json:"password,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
	PhoneNumber  string `db:"phone_number" json:"phone_number"`
	City         string `db:"city" json:"city"`
}
