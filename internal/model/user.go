package model

import "time"

type User struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	PhoneNumber  string    `json:"phoneNumber"`
	Address      string    `json:"address"`
	ImageProfile string    `json:"imageProfile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns a copy of the user without credentials.
func (u User) Public() User {
	u.Password = ""
	return u
}
