package models

import "strings"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

func (u *User) GetName() string {
	if len(u.Email) > 0 {
		return u.Email
	} else if len(u.ID) > 0 {
		return u.ID
	}
	return "Unknown"
}

// Credentials is the request body for login and registration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) IsEmpty() bool {
	return len(strings.TrimSpace(c.Email)) == 0 || len(c.Password) == 0
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
