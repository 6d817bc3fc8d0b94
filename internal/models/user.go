package models

import "time"

// User is an account record in the credential store.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never serialize
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login. The token is a bearer
// credential; the client presents it on subsequent requests.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
