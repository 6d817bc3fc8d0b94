package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// EnsureAdmin creates the seed admin account at bootstrap if it does not
// already exist. Credentials come from configuration; there is no public
// registration route.
func EnsureAdmin(ctx context.Context, users UserStore, username, email, password string) error {
	existing, err := users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = users.CreateUser(ctx, username, email, string(hashed))
	return err
}
