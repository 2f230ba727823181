package pkg

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt cost of new admin password hashes.
const DefaultPasswordCost = 12

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword hashes the password with bcrypt, cost <= 0 means DefaultPasswordCost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultPasswordCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return BytesToString(hash), nil
}

// CheckPasswordHash returns ErrPasswordMismatch for a wrong password; any
// other error means the stored hash itself is unusable.
func CheckPasswordHash(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
