package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/dvi/internal/common"
)

// HashPIN returns the bcrypt hash stored for a mechanic.
func HashPIN(pin []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(pin, bcrypt.DefaultCost)
}

// CheckPIN compares pin with a stored hash. A mismatch is
// common.ErrorUnauthorized.
func CheckPIN(hash, pin []byte) error {
	err := bcrypt.CompareHashAndPassword(hash, pin)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return common.ErrorUnauthorized
	}
	return err
}
