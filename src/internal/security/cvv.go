package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

func HashCVV(cvv string) (string, error) {
	if !validCVV(cvv) {
		return "", domain.ErrInvalidCVV
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cvv), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash cvv: %w", err)
	}
	return string(hash), nil
}

func VerifyCVV(hash string, cvv string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(cvv))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify cvv: %w", err)
}

func validCVV(cvv string) bool {
	if len(cvv) < 3 || len(cvv) > 4 {
		return false
	}
	for _, r := range cvv {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
