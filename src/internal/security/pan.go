package security

import (
	"strings"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const (
	minPANLength = 12
	maxPANLength = 19
)

// NormalizePAN strips spaces and dashes.
func NormalizePAN(pan string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(pan))
}

// ValidatePAN checks length, digits and the Luhn checksum of a normalized PAN.
func ValidatePAN(pan string) error {
	if len(pan) < minPANLength || len(pan) > maxPANLength {
		return domain.ErrInvalidPAN
	}

	sum := 0
	double := false
	for i := len(pan) - 1; i >= 0; i-- {
		c := pan[i]
		if c < '0' || c > '9' {
			return domain.ErrInvalidPAN
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	if sum%10 != 0 {
		return domain.ErrInvalidPAN
	}
	return nil
}

// MaskPAN keeps the first six and last four digits.
func MaskPAN(pan string) string {
	if len(pan) <= 10 {
		return strings.Repeat("*", len(pan))
	}
	return pan[:6] + strings.Repeat("*", len(pan)-10) + pan[len(pan)-4:]
}
