package domain

import (
	"time"

	"github.com/google/uuid"
)

type CardStatus string

const (
	CardStatusActive  CardStatus = "ACTIVE"
	CardStatusBlocked CardStatus = "BLOCKED"
	CardStatusExpired CardStatus = "EXPIRED"
)

func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusActive, CardStatusBlocked, CardStatusExpired:
		return true
	}
	return false
}

// Card never carries the clear PAN. PANToken is reversible only through the
// security manager that issued it. Stored cards keep the holder name sealed;
// CardholderName is filled only on copies handed to callers.
type Card struct {
	ID                   uuid.UUID
	AccountID            uuid.UUID
	PANToken             string
	MaskedPAN            string
	ExpiryMonth          int
	ExpiryYear           int
	CardholderName       string
	SealedCardholderName []byte
	CVVHash              string
	Status               CardStatus
	IssuedAt             time.Time
}

// IsExpired reports whether the card is past its expiry month at now. A card
// is usable through the last instant of its expiry month (UTC).
func (c Card) IsExpired(now time.Time) bool {
	if c.ExpiryMonth < 1 || c.ExpiryMonth > 12 {
		return true
	}
	firstInvalid := time.Date(c.ExpiryYear, time.Month(c.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return !now.UTC().Before(firstInvalid)
}
