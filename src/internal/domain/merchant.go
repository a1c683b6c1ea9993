package domain

import (
	"time"

	"github.com/google/uuid"
)

type MerchantStatus string

const (
	MerchantStatusActive    MerchantStatus = "ACTIVE"
	MerchantStatusSuspended MerchantStatus = "SUSPENDED"
	MerchantStatusClosed    MerchantStatus = "CLOSED"
)

func (s MerchantStatus) Valid() bool {
	switch s {
	case MerchantStatusActive, MerchantStatusSuspended, MerchantStatusClosed:
		return true
	}
	return false
}

type Merchant struct {
	ID           uuid.UUID
	Name         string
	Category     string
	AcquirerID   uuid.UUID
	Status       MerchantStatus
	RegisteredAt time.Time
}
