package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

type MerchantRegistry struct {
	merchants map[uuid.UUID]domain.Merchant
	now       func() time.Time
}

func NewMerchantRegistry(now func() time.Time) *MerchantRegistry {
	if now == nil {
		now = time.Now
	}
	return &MerchantRegistry{
		merchants: make(map[uuid.UUID]domain.Merchant),
		now:       now,
	}
}

func (r *MerchantRegistry) Register(name string, category string, acquirerID uuid.UUID) uuid.UUID {
	merchant := domain.Merchant{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Category:     strings.TrimSpace(category),
		AcquirerID:   acquirerID,
		Status:       domain.MerchantStatusActive,
		RegisteredAt: r.now().UTC(),
	}
	r.merchants[merchant.ID] = merchant
	return merchant.ID
}

func (r *MerchantRegistry) Get(id uuid.UUID) (domain.Merchant, bool) {
	merchant, ok := r.merchants[id]
	return merchant, ok
}

// SetStatus changes the merchant status. CLOSED is terminal.
func (r *MerchantRegistry) SetStatus(id uuid.UUID, status domain.MerchantStatus) error {
	merchant, ok := r.merchants[id]
	if !ok {
		return domain.NotFound("merchant", id)
	}
	if !status.Valid() {
		return domain.InvalidState("merchant", "ACTIVE|SUSPENDED|CLOSED", status)
	}
	if merchant.Status == domain.MerchantStatusClosed && status != domain.MerchantStatusClosed {
		return domain.InvalidState("merchant", domain.MerchantStatusActive+"|"+domain.MerchantStatusSuspended, merchant.Status)
	}
	merchant.Status = status
	r.merchants[id] = merchant
	return nil
}
