package registry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/registry"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time { return c.at }

func TestCardRegistry_ExpiryIsEvaluatedAtCallTime(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, time.March, 31, 23, 0, 0, 0, time.UTC)}
	cards := registry.NewCardRegistry(clock.Now)

	id := cards.Register(domain.Card{
		AccountID:   uuid.New(),
		MaskedPAN:   "411111******1111",
		ExpiryMonth: 3,
		ExpiryYear:  2026,
	})

	if !cards.IsActiveAndUnexpired(id) {
		t.Fatal("card should be valid through the end of its expiry month")
	}

	clock.at = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if cards.IsActiveAndUnexpired(id) {
		t.Fatal("card should be expired from the first instant of the following month")
	}
}

func TestCardRegistry_BlockedCardIsInactive(t *testing.T) {
	cards := registry.NewCardRegistry(nil)
	id := cards.Register(domain.Card{ExpiryMonth: 12, ExpiryYear: time.Now().Year() + 3})

	if !cards.IsActiveAndUnexpired(id) {
		t.Fatal("expected fresh card to be active")
	}
	if err := cards.SetStatus(id, domain.CardStatusBlocked); err != nil {
		t.Fatalf("block card: %v", err)
	}
	if cards.IsActiveAndUnexpired(id) {
		t.Fatal("blocked card must not be active")
	}

	card, ok := cards.Get(id)
	if !ok || card.Status != domain.CardStatusBlocked {
		t.Fatalf("expected BLOCKED card, got %+v", card)
	}
}

func TestCardRegistry_UnknownCard(t *testing.T) {
	cards := registry.NewCardRegistry(nil)

	if cards.IsActiveAndUnexpired(uuid.New()) {
		t.Fatal("unknown card must not be active")
	}
	if err := cards.SetStatus(uuid.New(), domain.CardStatusBlocked); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestCard_IsExpiredRejectsInvalidMonth(t *testing.T) {
	card := domain.Card{ExpiryMonth: 13, ExpiryYear: 2099}
	if !card.IsExpired(time.Now()) {
		t.Fatal("card with an invalid expiry month must be treated as expired")
	}
}

func TestMerchantRegistry_Lifecycle(t *testing.T) {
	merchants := registry.NewMerchantRegistry(nil)
	acquirer := uuid.New()
	id := merchants.Register(" Example Store ", "Retail", acquirer)

	merchant, ok := merchants.Get(id)
	if !ok {
		t.Fatal("expected merchant to exist")
	}
	if merchant.Name != "Example Store" || merchant.AcquirerID != acquirer || merchant.Status != domain.MerchantStatusActive {
		t.Fatalf("unexpected merchant %+v", merchant)
	}

	if err := merchants.SetStatus(id, domain.MerchantStatusSuspended); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if err := merchants.SetStatus(id, domain.MerchantStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := merchants.SetStatus(id, domain.MerchantStatusActive); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestCardRegistry_UsableReportsDeclineReason(t *testing.T) {
	clock := &fakeClock{at: time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)}
	cards := registry.NewCardRegistry(clock.Now)

	id := cards.Register(domain.Card{AccountID: uuid.New(), ExpiryMonth: 3, ExpiryYear: 2026})
	card, err := cards.Usable(id)
	if err != nil || card.ID != id {
		t.Fatalf("expected usable card %s, got %+v, %v", id, card, err)
	}

	clock.at = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	if _, err := cards.Usable(id); !errors.Is(err, domain.ErrCardExpired) {
		t.Fatalf("expected ErrCardExpired, got %v", err)
	}

	if err := cards.SetStatus(id, domain.CardStatusBlocked); err != nil {
		t.Fatalf("block card: %v", err)
	}
	if _, err := cards.Usable(id); !errors.Is(err, domain.ErrCardInactive) {
		t.Fatalf("expected ErrCardInactive to win over expiry, got %v", err)
	}

	if _, err := cards.Usable(uuid.New()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
