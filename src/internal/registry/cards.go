// Package registry holds card and merchant records. Registries are plain
// lookup stores and are not safe for concurrent use on their own.
package registry

import (
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

type CardRegistry struct {
	cards map[uuid.UUID]domain.Card
	now   func() time.Time
}

func NewCardRegistry(now func() time.Time) *CardRegistry {
	if now == nil {
		now = time.Now
	}
	return &CardRegistry{
		cards: make(map[uuid.UUID]domain.Card),
		now:   now,
	}
}

// Register stores card as ACTIVE and returns its new ID. The account
// reference is checked by the caller.
func (r *CardRegistry) Register(card domain.Card) uuid.UUID {
	card.ID = uuid.New()
	card.Status = domain.CardStatusActive
	card.IssuedAt = r.now().UTC()
	r.cards[card.ID] = card
	return card.ID
}

func (r *CardRegistry) Get(id uuid.UUID) (domain.Card, bool) {
	card, ok := r.cards[id]
	return card, ok
}

func (r *CardRegistry) SetStatus(id uuid.UUID, status domain.CardStatus) error {
	card, ok := r.cards[id]
	if !ok {
		return domain.NotFound("card", id)
	}
	if !status.Valid() {
		return domain.InvalidState("card", "ACTIVE|BLOCKED|EXPIRED", status)
	}
	card.Status = status
	r.cards[id] = card
	return nil
}

// Usable reports why a card cannot be charged: NotFound, ErrCardInactive or
// ErrCardExpired. Expiry is evaluated against the clock at call time.
func (r *CardRegistry) Usable(id uuid.UUID) (domain.Card, error) {
	card, ok := r.cards[id]
	if !ok {
		return domain.Card{}, domain.NotFound("card", id)
	}
	if card.Status != domain.CardStatusActive {
		return domain.Card{}, domain.ErrCardInactive
	}
	if card.IsExpired(r.now()) {
		return domain.Card{}, domain.ErrCardExpired
	}
	return card, nil
}

func (r *CardRegistry) IsActiveAndUnexpired(id uuid.UUID) bool {
	_, err := r.Usable(id)
	return err == nil
}
