package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/security"
)

func (e *Engine) OpenAccount(holder string, currency string) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Open(holder, currency)
}

func (e *Engine) CreditAccount(accountID uuid.UUID, amount decimal.Decimal) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.Credit(accountID, amount)
}

func (e *Engine) SetAccountStatus(accountID uuid.UUID, status domain.AccountStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ledger.SetStatus(accountID, status)
}

func (e *Engine) GetAccount(accountID uuid.UUID) (domain.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	account, ok := e.ledger.Get(accountID)
	if !ok {
		return domain.Account{}, domain.NotFound("account", accountID)
	}
	return account, nil
}

// RegisterCard issues an ACTIVE card against an existing account. The PAN is
// kept only behind a token; the CVV only as a bcrypt hash.
func (e *Engine) RegisterCard(accountID uuid.UUID, pan string, expMonth int, expYear int, cvv string, holder string) (uuid.UUID, error) {
	pan = security.NormalizePAN(pan)
	if err := security.ValidatePAN(pan); err != nil {
		return uuid.Nil, err
	}
	if expMonth < 1 || expMonth > 12 || expYear < 2000 {
		return uuid.Nil, domain.ErrInvalidExpiry
	}
	cvvHash, err := security.HashCVV(cvv)
	if err != nil {
		return uuid.Nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.ledger.Get(accountID); !ok {
		return uuid.Nil, domain.NotFound("account", accountID)
	}
	sealedName, err := e.security.Encrypt([]byte(strings.TrimSpace(holder)))
	if err != nil {
		return uuid.Nil, err
	}
	token, err := e.security.Tokenize(pan)
	if err != nil {
		return uuid.Nil, err
	}

	return e.cards.Register(domain.Card{
		AccountID:            accountID,
		PANToken:             token,
		MaskedPAN:            security.MaskPAN(pan),
		ExpiryMonth:          expMonth,
		ExpiryYear:           expYear,
		SealedCardholderName: sealedName,
		CVVHash:              cvvHash,
	}), nil
}

func (e *Engine) SetCardStatus(cardID uuid.UUID, status domain.CardStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cards.SetStatus(cardID, status)
}

func (e *Engine) GetCard(cardID uuid.UUID) (domain.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, ok := e.cards.Get(cardID)
	if !ok {
		return domain.Card{}, domain.NotFound("card", cardID)
	}
	name, err := e.security.Decrypt(card.SealedCardholderName)
	if err != nil {
		return domain.Card{}, err
	}
	card.CardholderName = string(name)
	card.SealedCardholderName = nil
	return card, nil
}

// VerifyCardCVV checks cvv against the stored hash of the card.
func (e *Engine) VerifyCardCVV(cardID uuid.UUID, cvv string) (bool, error) {
	card, err := e.GetCard(cardID)
	if err != nil {
		return false, err
	}
	return security.VerifyCVV(card.CVVHash, cvv)
}

func (e *Engine) RegisterMerchant(name string, category string, acquirerID uuid.UUID) uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.merchants.Register(name, category, acquirerID)
}

func (e *Engine) SetMerchantStatus(merchantID uuid.UUID, status domain.MerchantStatus) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.merchants.SetStatus(merchantID, status)
}

func (e *Engine) GetMerchant(merchantID uuid.UUID) (domain.Merchant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	merchant, ok := e.merchants.Get(merchantID)
	if !ok {
		return domain.Merchant{}, domain.NotFound("merchant", merchantID)
	}
	return merchant, nil
}
