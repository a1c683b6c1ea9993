// Package ledger owns account records and the only two primitives that move
// money: Debit and Credit.
//
// A Ledger is not safe for concurrent use. The transaction engine serializes
// every call.
package ledger

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const entity = "account"

type Ledger struct {
	accounts map[uuid.UUID]*domain.Account
	now      func() time.Time
}

func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		accounts: make(map[uuid.UUID]*domain.Account),
		now:      now,
	}
}

// Open registers an ACTIVE account with a zero balance.
func (l *Ledger) Open(holder string, currency string) uuid.UUID {
	ts := l.now().UTC()
	account := &domain.Account{
		ID:         uuid.New(),
		HolderName: strings.TrimSpace(holder),
		Balance:    decimal.Zero,
		Currency:   strings.ToUpper(strings.TrimSpace(currency)),
		Status:     domain.AccountStatusActive,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	l.accounts[account.ID] = account
	return account.ID
}

func (l *Ledger) Credit(id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	account, ok := l.accounts[id]
	if !ok {
		return domain.NotFound(entity, id)
	}

	account.Balance = account.Balance.Add(amount)
	account.UpdatedAt = l.now().UTC()
	return nil
}

func (l *Ledger) Debit(id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	account, ok := l.accounts[id]
	if !ok {
		return domain.NotFound(entity, id)
	}
	if account.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	account.Balance = account.Balance.Sub(amount)
	account.UpdatedAt = l.now().UTC()
	return nil
}

// CanDebit reports whether Debit(id, amount) would succeed, without mutating.
func (l *Ledger) CanDebit(id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	account, ok := l.accounts[id]
	if !ok {
		return domain.NotFound(entity, id)
	}
	if account.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func (l *Ledger) Balance(id uuid.UUID) (decimal.Decimal, error) {
	account, ok := l.accounts[id]
	if !ok {
		return decimal.Zero, domain.NotFound(entity, id)
	}
	return account.Balance, nil
}

func (l *Ledger) Status(id uuid.UUID) (domain.AccountStatus, error) {
	account, ok := l.accounts[id]
	if !ok {
		return "", domain.NotFound(entity, id)
	}
	return account.Status, nil
}

// SetStatus changes the account status. CLOSED is terminal.
func (l *Ledger) SetStatus(id uuid.UUID, status domain.AccountStatus) error {
	account, ok := l.accounts[id]
	if !ok {
		return domain.NotFound(entity, id)
	}
	if !status.Valid() {
		return domain.InvalidState(entity, "ACTIVE|FROZEN|CLOSED", status)
	}
	if account.Status == domain.AccountStatusClosed && status != domain.AccountStatusClosed {
		return domain.InvalidState(entity, domain.AccountStatusActive+"|"+domain.AccountStatusFrozen, account.Status)
	}

	account.Status = status
	account.UpdatedAt = l.now().UTC()
	return nil
}

func (l *Ledger) Get(id uuid.UUID) (domain.Account, bool) {
	account, ok := l.accounts[id]
	if !ok {
		return domain.Account{}, false
	}
	return *account, true
}
