package engine

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const transactionEntity = "transaction"

// Authorize validates a purchase and stores it as AUTHORIZED. No funds are
// held: the balance is checked again when the transaction is captured.
// Declines are returned as errors and nothing is stored.
func (e *Engine) Authorize(cardID uuid.UUID, merchantID uuid.UUID, amount decimal.Decimal, currency string) (uuid.UUID, error) {
	if !amount.IsPositive() {
		return uuid.Nil, domain.ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	card, err := e.cards.Usable(cardID)
	if err != nil {
		return uuid.Nil, err
	}

	merchant, ok := e.merchants.Get(merchantID)
	if !ok {
		return uuid.Nil, domain.NotFound("merchant", merchantID)
	}
	if merchant.Status != domain.MerchantStatusActive {
		return uuid.Nil, domain.ErrMerchantInactive
	}

	account, ok := e.ledger.Get(card.AccountID)
	if !ok {
		return uuid.Nil, domain.NotFound("account", card.AccountID)
	}
	if account.Status != domain.AccountStatusActive {
		return uuid.Nil, domain.ErrAccountInactive
	}
	if err := e.ledger.CanDebit(account.ID, amount); err != nil {
		return uuid.Nil, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	pan, _ := e.security.Detokenize(card.PANToken)
	if e.security.FraudCheck(amount, currency, pan) {
		return uuid.Nil, domain.ErrFraudFlagged
	}

	tx := &domain.Transaction{
		ID:         uuid.New(),
		CardID:     cardID,
		MerchantID: merchantID,
		Amount:     amount,
		Currency:   currency,
		Type:       domain.TransactionTypePurchase,
		Status:     domain.TransactionStatusAuthorized,
		CreatedAt:  e.now().UTC(),
	}
	e.transactions[tx.ID] = tx

	return tx.ID, nil
}

// Capture debits the card's account and moves the transaction to CAPTURED.
// ErrInsufficientFunds here means the balance changed after authorization.
func (e *Engine) Capture(txID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.transactionFor(txID, domain.TransactionStatusCaptured)
	if err != nil {
		return err
	}
	card, ok := e.cards.Get(tx.CardID)
	if !ok {
		return domain.NotFound("card", tx.CardID)
	}

	if err := e.ledger.Debit(card.AccountID, tx.Amount); err != nil {
		return err
	}

	return e.advance(tx, domain.TransactionStatusCaptured)
}

// Settle marks a CAPTURED transaction SETTLED. Funds already moved at capture.
func (e *Engine) Settle(txID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, err := e.transactionFor(txID, domain.TransactionStatusSettled)
	if err != nil {
		return err
	}

	return e.advance(tx, domain.TransactionStatusSettled)
}

func (e *Engine) GetTransaction(txID uuid.UUID) (domain.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, ok := e.transactions[txID]
	if !ok {
		return domain.Transaction{}, domain.NotFound(transactionEntity, txID)
	}
	return tx.Clone(), nil
}

// ListTransactions returns transactions oldest first. An empty status lists
// every transaction.
func (e *Engine) ListTransactions(status domain.TransactionStatus) []domain.Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]domain.Transaction, 0, len(e.transactions))
	for _, tx := range e.transactions {
		if status == "" || tx.Status == status {
			out = append(out, tx.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// transactionFor returns the transaction if the lifecycle allows it to move
// to next.
func (e *Engine) transactionFor(txID uuid.UUID, next domain.TransactionStatus) (*domain.Transaction, error) {
	tx, ok := e.transactions[txID]
	if !ok {
		return nil, domain.NotFound(transactionEntity, txID)
	}
	if err := checkTransition(tx, next); err != nil {
		return nil, err
	}
	return tx, nil
}

func (e *Engine) advance(tx *domain.Transaction, next domain.TransactionStatus) error {
	if err := checkTransition(tx, next); err != nil {
		return err
	}
	processedAt := e.now().UTC()
	tx.Status = next
	tx.ProcessedAt = &processedAt
	return nil
}

func checkTransition(tx *domain.Transaction, next domain.TransactionStatus) error {
	if !tx.Status.CanTransitionTo(next) {
		return domain.InvalidState(transactionEntity, domain.TransactionStatus(next.Sources()), tx.Status)
	}
	return nil
}
