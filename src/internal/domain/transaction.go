package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusAuthorized TransactionStatus = "AUTHORIZED"
	TransactionStatusCaptured   TransactionStatus = "CAPTURED"
	TransactionStatusSettled    TransactionStatus = "SETTLED"
	TransactionStatusDeclined   TransactionStatus = "DECLINED"
	TransactionStatusReversed   TransactionStatus = "REVERSED"
)

// transactionTransitions lists the forward edges of the lifecycle. Nothing
// leaves a terminal status.
var transactionTransitions = map[TransactionStatus][]TransactionStatus{
	TransactionStatusPending:    {TransactionStatusAuthorized},
	TransactionStatusAuthorized: {TransactionStatusCaptured, TransactionStatusDeclined},
	TransactionStatusCaptured:   {TransactionStatusSettled, TransactionStatusReversed},
	TransactionStatusSettled:    {TransactionStatusReversed},
}

var transactionStatusOrder = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusAuthorized,
	TransactionStatusCaptured,
	TransactionStatusSettled,
	TransactionStatusDeclined,
	TransactionStatusReversed,
}

func (s TransactionStatus) Valid() bool {
	_, ok := transactionTransitions[s]
	return ok || s.Terminal()
}

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transactionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Sources lists the statuses that may move to s, joined with "|".
func (s TransactionStatus) Sources() string {
	var from []string
	for _, candidate := range transactionStatusOrder {
		if candidate.CanTransitionTo(s) {
			from = append(from, string(candidate))
		}
	}
	return strings.Join(from, "|")
}

func (s TransactionStatus) Terminal() bool {
	switch s {
	case TransactionStatusSettled, TransactionStatusDeclined, TransactionStatusReversed:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionTypePurchase   TransactionType = "PURCHASE"
	TransactionTypeRefund     TransactionType = "REFUND"
	TransactionTypeChargeback TransactionType = "CHARGEBACK"
)

type Transaction struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	MerchantID  uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Type        TransactionType
	Status      TransactionStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// Clone returns a copy that shares no memory with t.
func (t Transaction) Clone() Transaction {
	out := t
	if t.ProcessedAt != nil {
		processedAt := *t.ProcessedAt
		out.ProcessedAt = &processedAt
	}
	return out
}
