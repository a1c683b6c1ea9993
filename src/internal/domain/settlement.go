package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SettlementStatus string

const (
	SettlementStatusPending    SettlementStatus = "PENDING"
	SettlementStatusProcessing SettlementStatus = "PROCESSING"
	SettlementStatusCompleted  SettlementStatus = "COMPLETED"
	SettlementStatusFailed     SettlementStatus = "FAILED"
)

// SettlementBatch groups settled transactions between one issuer and one
// acquirer. TotalAmount is fixed when the batch is created.
type SettlementBatch struct {
	ID             uuid.UUID
	IssuerID       uuid.UUID
	AcquirerID     uuid.UUID
	TransactionIDs []uuid.UUID
	TotalAmount    decimal.Decimal
	Currency       string
	Status         SettlementStatus
	FailureReason  string
	CreatedAt      time.Time
	SettledAt      *time.Time
}

// Clone returns a copy that shares no memory with b.
func (b SettlementBatch) Clone() SettlementBatch {
	out := b
	out.TransactionIDs = append([]uuid.UUID(nil), b.TransactionIDs...)
	if b.SettledAt != nil {
		settledAt := *b.SettledAt
		out.SettledAt = &settledAt
	}
	return out
}
