package engine

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// CreateBatch collects SETTLED transactions, in the given order, into a
// PENDING settlement batch.
func (e *Engine) CreateBatch(issuerID uuid.UUID, acquirerID uuid.UUID, txIDs []uuid.UUID) (uuid.UUID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	txs := make([]domain.Transaction, 0, len(txIDs))
	for _, id := range txIDs {
		tx, ok := e.transactions[id]
		if !ok {
			return uuid.Nil, domain.NotFound(transactionEntity, id)
		}
		txs = append(txs, tx.Clone())
	}

	return e.settlement.CreateBatch(issuerID, acquirerID, txs)
}

func (e *Engine) ProcessSettlement(batchID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.settlement.Process(batchID, e.mover)
}

func (e *Engine) GetBatch(batchID uuid.UUID) (domain.SettlementBatch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	batch, ok := e.settlement.GetBatch(batchID)
	if !ok {
		return domain.SettlementBatch{}, domain.NotFound("settlement batch", batchID)
	}
	return batch, nil
}

func (e *Engine) PendingBatches() []domain.SettlementBatch {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.settlement.PendingBatches()
}

func (e *Engine) NetSettlement(issuerID uuid.UUID, acquirerID uuid.UUID) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.settlement.NetSettlement(issuerID, acquirerID)
}
