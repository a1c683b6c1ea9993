// Package settlement batches settled transactions for clearing between an
// issuer and an acquirer.
//
// An Engine is not safe for concurrent use. The transaction engine
// serializes every call.
package settlement

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const entity = "settlement batch"

// FundMover moves the batch total between the issuer and the acquirer. It
// either moves the whole amount or returns an error having moved nothing.
type FundMover interface {
	Move(batch domain.SettlementBatch) error
}

// FundMoverFunc adapts a function to FundMover.
type FundMoverFunc func(batch domain.SettlementBatch) error

func (f FundMoverFunc) Move(batch domain.SettlementBatch) error {
	return f(batch)
}

// NoopMover records settlement without moving funds.
var NoopMover FundMover = FundMoverFunc(func(domain.SettlementBatch) error { return nil })

type Engine struct {
	batches map[uuid.UUID]*domain.SettlementBatch
	batched map[uuid.UUID]uuid.UUID
	now     func() time.Time
}

func New(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{
		batches: make(map[uuid.UUID]*domain.SettlementBatch),
		batched: make(map[uuid.UUID]uuid.UUID),
		now:     now,
	}
}

// CreateBatch stores a PENDING batch over txs in the given order. Every member
// must be SETTLED, share one currency and belong to no other batch.
func (e *Engine) CreateBatch(issuerID uuid.UUID, acquirerID uuid.UUID, txs []domain.Transaction) (uuid.UUID, error) {
	if len(txs) == 0 {
		return uuid.Nil, domain.ErrEmptyBatch
	}

	currency := strings.ToUpper(txs[0].Currency)
	total := decimal.Zero
	ids := make([]uuid.UUID, 0, len(txs))
	seen := make(map[uuid.UUID]struct{}, len(txs))

	for _, tx := range txs {
		if tx.Status != domain.TransactionStatusSettled {
			return uuid.Nil, domain.InvalidState("transaction", domain.TransactionStatusSettled, tx.Status)
		}
		if _, dup := seen[tx.ID]; dup {
			return uuid.Nil, fmt.Errorf("%w: %s", domain.ErrAlreadyBatched, tx.ID)
		}
		if batchID, ok := e.batched[tx.ID]; ok {
			return uuid.Nil, fmt.Errorf("%w: %s in batch %s", domain.ErrAlreadyBatched, tx.ID, batchID)
		}
		if !strings.EqualFold(tx.Currency, currency) {
			return uuid.Nil, fmt.Errorf("%w: %s and %s", domain.ErrMixedCurrency, currency, strings.ToUpper(tx.Currency))
		}

		seen[tx.ID] = struct{}{}
		ids = append(ids, tx.ID)
		total = total.Add(tx.Amount)
	}

	batch := &domain.SettlementBatch{
		ID:             uuid.New(),
		IssuerID:       issuerID,
		AcquirerID:     acquirerID,
		TransactionIDs: ids,
		TotalAmount:    total,
		Currency:       currency,
		Status:         domain.SettlementStatusPending,
		CreatedAt:      e.now().UTC(),
	}
	e.batches[batch.ID] = batch
	for _, id := range ids {
		e.batched[id] = batch.ID
	}

	return batch.ID, nil
}

// Process settles a PENDING batch through mover. A failed move leaves the
// batch FAILED with the reason recorded; it is never left PROCESSING.
func (e *Engine) Process(id uuid.UUID, mover FundMover) error {
	batch, ok := e.batches[id]
	if !ok {
		return domain.NotFound(entity, id)
	}
	if batch.Status != domain.SettlementStatusPending {
		return domain.InvalidState(entity, domain.SettlementStatusPending, batch.Status)
	}
	if mover == nil {
		mover = NoopMover
	}

	batch.Status = domain.SettlementStatusProcessing
	if err := mover.Move(batch.Clone()); err != nil {
		batch.Status = domain.SettlementStatusFailed
		batch.FailureReason = err.Error()
		return fmt.Errorf("process settlement batch %s: %w", id, err)
	}

	settledAt := e.now().UTC()
	batch.Status = domain.SettlementStatusCompleted
	batch.SettledAt = &settledAt
	return nil
}

// NetSettlement sums the totals of COMPLETED batches for the pair.
func (e *Engine) NetSettlement(issuerID uuid.UUID, acquirerID uuid.UUID) decimal.Decimal {
	net := decimal.Zero
	for _, batch := range e.batches {
		if batch.IssuerID == issuerID && batch.AcquirerID == acquirerID && batch.Status == domain.SettlementStatusCompleted {
			net = net.Add(batch.TotalAmount)
		}
	}
	return net
}

func (e *Engine) GetBatch(id uuid.UUID) (domain.SettlementBatch, bool) {
	batch, ok := e.batches[id]
	if !ok {
		return domain.SettlementBatch{}, false
	}
	return batch.Clone(), true
}

// PendingBatches returns PENDING batches oldest first.
func (e *Engine) PendingBatches() []domain.SettlementBatch {
	out := make([]domain.SettlementBatch, 0)
	for _, batch := range e.batches {
		if batch.Status == domain.SettlementStatusPending {
			out = append(out, batch.Clone())
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
