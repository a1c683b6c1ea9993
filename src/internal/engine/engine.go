// Package engine is the single serialization point of the payment core. It
// owns the ledger, the card and merchant registries, the transaction store and
// the settlement engine, and runs every operation under one mutex.
package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/ledger"
	"github.com/api-sage/card-payment-engine/src/internal/registry"
	"github.com/api-sage/card-payment-engine/src/internal/security"
	"github.com/api-sage/card-payment-engine/src/internal/settlement"
)

type Option func(*Engine)

// WithClock replaces time.Now for every component the engine owns.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithFundMover sets the mover used by ProcessSettlement.
func WithFundMover(mover settlement.FundMover) Option {
	return func(e *Engine) {
		e.mover = mover
	}
}

// WithLedgerFunding settles batches by debiting the issuer's ledger account
// and crediting the acquirer's. Issuer and acquirer IDs name ledger accounts.
func WithLedgerFunding() Option {
	return func(e *Engine) {
		e.ledgerFunding = true
	}
}

type Engine struct {
	mu sync.Mutex

	now           func() time.Time
	ledger        *ledger.Ledger
	cards         *registry.CardRegistry
	merchants     *registry.MerchantRegistry
	security      *security.Manager
	settlement    *settlement.Engine
	transactions  map[uuid.UUID]*domain.Transaction
	mover         settlement.FundMover
	ledgerFunding bool
}

func New(sec *security.Manager, opts ...Option) *Engine {
	e := &Engine{
		now:          time.Now,
		security:     sec,
		transactions: make(map[uuid.UUID]*domain.Transaction),
		mover:        settlement.NoopMover,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.ledger = ledger.New(e.now)
	e.cards = registry.NewCardRegistry(e.now)
	e.merchants = registry.NewMerchantRegistry(e.now)
	e.settlement = settlement.New(e.now)
	if e.ledgerFunding {
		e.mover = ledgerMover{ledger: e.ledger}
	}

	return e
}

// ledgerMover runs inside ProcessSettlement, so the engine lock is held.
type ledgerMover struct {
	ledger *ledger.Ledger
}

func (m ledgerMover) Move(batch domain.SettlementBatch) error {
	if err := m.ledger.CanDebit(batch.IssuerID, batch.TotalAmount); err != nil {
		return err
	}
	if _, ok := m.ledger.Get(batch.AcquirerID); !ok {
		return domain.NotFound("account", batch.AcquirerID)
	}

	if err := m.ledger.Debit(batch.IssuerID, batch.TotalAmount); err != nil {
		return err
	}
	return m.ledger.Credit(batch.AcquirerID, batch.TotalAmount)
}
