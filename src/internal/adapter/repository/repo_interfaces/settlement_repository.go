package repo_interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// SettlementRepository journals settlement batches with their ordered
// members. Save is an upsert.
type SettlementRepository interface {
	Save(ctx context.Context, batch domain.SettlementBatch) error
	Get(ctx context.Context, id uuid.UUID) (domain.SettlementBatch, error)
}
