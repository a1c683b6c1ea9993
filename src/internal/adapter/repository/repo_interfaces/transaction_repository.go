package repo_interfaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// TransactionRepository journals transaction snapshots. Save is an upsert.
type TransactionRepository interface {
	Save(ctx context.Context, tx domain.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error)
	ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error)
}
