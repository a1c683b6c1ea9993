package service_interfaces

import (
	"context"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
)

type SettlementService interface {
	CreateBatch(ctx context.Context, req models.CreateBatchRequest) (commons.Response[models.BatchResponse], error)
	ProcessBatch(ctx context.Context, id string) (commons.Response[models.BatchResponse], error)
	GetBatch(ctx context.Context, id string) (commons.Response[models.BatchResponse], error)
	PendingBatches(ctx context.Context) (commons.Response[[]models.BatchResponse], error)
	NetSettlement(ctx context.Context, issuerID string, acquirerID string) (commons.Response[models.NetSettlementResponse], error)
}
