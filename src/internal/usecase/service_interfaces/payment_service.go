package service_interfaces

import (
	"context"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
)

type PaymentService interface {
	Authorize(ctx context.Context, req models.AuthorizeRequest) (commons.Response[models.TransactionResponse], error)
	Capture(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error)
	Settle(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error)
	GetTransaction(ctx context.Context, id string) (commons.Response[models.TransactionResponse], error)
	ListTransactions(ctx context.Context, status string) (commons.Response[[]models.TransactionResponse], error)
	TransactionWire(ctx context.Context, id string) (commons.Response[models.WireMessageResponse], error)
	DecodeWire(ctx context.Context, req models.DecodeWireRequest) (commons.Response[models.WireMessageResponse], error)
}
