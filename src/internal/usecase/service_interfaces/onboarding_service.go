package service_interfaces

import (
	"context"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
)

type OnboardingService interface {
	OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error)
	GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error)
	CreditAccount(ctx context.Context, id string, req models.CreditAccountRequest) (commons.Response[models.AccountResponse], error)
	SetAccountStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.AccountResponse], error)

	RegisterCard(ctx context.Context, req models.RegisterCardRequest) (commons.Response[models.CardResponse], error)
	GetCard(ctx context.Context, id string) (commons.Response[models.CardResponse], error)
	SetCardStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.CardResponse], error)
	VerifyCVV(ctx context.Context, id string, req models.VerifyCVVRequest) (commons.Response[models.VerifyCVVResponse], error)

	RegisterMerchant(ctx context.Context, req models.RegisterMerchantRequest) (commons.Response[models.MerchantResponse], error)
	GetMerchant(ctx context.Context, id string) (commons.Response[models.MerchantResponse], error)
	SetMerchantStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.MerchantResponse], error)
}
