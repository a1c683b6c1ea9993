package repo_interfaces

import (
	"context"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

type RateRepository interface {
	GetRates(ctx context.Context) ([]domain.Rate, error)
	GetRate(ctx context.Context, fromCurrency string, toCurrency string) (domain.Rate, error)
	GetCurrency(ctx context.Context, code string) (domain.CurrencyInfo, error)
	GetCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error)
}
