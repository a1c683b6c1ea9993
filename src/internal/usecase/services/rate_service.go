package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
	"github.com/api-sage/card-payment-engine/src/internal/currency"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

// Verify that RateService implements the service_interfaces.RateService interface
var _ service_interfaces.RateService = (*RateService)(nil)

type RateService struct {
	rateRepo  repo_interfaces.RateRepository
	converter *currency.Converter
	now       func() time.Time
}

func NewRateService(rateRepo repo_interfaces.RateRepository, converter *currency.Converter) *RateService {
	return &RateService{rateRepo: rateRepo, converter: converter, now: time.Now}
}

func (s *RateService) GetRates(ctx context.Context) (commons.Response[[]models.RateResponse], error) {
	logger.Info("rate service get rates request", nil)

	rates, err := s.rateRepo.GetRates(ctx)
	if err != nil {
		logger.Error("rate service get rates failed", err, nil)
		return commons.ErrorResponse[[]models.RateResponse]("failed to get rates", "Unable to fetch rates right now"), err
	}

	resp := make([]models.RateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, mapRateToResponse(rate))
	}

	logger.Info("rate service get rates success", logger.Fields{
		"count": len(resp),
	})

	return commons.SuccessResponse("rates fetched successfully", resp), nil
}

// GetRate prefers a published rate and falls back to a cross rate through
// the base currency, dated today.
func (s *RateService) GetRate(ctx context.Context, req models.GetRateRequest) (commons.Response[models.RateResponse], error) {
	logger.Info("rate service get rate request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service get rate validation failed", err, nil)
		return commons.ErrorResponse[models.RateResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	fromCurrency := strings.ToUpper(strings.TrimSpace(req.FromCurrency))
	toCurrency := strings.ToUpper(strings.TrimSpace(req.ToCurrency))

	rate, err := s.rateRepo.GetRate(ctx, fromCurrency, toCurrency)
	if errors.Is(err, domain.ErrRecordNotFound) {
		var value decimal.Decimal
		value, err = s.converter.Rate(fromCurrency, toCurrency)
		rate = domain.Rate{
			FromCurrency: fromCurrency,
			ToCurrency:   toCurrency,
			Rate:         value,
			RateDate:     s.now().UTC(),
		}
	}
	if err != nil {
		logger.Error("rate service get rate failed", err, logger.Fields{
			"fromCurrency": fromCurrency,
			"toCurrency":   toCurrency,
		})
		if errors.Is(err, currency.ErrUnsupportedCurrency) {
			return commons.ErrorResponse[models.RateResponse]("Rate not found", err.Error()), err
		}
		return commons.ErrorResponse[models.RateResponse]("failed to get rate", "Unable to fetch rate right now"), err
	}

	logger.Info("rate service get rate success", logger.Fields{
		"fromCurrency": rate.FromCurrency,
		"toCurrency":   rate.ToCurrency,
		"rate":         rate.Rate.String(),
	})

	return commons.SuccessResponse("rate fetched successfully", mapRateToResponse(rate)), nil
}

func (s *RateService) Convert(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error) {
	logger.Info("rate service convert request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("rate service convert validation failed", err, nil)
		return commons.ErrorResponse[models.ConvertResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	amount := decimal.RequireFromString(strings.TrimSpace(req.Amount))
	fromCcy := strings.ToUpper(strings.TrimSpace(req.FromCcy))
	toCcy := strings.ToUpper(strings.TrimSpace(req.ToCcy))

	rateUsed, err := s.converter.Rate(fromCcy, toCcy)
	if err != nil {
		logger.Error("rate service convert failed", err, logger.Fields{
			"fromCcy": fromCcy,
			"toCcy":   toCcy,
		})
		return commons.ErrorResponse[models.ConvertResponse]("Rate not found for currency pair", err.Error()), err
	}
	converted := s.converter.Round(amount.Mul(rateUsed), toCcy)

	response := models.ConvertResponse{
		Amount:          amount.String(),
		FromCcy:         fromCcy,
		ToCcy:           toCcy,
		ConvertedAmount: converted.String(),
		RateUsed:        rateUsed.String(),
	}
	if info, err := s.rateRepo.GetCurrency(ctx, toCcy); err == nil {
		response.Symbol = info.Symbol
	}

	logger.Info("rate service convert success", logger.Fields{
		"fromCcy":         response.FromCcy,
		"toCcy":           response.ToCcy,
		"convertedAmount": response.ConvertedAmount,
	})

	return commons.SuccessResponse("amount converted successfully", response), nil
}
