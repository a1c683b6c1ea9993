package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
	"github.com/api-sage/card-payment-engine/src/internal/currency"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/engine"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/service_interfaces"
)

var _ service_interfaces.OnboardingService = (*OnboardingService)(nil)

// CurrencySet reports whether a currency code can be used for accounts.
type CurrencySet interface {
	Supports(code string) bool
}

// OnboardingService manages accounts, cards and merchants.
type OnboardingService struct {
	engine     *engine.Engine
	currencies CurrencySet
}

// NewOnboardingService accepts any currency code when currencies is nil.
func NewOnboardingService(eng *engine.Engine, currencies CurrencySet) *OnboardingService {
	return &OnboardingService{engine: eng, currencies: currencies}
}

func (s *OnboardingService) OpenAccount(ctx context.Context, req models.OpenAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("onboarding service open account request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("onboarding service open account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	ccy := strings.ToUpper(strings.TrimSpace(req.Currency))
	if s.currencies != nil && !s.currencies.Supports(ccy) {
		err := fmt.Errorf("%w: %s", currency.ErrUnsupportedCurrency, ccy)
		logger.Error("onboarding service open account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	accountID := s.engine.OpenAccount(strings.TrimSpace(req.HolderName), ccy)

	if deposit := strings.TrimSpace(req.InitialDeposit); deposit != "" {
		amount := decimal.RequireFromString(deposit)
		if amount.IsPositive() {
			if err := s.engine.CreditAccount(accountID, amount); err != nil {
				logger.Error("onboarding service initial deposit failed", err, logger.Fields{"accountId": accountID.String()})
				return commons.ErrorResponse[models.AccountResponse]("failed to open account", err.Error()), err
			}
		}
	}

	account, err := s.engine.GetAccount(accountID)
	if err != nil {
		logger.Error("onboarding service open account lookup failed", err, logger.Fields{"accountId": accountID.String()})
		return commons.ErrorResponse[models.AccountResponse]("failed to open account", "Unable to open account right now"), err
	}

	logger.Info("onboarding service open account success", logger.Fields{
		"accountId": account.ID.String(),
		"currency":  account.Currency,
	})

	return commons.SuccessResponse("account opened successfully", mapAccountToResponse(account)), nil
}

func (s *OnboardingService) GetAccount(ctx context.Context, id string) (commons.Response[models.AccountResponse], error) {
	accountID, err := parseID("accountId", id)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	account, err := s.engine.GetAccount(accountID)
	if err != nil {
		logger.Error("onboarding service get account failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](notFoundOr(err, "account not found", "failed to get account"), err.Error()), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *OnboardingService) CreditAccount(ctx context.Context, id string, req models.CreditAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("onboarding service credit account request", logger.Fields{
		"accountId": id,
		"payload":   logger.SanitizePayload(req),
	})

	accountID, err := parseID("accountId", id)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}
	if err := req.Validate(); err != nil {
		logger.Error("onboarding service credit account validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	if err := s.engine.CreditAccount(accountID, decimal.RequireFromString(strings.TrimSpace(req.Amount))); err != nil {
		logger.Error("onboarding service credit account failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](notFoundOr(err, "account not found", "failed to credit account"), err.Error()), err
	}

	return s.GetAccount(ctx, id)
}

func (s *OnboardingService) SetAccountStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("onboarding service set account status request", logger.Fields{
		"accountId": id,
		"status":    req.Status,
	})

	accountID, err := parseID("accountId", id)
	if err != nil {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}
	status := domain.AccountStatus(normalizeStatus(req.Status))
	if err := statusError(req, status.Valid()); err != nil {
		logger.Error("onboarding service set account status validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	if err := s.engine.SetAccountStatus(accountID, status); err != nil {
		logger.Error("onboarding service set account status failed", err, logger.Fields{"accountId": id})
		return commons.ErrorResponse[models.AccountResponse](notFoundOr(err, "account not found", "failed to update account status"), err.Error()), err
	}

	return s.GetAccount(ctx, id)
}

func (s *OnboardingService) RegisterCard(ctx context.Context, req models.RegisterCardRequest) (commons.Response[models.CardResponse], error) {
	logger.Info("onboarding service register card request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("onboarding service register card validation failed", err, nil)
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	accountID, _ := parseID("accountId", req.AccountID)
	cardID, err := s.engine.RegisterCard(accountID, req.PAN, req.ExpiryMonth, req.ExpiryYear, req.CVV, strings.TrimSpace(req.CardholderName))
	if err != nil {
		logger.Error("onboarding service register card failed", err, logger.Fields{"accountId": accountID.String()})
		return commons.ErrorResponse[models.CardResponse](notFoundOr(err, "account not found", "failed to register card"), err.Error()), err
	}

	card, err := s.engine.GetCard(cardID)
	if err != nil {
		logger.Error("onboarding service register card lookup failed", err, logger.Fields{"cardId": cardID.String()})
		return commons.ErrorResponse[models.CardResponse]("failed to register card", "Unable to register card right now"), err
	}

	logger.Info("onboarding service register card success", logger.Fields{
		"cardId":    card.ID.String(),
		"maskedPan": card.MaskedPAN,
	})

	return commons.SuccessResponse("card registered successfully", mapCardToResponse(card)), nil
}

func (s *OnboardingService) GetCard(ctx context.Context, id string) (commons.Response[models.CardResponse], error) {
	cardID, err := parseID("cardId", id)
	if err != nil {
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), err
	}

	card, err := s.engine.GetCard(cardID)
	if err != nil {
		logger.Error("onboarding service get card failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.CardResponse](notFoundOr(err, "card not found", "failed to get card"), err.Error()), err
	}

	return commons.SuccessResponse("card fetched successfully", mapCardToResponse(card)), nil
}

func (s *OnboardingService) SetCardStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.CardResponse], error) {
	logger.Info("onboarding service set card status request", logger.Fields{
		"cardId": id,
		"status": req.Status,
	})

	cardID, err := parseID("cardId", id)
	if err != nil {
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), err
	}
	status := domain.CardStatus(normalizeStatus(req.Status))
	if err := statusError(req, status.Valid()); err != nil {
		logger.Error("onboarding service set card status validation failed", err, nil)
		return commons.ErrorResponse[models.CardResponse]("validation failed", err.Error()), err
	}

	if err := s.engine.SetCardStatus(cardID, status); err != nil {
		logger.Error("onboarding service set card status failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.CardResponse](notFoundOr(err, "card not found", "failed to update card status"), err.Error()), err
	}

	return s.GetCard(ctx, id)
}

func (s *OnboardingService) VerifyCVV(ctx context.Context, id string, req models.VerifyCVVRequest) (commons.Response[models.VerifyCVVResponse], error) {
	logger.Info("onboarding service verify cvv request", logger.Fields{
		"cardId":  id,
		"payload": logger.SanitizePayload(req),
	})

	cardID, err := parseID("cardId", id)
	if err != nil {
		return commons.ErrorResponse[models.VerifyCVVResponse]("validation failed", err.Error()), err
	}
	if err := req.Validate(); err != nil {
		logger.Error("onboarding service verify cvv validation failed", err, nil)
		return commons.ErrorResponse[models.VerifyCVVResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	valid, err := s.engine.VerifyCardCVV(cardID, req.CVV)
	if err != nil {
		logger.Error("onboarding service verify cvv failed", err, logger.Fields{"cardId": id})
		return commons.ErrorResponse[models.VerifyCVVResponse](notFoundOr(err, "card not found", "failed to verify cvv"), err.Error()), err
	}

	return commons.SuccessResponse("cvv verified", models.VerifyCVVResponse{CardID: cardID.String(), Valid: valid}), nil
}

func (s *OnboardingService) RegisterMerchant(ctx context.Context, req models.RegisterMerchantRequest) (commons.Response[models.MerchantResponse], error) {
	logger.Info("onboarding service register merchant request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("onboarding service register merchant validation failed", err, nil)
		return commons.ErrorResponse[models.MerchantResponse]("validation failed", err.Error()), commons.Validation(err)
	}

	acquirerID, _ := parseID("acquirerId", req.AcquirerID)
	merchantID := s.engine.RegisterMerchant(strings.TrimSpace(req.Name), strings.TrimSpace(req.Category), acquirerID)

	merchant, err := s.engine.GetMerchant(merchantID)
	if err != nil {
		logger.Error("onboarding service register merchant lookup failed", err, logger.Fields{"merchantId": merchantID.String()})
		return commons.ErrorResponse[models.MerchantResponse]("failed to register merchant", "Unable to register merchant right now"), err
	}

	logger.Info("onboarding service register merchant success", logger.Fields{"merchantId": merchant.ID.String()})

	return commons.SuccessResponse("merchant registered successfully", mapMerchantToResponse(merchant)), nil
}

func (s *OnboardingService) GetMerchant(ctx context.Context, id string) (commons.Response[models.MerchantResponse], error) {
	merchantID, err := parseID("merchantId", id)
	if err != nil {
		return commons.ErrorResponse[models.MerchantResponse]("validation failed", err.Error()), err
	}

	merchant, err := s.engine.GetMerchant(merchantID)
	if err != nil {
		logger.Error("onboarding service get merchant failed", err, logger.Fields{"merchantId": id})
		return commons.ErrorResponse[models.MerchantResponse](notFoundOr(err, "merchant not found", "failed to get merchant"), err.Error()), err
	}

	return commons.SuccessResponse("merchant fetched successfully", mapMerchantToResponse(merchant)), nil
}

func (s *OnboardingService) SetMerchantStatus(ctx context.Context, id string, req models.UpdateStatusRequest) (commons.Response[models.MerchantResponse], error) {
	logger.Info("onboarding service set merchant status request", logger.Fields{
		"merchantId": id,
		"status":     req.Status,
	})

	merchantID, err := parseID("merchantId", id)
	if err != nil {
		return commons.ErrorResponse[models.MerchantResponse]("validation failed", err.Error()), err
	}
	status := domain.MerchantStatus(normalizeStatus(req.Status))
	if err := statusError(req, status.Valid()); err != nil {
		logger.Error("onboarding service set merchant status validation failed", err, nil)
		return commons.ErrorResponse[models.MerchantResponse]("validation failed", err.Error()), err
	}

	if err := s.engine.SetMerchantStatus(merchantID, status); err != nil {
		logger.Error("onboarding service set merchant status failed", err, logger.Fields{"merchantId": id})
		return commons.ErrorResponse[models.MerchantResponse](notFoundOr(err, "merchant not found", "failed to update merchant status"), err.Error()), err
	}

	return s.GetMerchant(ctx, id)
}

func normalizeStatus(status string) string {
	return strings.ToUpper(strings.TrimSpace(status))
}

func statusError(req models.UpdateStatusRequest, known bool) error {
	if err := req.Validate(); err != nil {
		return commons.Validation(err)
	}
	if !known {
		return commons.Validation(fmt.Errorf("unknown status %q", req.Status))
	}
	return nil
}

func notFoundOr(err error, notFound string, otherwise string) string {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return notFound
	}
	return otherwise
}
