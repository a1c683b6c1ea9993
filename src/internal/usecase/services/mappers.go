package services

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/models"
	"github.com/api-sage/card-payment-engine/src/internal/commons"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// parseID is for path parameters, which bypass request Validate.
func parseID(field string, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, commons.Validation(fmt.Errorf("%s must be a valid UUID", field))
	}
	return id, nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:         account.ID.String(),
		HolderName: account.HolderName,
		Balance:    account.Balance.String(),
		Currency:   account.Currency,
		Status:     string(account.Status),
		CreatedAt:  formatTime(account.CreatedAt),
		UpdatedAt:  formatTime(account.UpdatedAt),
	}
}

func mapCardToResponse(card domain.Card) models.CardResponse {
	return models.CardResponse{
		ID:             card.ID.String(),
		AccountID:      card.AccountID.String(),
		MaskedPAN:      card.MaskedPAN,
		ExpiryMonth:    card.ExpiryMonth,
		ExpiryYear:     card.ExpiryYear,
		CardholderName: card.CardholderName,
		Status:         string(card.Status),
		IssuedAt:       formatTime(card.IssuedAt),
	}
}

func mapMerchantToResponse(merchant domain.Merchant) models.MerchantResponse {
	return models.MerchantResponse{
		ID:           merchant.ID.String(),
		Name:         merchant.Name,
		Category:     merchant.Category,
		AcquirerID:   merchant.AcquirerID.String(),
		Status:       string(merchant.Status),
		RegisteredAt: formatTime(merchant.RegisteredAt),
	}
}

func mapTransactionToResponse(tx domain.Transaction) models.TransactionResponse {
	return models.TransactionResponse{
		ID:          tx.ID.String(),
		CardID:      tx.CardID.String(),
		MerchantID:  tx.MerchantID.String(),
		Amount:      tx.Amount.String(),
		Currency:    tx.Currency,
		Type:        string(tx.Type),
		Status:      string(tx.Status),
		CreatedAt:   formatTime(tx.CreatedAt),
		ProcessedAt: formatOptionalTime(tx.ProcessedAt),
	}
}

func mapBatchToResponse(batch domain.SettlementBatch) models.BatchResponse {
	ids := make([]string, 0, len(batch.TransactionIDs))
	for _, id := range batch.TransactionIDs {
		ids = append(ids, id.String())
	}
	return models.BatchResponse{
		ID:             batch.ID.String(),
		IssuerID:       batch.IssuerID.String(),
		AcquirerID:     batch.AcquirerID.String(),
		TransactionIDs: ids,
		TotalAmount:    batch.TotalAmount.String(),
		Currency:       batch.Currency,
		Status:         string(batch.Status),
		FailureReason:  batch.FailureReason,
		CreatedAt:      formatTime(batch.CreatedAt),
		SettledAt:      formatOptionalTime(batch.SettledAt),
	}
}

func mapWireMessageToResponse(msg *wire.Message, encoded []byte) models.WireMessageResponse {
	bitmap := msg.Bitmap()
	fields := make([]models.WireField, 0, len(msg.Fields()))
	for _, f := range msg.Fields() {
		fields = append(fields, models.WireField{Number: f.Number, Value: f.Value})
	}
	return models.WireMessageResponse{
		MTI:    msg.MTI,
		Bitmap: hex.EncodeToString(bitmap[:]),
		Fields: fields,
		Hex:    hex.EncodeToString(encoded),
	}
}

func mapRateToResponse(rate domain.Rate) models.RateResponse {
	return models.RateResponse{
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate.String(),
		RateDate:     rate.RateDate.Format("2006-01-02"),
	}
}
