package memory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// RateRepository serves a fixed EUR-based rate table. Cross rates are
// derived by the currency converter.
type RateRepository struct {
	rateDate time.Time
}

func NewRateRepository() *RateRepository {
	return &RateRepository{rateDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
}

var eurRates = []struct {
	code string
	rate string
}{
	{"GBP", "0.85"},
	{"CHF", "0.95"},
	{"SEK", "11.5"},
	{"NOK", "11.8"},
	{"DKK", "7.45"},
	{"PLN", "4.3"},
	{"CZK", "25.0"},
	{"HUF", "380.0"},
	{"RON", "4.95"},
	{"BGN", "1.955"},
	{"HRK", "7.5"},
	{"USD", "1.08"},
}

var currencies = []domain.CurrencyInfo{
	{Code: "EUR", Symbol: "€", DecimalPlaces: 2},
	{Code: "GBP", Symbol: "£", DecimalPlaces: 2},
	{Code: "CHF", Symbol: "CHF", DecimalPlaces: 2},
	{Code: "SEK", Symbol: "kr", DecimalPlaces: 2},
	{Code: "NOK", Symbol: "kr", DecimalPlaces: 2},
	{Code: "DKK", Symbol: "kr", DecimalPlaces: 2},
	{Code: "PLN", Symbol: "zł", DecimalPlaces: 2},
	{Code: "CZK", Symbol: "Kč", DecimalPlaces: 2},
	{Code: "HUF", Symbol: "Ft", DecimalPlaces: 0},
	{Code: "RON", Symbol: "lei", DecimalPlaces: 2},
	{Code: "BGN", Symbol: "лв", DecimalPlaces: 2},
	{Code: "HRK", Symbol: "kn", DecimalPlaces: 2},
	{Code: "USD", Symbol: "$", DecimalPlaces: 2},
}

func (r *RateRepository) GetRates(_ context.Context) ([]domain.Rate, error) {
	rates := make([]domain.Rate, 0, len(eurRates))
	for _, entry := range eurRates {
		rates = append(rates, domain.Rate{
			FromCurrency: "EUR",
			ToCurrency:   entry.code,
			Rate:         decimal.RequireFromString(entry.rate),
			RateDate:     r.rateDate,
		})
	}
	return rates, nil
}

func (r *RateRepository) GetRate(ctx context.Context, fromCurrency string, toCurrency string) (domain.Rate, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCurrency))
	to := strings.ToUpper(strings.TrimSpace(toCurrency))

	rates, _ := r.GetRates(ctx)
	for _, rate := range rates {
		if rate.FromCurrency == from && rate.ToCurrency == to {
			return rate, nil
		}
	}
	return domain.Rate{}, domain.ErrRecordNotFound
}

func (r *RateRepository) GetCurrency(_ context.Context, code string) (domain.CurrencyInfo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, info := range currencies {
		if info.Code == code {
			return info, nil
		}
	}
	return domain.CurrencyInfo{}, domain.ErrRecordNotFound
}

// GetCurrencies lists every currency the table knows about.
func (r *RateRepository) GetCurrencies(_ context.Context) ([]domain.CurrencyInfo, error) {
	out := make([]domain.CurrencyInfo, len(currencies))
	copy(out, currencies)
	return out, nil
}
