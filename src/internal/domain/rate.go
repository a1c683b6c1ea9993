package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the number of ToCurrency units bought by one FromCurrency unit.
type Rate struct {
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	RateDate     time.Time
}

// CurrencyInfo carries display and rounding metadata for a currency.
type CurrencyInfo struct {
	Code          string
	Symbol        string
	DecimalPlaces int32
}
