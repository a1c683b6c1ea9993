// Package currency converts amounts between currencies using a static rate
// table loaded once at startup.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

// Base is the pivot currency for cross rates.
const Base = "EUR"

const inversePrecision = 16

var ErrUnsupportedCurrency = errors.New("unsupported currency")

type pair struct {
	from string
	to   string
}

// Converter is immutable after construction and safe for concurrent use.
type Converter struct {
	rates      map[pair]decimal.Decimal
	currencies map[string]domain.CurrencyInfo
}

func NewConverter(rates []domain.Rate, currencies []domain.CurrencyInfo) *Converter {
	c := &Converter{
		rates:      make(map[pair]decimal.Decimal, len(rates)*2),
		currencies: make(map[string]domain.CurrencyInfo, len(currencies)),
	}

	for _, info := range currencies {
		c.currencies[normalize(info.Code)] = info
	}

	for _, rate := range rates {
		from, to := normalize(rate.FromCurrency), normalize(rate.ToCurrency)
		if !rate.Rate.IsPositive() || from == to {
			continue
		}
		c.rates[pair{from, to}] = rate.Rate
		if _, ok := c.rates[pair{to, from}]; !ok {
			c.rates[pair{to, from}] = decimal.NewFromInt(1).DivRound(rate.Rate, inversePrecision)
		}
	}

	return c
}

// Rate returns how many units of to one unit of from buys.
func (c *Converter) Rate(from string, to string) (decimal.Decimal, error) {
	from, to = normalize(from), normalize(to)
	if from == to {
		if !c.Supports(from) {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, from)
		}
		return decimal.NewFromInt(1), nil
	}

	if rate, ok := c.rates[pair{from, to}]; ok {
		return rate, nil
	}

	toBase, okFrom := c.rates[pair{from, Base}]
	fromBase, okTo := c.rates[pair{Base, to}]
	if from == Base {
		toBase, okFrom = decimal.NewFromInt(1), true
	}
	if to == Base {
		fromBase, okTo = decimal.NewFromInt(1), true
	}
	if !okFrom {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, from)
	}
	if !okTo {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, to)
	}

	return toBase.Mul(fromBase), nil
}

func (c *Converter) Convert(amount decimal.Decimal, from string, to string) (decimal.Decimal, error) {
	rate, err := c.Rate(from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}

// Round rounds amount to the minor unit of code. Unknown currencies round to
// two places.
func (c *Converter) Round(amount decimal.Decimal, code string) decimal.Decimal {
	places := int32(2)
	if info, ok := c.currencies[normalize(code)]; ok {
		places = info.DecimalPlaces
	}
	return amount.Round(places)
}

func (c *Converter) Supports(code string) bool {
	code = normalize(code)
	if _, ok := c.currencies[code]; ok {
		return true
	}
	if code == Base {
		return true
	}
	_, ok := c.rates[pair{code, Base}]
	return ok
}

func (c *Converter) Info(code string) (domain.CurrencyInfo, bool) {
	info, ok := c.currencies[normalize(code)]
	return info, ok
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
