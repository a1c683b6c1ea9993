package security

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FraudCheck reports whether a transaction should be flagged. Amounts that
// cannot be converted to the reference currency are flagged.
func (m *Manager) FraudCheck(amount decimal.Decimal, currency string, _ string) bool {
	compared := amount
	if m.fraudCurrency != "" && !strings.EqualFold(m.fraudCurrency, currency) {
		converted, err := m.converter.Convert(amount, currency, m.fraudCurrency)
		if err != nil {
			return true
		}
		compared = converted
	}

	return compared.GreaterThan(m.fraudThreshold)
}

// FraudThreshold is the effective threshold after defaults are applied.
func (m *Manager) FraudThreshold() decimal.Decimal {
	return m.fraudThreshold
}
