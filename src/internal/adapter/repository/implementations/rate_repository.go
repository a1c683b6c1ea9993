package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
)

var _ repo_interfaces.RateRepository = (*RateRepository)(nil)

// RateRepository serves the rate table from the journal database.
type RateRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewRateRepository(db *sql.DB, dialect Dialect) *RateRepository {
	return &RateRepository{db: db, dialect: dialect}
}

// EnsureDefaultRates seeds rates and currencies that are not present yet.
// Existing rows are left untouched.
func (r *RateRepository) EnsureDefaultRates(ctx context.Context, rates []domain.Rate, currencies []domain.CurrencyInfo) error {
	logger.Info("rate repository ensure default rates", logger.Fields{
		"rates":      len(rates),
		"currencies": len(currencies),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ensure default rates: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertRate = `
INSERT INTO rates (from_currency, to_currency, rate, rate_date)
VALUES (?, ?, ?, ?)
ON CONFLICT (from_currency, to_currency, rate_date) DO NOTHING`

	for _, rate := range rates {
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(insertRate),
			rate.FromCurrency,
			rate.ToCurrency,
			rate.Rate,
			formatTime(rate.RateDate),
		); err != nil {
			logger.Error("rate repository ensure default rates failed", err, nil)
			return fmt.Errorf("ensure default rates: %w", err)
		}
	}

	const insertCurrency = `
INSERT INTO currencies (code, symbol, decimal_places)
VALUES (?, ?, ?)
ON CONFLICT (code) DO NOTHING`

	for _, info := range currencies {
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(insertCurrency), info.Code, info.Symbol, info.DecimalPlaces); err != nil {
			logger.Error("rate repository ensure default currencies failed", err, nil)
			return fmt.Errorf("ensure default currencies: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ensure default rates: commit: %w", err)
	}
	return nil
}

// GetRates returns the latest rate of every pair.
func (r *RateRepository) GetRates(ctx context.Context) ([]domain.Rate, error) {
	const query = `
SELECT from_currency, to_currency, rate, rate_date
FROM rates r
WHERE rate_date = (
	SELECT MAX(rate_date) FROM rates l
	WHERE l.from_currency = r.from_currency AND l.to_currency = r.to_currency
)
ORDER BY from_currency ASC, to_currency ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("rate repository get rates failed", err, nil)
		return nil, fmt.Errorf("get rates: %w", err)
	}
	defer rows.Close()

	rates := make([]domain.Rate, 0)
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			logger.Error("rate repository scan rate failed", err, nil)
			return nil, fmt.Errorf("scan rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		logger.Error("rate repository iterate rates failed", err, nil)
		return nil, fmt.Errorf("iterate rates: %w", err)
	}

	return rates, nil
}

func (r *RateRepository) GetRate(ctx context.Context, fromCurrency string, toCurrency string) (domain.Rate, error) {
	from := strings.ToUpper(strings.TrimSpace(fromCurrency))
	to := strings.ToUpper(strings.TrimSpace(toCurrency))

	const query = `
SELECT from_currency, to_currency, rate, rate_date
FROM rates
WHERE from_currency = ?
  AND to_currency = ?
ORDER BY rate_date DESC
LIMIT 1`

	rate, err := scanRate(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), from, to))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Rate{}, domain.ErrRecordNotFound
		}
		logger.Error("rate repository get rate failed", err, logger.Fields{
			"fromCurrency": from,
			"toCurrency":   to,
		})
		return domain.Rate{}, fmt.Errorf("get rate: %w", err)
	}

	return rate, nil
}

func (r *RateRepository) GetCurrency(ctx context.Context, code string) (domain.CurrencyInfo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	var info domain.CurrencyInfo
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT code, symbol, decimal_places FROM currencies WHERE code = ?`), code).
		Scan(&info.Code, &info.Symbol, &info.DecimalPlaces)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CurrencyInfo{}, domain.ErrRecordNotFound
		}
		return domain.CurrencyInfo{}, fmt.Errorf("get currency %s: %w", code, err)
	}
	return info, nil
}

func (r *RateRepository) GetCurrencies(ctx context.Context) ([]domain.CurrencyInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, symbol, decimal_places FROM currencies ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("get currencies: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CurrencyInfo, 0)
	for rows.Next() {
		var info domain.CurrencyInfo
		if err := rows.Scan(&info.Code, &info.Symbol, &info.DecimalPlaces); err != nil {
			return nil, fmt.Errorf("scan currency: %w", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate currencies: %w", err)
	}
	return out, nil
}

func scanRate(row rowScanner) (domain.Rate, error) {
	var (
		rate     domain.Rate
		rateDate dbTime
	)
	if err := row.Scan(&rate.FromCurrency, &rate.ToCurrency, &rate.Rate, &rateDate); err != nil {
		return domain.Rate{}, err
	}
	rate.RateDate = rateDate.Time
	return rate, nil
}
