package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
)

var _ repo_interfaces.TransactionRepository = (*TransactionRepository)(nil)

type TransactionRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTransactionRepository(db *sql.DB, dialect Dialect) *TransactionRepository {
	return &TransactionRepository{db: db, dialect: dialect}
}

func (r *TransactionRepository) Save(ctx context.Context, tx domain.Transaction) error {
	logger.Info("transaction repository save", logger.Fields{
		"transactionId": tx.ID.String(),
		"status":        tx.Status,
	})

	const query = `
INSERT INTO transactions (
	id,
	card_id,
	merchant_id,
	amount,
	currency,
	type,
	status,
	created_at,
	processed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	status = excluded.status,
	processed_at = excluded.processed_at`

	if _, err := r.db.ExecContext(
		ctx,
		r.dialect.Rebind(query),
		tx.ID,
		tx.CardID,
		tx.MerchantID,
		tx.Amount,
		tx.Currency,
		string(tx.Type),
		string(tx.Status),
		formatTime(tx.CreatedAt),
		formatNullTime(tx.ProcessedAt),
	); err != nil {
		logger.Error("transaction repository save failed", err, logger.Fields{
			"transactionId": tx.ID.String(),
		})
		return fmt.Errorf("save transaction %s: %w", tx.ID, err)
	}

	return nil
}

const selectTransaction = `
SELECT id, card_id, merchant_id, amount, currency, type, status, created_at, processed_at
FROM transactions`

func (r *TransactionRepository) Get(ctx context.Context, id uuid.UUID) (domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectTransaction+` WHERE id = ?`), id)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Transaction{}, domain.NotFound("transaction", id)
		}
		logger.Error("transaction repository get failed", err, logger.Fields{
			"transactionId": id.String(),
		})
		return domain.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}

	return tx, nil
}

func (r *TransactionRepository) ListByStatus(ctx context.Context, status domain.TransactionStatus) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectTransaction+` WHERE status = ? ORDER BY created_at, id`), string(status))
	if err != nil {
		return nil, fmt.Errorf("list transactions by status %s: %w", status, err)
	}
	defer rows.Close()

	out := make([]domain.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (domain.Transaction, error) {
	var (
		tx          domain.Transaction
		txType      string
		status      string
		createdAt   dbTime
		processedAt dbTime
	)

	if err := row.Scan(
		&tx.ID,
		&tx.CardID,
		&tx.MerchantID,
		&tx.Amount,
		&tx.Currency,
		&txType,
		&status,
		&createdAt,
		&processedAt,
	); err != nil {
		return domain.Transaction{}, err
	}

	tx.Type = domain.TransactionType(txType)
	tx.Status = domain.TransactionStatus(status)
	tx.CreatedAt = createdAt.Time
	tx.ProcessedAt = processedAt.Ptr()
	return tx, nil
}
