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

var _ repo_interfaces.SettlementRepository = (*SettlementRepository)(nil)

type SettlementRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSettlementRepository(db *sql.DB, dialect Dialect) *SettlementRepository {
	return &SettlementRepository{db: db, dialect: dialect}
}

// Save upserts the batch and rewrites its member list in one transaction.
func (r *SettlementRepository) Save(ctx context.Context, batch domain.SettlementBatch) error {
	logger.Info("settlement repository save", logger.Fields{
		"batchId": batch.ID.String(),
		"status":  batch.Status,
		"members": len(batch.TransactionIDs),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save settlement batch %s: %w", batch.ID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsert = `
INSERT INTO settlement_batches (
	id,
	issuer_id,
	acquirer_id,
	total_amount,
	currency,
	status,
	failure_reason,
	created_at,
	settled_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	status = excluded.status,
	failure_reason = excluded.failure_reason,
	settled_at = excluded.settled_at`

	if _, err := tx.ExecContext(
		ctx,
		r.dialect.Rebind(upsert),
		batch.ID,
		batch.IssuerID,
		batch.AcquirerID,
		batch.TotalAmount,
		batch.Currency,
		string(batch.Status),
		batch.FailureReason,
		formatTime(batch.CreatedAt),
		formatNullTime(batch.SettledAt),
	); err != nil {
		logger.Error("settlement repository upsert failed", err, logger.Fields{
			"batchId": batch.ID.String(),
		})
		return fmt.Errorf("upsert settlement batch %s: %w", batch.ID, err)
	}

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM settlement_batch_members WHERE batch_id = ?`), batch.ID); err != nil {
		return fmt.Errorf("clear members of settlement batch %s: %w", batch.ID, err)
	}

	insertMember := r.dialect.Rebind(`INSERT INTO settlement_batch_members (batch_id, position, transaction_id) VALUES (?, ?, ?)`)
	for i, txID := range batch.TransactionIDs {
		if _, err := tx.ExecContext(ctx, insertMember, batch.ID, i, txID); err != nil {
			return fmt.Errorf("insert member %s of settlement batch %s: %w", txID, batch.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement batch %s: %w", batch.ID, err)
	}
	return nil
}

func (r *SettlementRepository) Get(ctx context.Context, id uuid.UUID) (domain.SettlementBatch, error) {
	const query = `
SELECT id, issuer_id, acquirer_id, total_amount, currency, status, failure_reason, created_at, settled_at
FROM settlement_batches
WHERE id = ?`

	var (
		batch     domain.SettlementBatch
		status    string
		createdAt dbTime
		settledAt dbTime
	)
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id).Scan(
		&batch.ID,
		&batch.IssuerID,
		&batch.AcquirerID,
		&batch.TotalAmount,
		&batch.Currency,
		&status,
		&batch.FailureReason,
		&createdAt,
		&settledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SettlementBatch{}, domain.NotFound("settlement batch", id)
		}
		logger.Error("settlement repository get failed", err, logger.Fields{
			"batchId": id.String(),
		})
		return domain.SettlementBatch{}, fmt.Errorf("get settlement batch %s: %w", id, err)
	}
	batch.Status = domain.SettlementStatus(status)
	batch.CreatedAt = createdAt.Time
	batch.SettledAt = settledAt.Ptr()

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(`SELECT transaction_id FROM settlement_batch_members WHERE batch_id = ? ORDER BY position`), id)
	if err != nil {
		return domain.SettlementBatch{}, fmt.Errorf("list members of settlement batch %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txID uuid.UUID
		if err := rows.Scan(&txID); err != nil {
			return domain.SettlementBatch{}, fmt.Errorf("scan member of settlement batch %s: %w", id, err)
		}
		batch.TransactionIDs = append(batch.TransactionIDs, txID)
	}
	if err := rows.Err(); err != nil {
		return domain.SettlementBatch{}, fmt.Errorf("iterate members of settlement batch %s: %w", id, err)
	}

	return batch, nil
}
