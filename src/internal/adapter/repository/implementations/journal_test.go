package implementations

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

func openTestDB(t *testing.T) (*TransactionRepository, *SettlementRepository) {
	t.Helper()
	db := openTestSQL(t)
	return NewTransactionRepository(db, SQLite), NewSettlementRepository(db, SQLite)
}

func openTestSQL(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, SQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := RunMigrations(ctx, db, SQLite); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	if err := RunMigrations(ctx, db, SQLite); err != nil {
		t.Fatalf("re-run migrations: %v", err)
	}

	return db
}

func TestRebind(t *testing.T) {
	query := `SELECT * FROM t WHERE a = ? AND b = ?`
	if got := Postgres.Rebind(query); got != `SELECT * FROM t WHERE a = $1 AND b = $2` {
		t.Fatalf("unexpected postgres query %q", got)
	}
	if got := SQLite.Rebind(query); got != query {
		t.Fatalf("expected sqlite query unchanged, got %q", got)
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect(" Postgres "); err != nil || d != Postgres {
		t.Fatalf("expected postgres, got %q %v", d, err)
	}
	if _, err := ParseDialect("mysql"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestTransactionRepository_SaveAndGet(t *testing.T) {
	txRepo, _ := openTestDB(t)
	ctx := context.Background()

	tx := domain.Transaction{
		ID:         uuid.New(),
		CardID:     uuid.New(),
		MerchantID: uuid.New(),
		Amount:     decimal.RequireFromString("120.50"),
		Currency:   "EUR",
		Type:       domain.TransactionTypePurchase,
		Status:     domain.TransactionStatusAuthorized,
		CreatedAt:  time.Date(2026, 5, 4, 10, 0, 0, 123000000, time.UTC),
	}
	if err := txRepo.Save(ctx, tx); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := txRepo.Get(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != tx.ID || got.CardID != tx.CardID || !got.Amount.Equal(tx.Amount) || got.Status != tx.Status {
		t.Fatalf("unexpected transaction %+v", got)
	}
	if !got.CreatedAt.Equal(tx.CreatedAt) || got.ProcessedAt != nil {
		t.Fatalf("unexpected timestamps %+v", got)
	}

	processed := tx.CreatedAt.Add(time.Minute)
	tx.Status = domain.TransactionStatusCaptured
	tx.ProcessedAt = &processed
	if err := txRepo.Save(ctx, tx); err != nil {
		t.Fatalf("save update: %v", err)
	}

	got, err = txRepo.Get(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.TransactionStatusCaptured || got.ProcessedAt == nil || !got.ProcessedAt.Equal(processed) {
		t.Fatalf("expected upserted status and processed_at, got %+v", got)
	}

	captured, err := txRepo.ListByStatus(ctx, domain.TransactionStatusCaptured)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(captured) != 1 || captured[0].ID != tx.ID {
		t.Fatalf("unexpected list %+v", captured)
	}
}

func TestTransactionRepository_GetMissing(t *testing.T) {
	txRepo, _ := openTestDB(t)

	_, err := txRepo.Get(context.Background(), uuid.New())
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSettlementRepository_SaveAndGet(t *testing.T) {
	_, batchRepo := openTestDB(t)
	ctx := context.Background()

	batch := domain.SettlementBatch{
		ID:             uuid.New(),
		IssuerID:       uuid.New(),
		AcquirerID:     uuid.New(),
		TransactionIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		TotalAmount:    decimal.NewFromInt(150),
		Currency:       "EUR",
		Status:         domain.SettlementStatusPending,
		CreatedAt:      time.Date(2026, 5, 5, 7, 0, 0, 0, time.UTC),
	}
	if err := batchRepo.Save(ctx, batch); err != nil {
		t.Fatalf("save: %v", err)
	}

	settled := batch.CreatedAt.Add(time.Hour)
	batch.Status = domain.SettlementStatusCompleted
	batch.SettledAt = &settled
	if err := batchRepo.Save(ctx, batch); err != nil {
		t.Fatalf("save update: %v", err)
	}

	got, err := batchRepo.Get(ctx, batch.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.SettlementStatusCompleted || got.SettledAt == nil || !got.TotalAmount.Equal(batch.TotalAmount) {
		t.Fatalf("unexpected batch %+v", got)
	}
	if len(got.TransactionIDs) != 3 {
		t.Fatalf("expected 3 members, got %d", len(got.TransactionIDs))
	}
	for i := range batch.TransactionIDs {
		if got.TransactionIDs[i] != batch.TransactionIDs[i] {
			t.Fatalf("expected members in order, got %v", got.TransactionIDs)
		}
	}

	if _, err := batchRepo.Get(ctx, uuid.New()); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestRateRepository_EnsureDefaultRates(t *testing.T) {
	repo := NewRateRepository(openTestSQL(t), SQLite)
	ctx := context.Background()

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seed := []domain.Rate{{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.RequireFromString("1.1"), RateDate: day}}
	currencies := []domain.CurrencyInfo{{Code: "EUR", Symbol: "€", DecimalPlaces: 2}}

	if err := repo.EnsureDefaultRates(ctx, seed, currencies); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reseed := []domain.Rate{{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.RequireFromString("9.9"), RateDate: day}}
	if err := repo.EnsureDefaultRates(ctx, reseed, []domain.CurrencyInfo{{Code: "EUR", Symbol: "X", DecimalPlaces: 0}}); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	rate, err := repo.GetRate(ctx, "eur", " usd")
	if err != nil {
		t.Fatalf("get rate: %v", err)
	}
	if !rate.Rate.Equal(decimal.RequireFromString("1.1")) || !rate.RateDate.Equal(day) {
		t.Fatalf("expected seeded rate to be kept, got %+v", rate)
	}

	info, err := repo.GetCurrency(ctx, "eur")
	if err != nil {
		t.Fatalf("get currency: %v", err)
	}
	if info.Symbol != "€" || info.DecimalPlaces != 2 {
		t.Fatalf("unexpected currency %+v", info)
	}
}

func TestRateRepository_LatestRateWins(t *testing.T) {
	repo := NewRateRepository(openTestSQL(t), SQLite)
	ctx := context.Background()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rates := []domain.Rate{
		{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.RequireFromString("1.1"), RateDate: older},
		{FromCurrency: "EUR", ToCurrency: "USD", Rate: decimal.RequireFromString("1.2"), RateDate: newer},
		{FromCurrency: "EUR", ToCurrency: "HUF", Rate: decimal.NewFromInt(380), RateDate: older},
	}
	if err := repo.EnsureDefaultRates(ctx, rates, nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rate, err := repo.GetRate(ctx, "EUR", "USD")
	if err != nil {
		t.Fatalf("get rate: %v", err)
	}
	if !rate.Rate.Equal(decimal.RequireFromString("1.2")) {
		t.Fatalf("expected latest rate 1.2, got %s", rate.Rate)
	}

	all, err := repo.GetRates(ctx)
	if err != nil {
		t.Fatalf("get rates: %v", err)
	}
	if len(all) != 2 || all[0].ToCurrency != "HUF" || all[1].ToCurrency != "USD" {
		t.Fatalf("expected one latest rate per pair, got %+v", all)
	}

	if _, err := repo.GetRate(ctx, "USD", "JPY"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if _, err := repo.GetCurrency(ctx, "JPY"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
