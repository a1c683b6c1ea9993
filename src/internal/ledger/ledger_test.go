package ledger_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
	"github.com/api-sage/card-payment-engine/src/internal/ledger"
)

func TestLedger_OpenStartsActiveWithZeroBalance(t *testing.T) {
	l := ledger.New(nil)
	id := l.Open(" Jane Doe ", "eur")

	account, ok := l.Get(id)
	if !ok {
		t.Fatal("expected account to exist")
	}
	if account.HolderName != "Jane Doe" || account.Currency != "EUR" {
		t.Fatalf("unexpected account %+v", account)
	}
	if !account.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", account.Balance)
	}
	if account.Status != domain.AccountStatusActive {
		t.Fatalf("expected ACTIVE, got %s", account.Status)
	}
}

func TestLedger_BalanceTracksCreditsAndDebits(t *testing.T) {
	l := ledger.New(nil)
	id := l.Open("Jane", "EUR")

	credits := []string{"100.50", "20", "0.25"}
	debits := []string{"50.25", "70.50"}

	for _, c := range credits {
		if err := l.Credit(id, decimal.RequireFromString(c)); err != nil {
			t.Fatalf("credit %s: %v", c, err)
		}
	}
	for _, d := range debits {
		if err := l.Debit(id, decimal.RequireFromString(d)); err != nil {
			t.Fatalf("debit %s: %v", d, err)
		}
	}

	balance, err := l.Balance(id)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("0")) {
		t.Fatalf("expected balance 0, got %s", balance)
	}
}

func TestLedger_DebitNeverGoesNegative(t *testing.T) {
	l := ledger.New(nil)
	id := l.Open("Jane", "EUR")
	_ = l.Credit(id, decimal.NewFromInt(10))

	err := l.Debit(id, decimal.RequireFromString("10.01"))
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := l.Balance(id)
	if !balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("failed debit must not change balance, got %s", balance)
	}

	if err := l.Debit(id, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("exact debit should succeed, got %v", err)
	}
	balance, _ = l.Balance(id)
	if !balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", balance)
	}
}

func TestLedger_RejectsNonPositiveAmounts(t *testing.T) {
	l := ledger.New(nil)
	id := l.Open("Jane", "EUR")

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if err := l.Credit(id, amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("credit %s: expected ErrInvalidAmount, got %v", amount, err)
		}
		if err := l.Debit(id, amount); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("debit %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestLedger_UnknownAccount(t *testing.T) {
	l := ledger.New(nil)
	missing := uuid.New()

	err := l.Credit(missing, decimal.NewFromInt(1))
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) || notFound.Entity != "account" {
		t.Fatalf("expected account NotFoundError, got %v", err)
	}

	if _, err := l.Balance(missing); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestLedger_ClosedIsTerminal(t *testing.T) {
	l := ledger.New(nil)
	id := l.Open("Jane", "EUR")

	if err := l.SetStatus(id, domain.AccountStatusFrozen); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := l.SetStatus(id, domain.AccountStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := l.SetStatus(id, domain.AccountStatusActive); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState reopening closed account, got %v", err)
	}

	status, _ := l.Status(id)
	if status != domain.AccountStatusClosed {
		t.Fatalf("expected CLOSED, got %s", status)
	}
}
