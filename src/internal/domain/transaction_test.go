package domain

import "testing"

func TestTransactionStatus_Transitions(t *testing.T) {
	tests := []struct {
		from TransactionStatus
		to   TransactionStatus
		want bool
	}{
		{TransactionStatusPending, TransactionStatusAuthorized, true},
		{TransactionStatusAuthorized, TransactionStatusCaptured, true},
		{TransactionStatusAuthorized, TransactionStatusDeclined, true},
		{TransactionStatusCaptured, TransactionStatusSettled, true},
		{TransactionStatusCaptured, TransactionStatusReversed, true},
		{TransactionStatusSettled, TransactionStatusReversed, true},
		{TransactionStatusAuthorized, TransactionStatusSettled, false},
		{TransactionStatusCaptured, TransactionStatusAuthorized, false},
		{TransactionStatusSettled, TransactionStatusCaptured, false},
		{TransactionStatusDeclined, TransactionStatusAuthorized, false},
		{TransactionStatusReversed, TransactionStatusSettled, false},
		{TransactionStatusAuthorized, TransactionStatusAuthorized, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("expected %s -> %s to be %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}
}

func TestTransactionStatus_TerminalHasNoExit(t *testing.T) {
	for _, s := range []TransactionStatus{TransactionStatusDeclined, TransactionStatusReversed} {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
		for _, next := range transactionStatusOrder {
			if s.CanTransitionTo(next) {
				t.Fatalf("expected no transition out of %s, got one to %s", s, next)
			}
		}
	}
}

func TestTransactionStatus_Sources(t *testing.T) {
	if got := TransactionStatusCaptured.Sources(); got != "AUTHORIZED" {
		t.Fatalf("expected AUTHORIZED, got %s", got)
	}
	if got := TransactionStatusReversed.Sources(); got != "CAPTURED|SETTLED" {
		t.Fatalf("expected CAPTURED|SETTLED, got %s", got)
	}
	if got := TransactionStatusPending.Sources(); got != "" {
		t.Fatalf("expected no source for PENDING, got %s", got)
	}
}

func TestTransactionStatus_Valid(t *testing.T) {
	for _, s := range transactionStatusOrder {
		if !s.Valid() {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if TransactionStatus("VOIDED").Valid() {
		t.Fatalf("expected VOIDED to be invalid")
	}
}
