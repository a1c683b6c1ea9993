package security

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestTokenize_ReturnsDistinctTokensForSamePAN(t *testing.T) {
	m := newTestManager(t, Config{})

	first, err := m.Tokenize("4111111111111111")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	second, err := m.Tokenize("4111111111111111")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct tokens, got %s twice", first)
	}
	if !strings.HasPrefix(first, "tok_") || len(first) != len("tok_")+32 {
		t.Fatalf("unexpected token format %q", first)
	}

	for _, token := range []string{first, second} {
		pan, ok := m.Detokenize(token)
		if !ok || pan != "4111111111111111" {
			t.Fatalf("expected token %s to resolve to pan, got %q ok=%v", token, pan, ok)
		}
	}
}

func TestDetokenize_UnknownToken(t *testing.T) {
	m := newTestManager(t, Config{})
	if _, ok := m.Detokenize("tok_missing"); ok {
		t.Fatalf("expected unknown token to miss")
	}
}

func TestTokenize_ConcurrentCallsAreUnique(t *testing.T) {
	m := newTestManager(t, Config{})

	const workers = 32
	tokens := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := m.Tokenize(fmt.Sprintf("pan-%d", i))
			if err != nil {
				t.Errorf("tokenize: %v", err)
				return
			}
			tokens <- token
		}(i)
	}
	wg.Wait()
	close(tokens)

	seen := map[string]bool{}
	for token := range tokens {
		if seen[token] {
			t.Fatalf("duplicate token %s", token)
		}
		seen[token] = true
	}
}

func TestEncrypt_ProducesDistinctCiphertexts(t *testing.T) {
	m := newTestManager(t, Config{})
	plaintext := []byte("4111111111111111")

	a, err := m.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := m.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("expected distinct ciphertexts for the same plaintext")
	}

	for _, ct := range [][]byte{a, b} {
		got, err := m.Decrypt(ct)
		if err != nil {
			t.Fatalf("decrypt: %v", err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Fatalf("expected %q, got %q", plaintext, got)
		}
	}
}

func TestDecrypt_DetectsTampering(t *testing.T) {
	m := newTestManager(t, Config{})

	ct, err := m.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ct[len(ct)-1] ^= 0x01

	if _, err := m.Decrypt(ct); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("expected ErrCryptoFailure, got %v", err)
	}
	if _, err := m.Decrypt([]byte("short")); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("expected ErrCryptoFailure for short input, got %v", err)
	}
}

func TestDecrypt_RejectsForeignKey(t *testing.T) {
	keyA, err := DeriveKey("alpha", nil)
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	keyB, err := DeriveKey("bravo", nil)
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}

	a := newTestManager(t, Config{Key: keyA})
	b := newTestManager(t, Config{Key: keyB})

	ct, err := a.Encrypt([]byte("payload"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := b.Decrypt(ct); !errors.Is(err, domain.ErrCryptoFailure) {
		t.Fatalf("expected ErrCryptoFailure, got %v", err)
	}
}

func TestDeriveKey_IsDeterministic(t *testing.T) {
	a, err := DeriveKey("channel-secret", []byte("salt"))
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	b, err := DeriveKey("channel-secret", []byte("salt"))
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	if !bytes.Equal(a, b) || len(a) != 32 {
		t.Fatalf("expected identical 32-byte keys")
	}
	if _, err := DeriveKey("", nil); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestNewManager_RejectsShortKey(t *testing.T) {
	if _, err := NewManager(Config{Key: []byte("short")}); err == nil {
		t.Fatalf("expected error for short key")
	}
}

type fixedConverter struct {
	rate decimal.Decimal
	err  error
}

func (c fixedConverter) Convert(amount decimal.Decimal, from string, to string) (decimal.Decimal, error) {
	if c.err != nil {
		return decimal.Zero, c.err
	}
	return amount.Mul(c.rate), nil
}

func TestFraudCheck(t *testing.T) {
	raw := newTestManager(t, Config{})
	converted := newTestManager(t, Config{
		FraudCurrency: "EUR",
		Converter:     fixedConverter{rate: decimal.RequireFromString("0.01")},
	})
	failing := newTestManager(t, Config{
		FraudCurrency: "EUR",
		Converter:     fixedConverter{err: errors.New("no rate")},
	})

	tests := []struct {
		name     string
		m        *Manager
		amount   string
		currency string
		want     bool
	}{
		{name: "below threshold", m: raw, amount: "999.99", currency: "EUR", want: false},
		{name: "at threshold", m: raw, amount: "1000", currency: "EUR", want: false},
		{name: "above threshold", m: raw, amount: "1000.01", currency: "EUR", want: true},
		{name: "raw ignores currency", m: raw, amount: "5000", currency: "HUF", want: true},
		{name: "converted below threshold", m: converted, amount: "50000", currency: "HUF", want: false},
		{name: "reference currency not converted", m: converted, amount: "1500", currency: "eur", want: true},
		{name: "conversion failure flags", m: failing, amount: "1", currency: "XXX", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.FraudCheck(decimal.RequireFromString(tc.amount), tc.currency, "4111111111111111")
			if got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFraudThreshold_DefaultsAndOverride(t *testing.T) {
	if got := newTestManager(t, Config{}).FraudThreshold(); !got.Equal(DefaultFraudThreshold) {
		t.Fatalf("expected default threshold %s, got %s", DefaultFraudThreshold, got)
	}

	custom := newTestManager(t, Config{FraudThreshold: decimal.RequireFromString("250")})
	if got := custom.FraudThreshold(); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected threshold 250, got %s", got)
	}
	if !custom.FraudCheck(decimal.RequireFromString("250.01"), "EUR", "") {
		t.Fatalf("expected amount above custom threshold to be flagged")
	}
}

func TestCVV_HashAndVerify(t *testing.T) {
	hash, err := HashCVV("123")
	if err != nil {
		t.Fatalf("hash cvv: %v", err)
	}
	if hash == "123" {
		t.Fatalf("expected hashed cvv")
	}

	ok, err := VerifyCVV(hash, "123")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	ok, err = VerifyCVV(hash, "321")
	if err != nil || ok {
		t.Fatalf("expected mismatch, got ok=%v err=%v", ok, err)
	}

	for _, bad := range []string{"", "12", "12345", "12a"} {
		if _, err := HashCVV(bad); !errors.Is(err, domain.ErrInvalidCVV) {
			t.Fatalf("expected ErrInvalidCVV for %q, got %v", bad, err)
		}
	}
}

func TestValidatePAN(t *testing.T) {
	tests := []struct {
		pan   string
		valid bool
	}{
		{pan: "4111111111111111", valid: true},
		{pan: "5555555555554444", valid: true},
		{pan: "378282246310005", valid: true},
		{pan: "4111111111111112", valid: false},
		{pan: "41111111111a1111", valid: false},
		{pan: "4111", valid: false},
		{pan: "41111111111111111111", valid: false},
	}

	for _, tc := range tests {
		err := ValidatePAN(tc.pan)
		if tc.valid && err != nil {
			t.Fatalf("expected %s to be valid, got %v", tc.pan, err)
		}
		if !tc.valid && !errors.Is(err, domain.ErrInvalidPAN) {
			t.Fatalf("expected ErrInvalidPAN for %s, got %v", tc.pan, err)
		}
	}
}

func TestMaskPAN(t *testing.T) {
	if got := MaskPAN("4111111111111111"); got != "411111******1111" {
		t.Fatalf("expected 411111******1111, got %s", got)
	}
	if got := MaskPAN(NormalizePAN("4111 1111-1111 1111")); got != "411111******1111" {
		t.Fatalf("expected normalized mask, got %s", got)
	}
	if got := MaskPAN("1234"); got != "****" {
		t.Fatalf("expected fully masked short pan, got %s", got)
	}
}
