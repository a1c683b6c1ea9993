// Package security tokenizes card numbers, encrypts sensitive payloads and
// screens transactions for fraud. A Manager is safe for concurrent use.
package security

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/chacha20poly1305"
)

// DefaultFraudThreshold is the amount above which a transaction is flagged.
var DefaultFraudThreshold = decimal.NewFromInt(1000)

// Converter converts an amount between currencies without I/O.
type Converter interface {
	Convert(amount decimal.Decimal, from string, to string) (decimal.Decimal, error)
}

type Config struct {
	// Key is the 32-byte AEAD key. A random key is generated when empty.
	Key []byte
	// FraudThreshold defaults to DefaultFraudThreshold.
	FraudThreshold decimal.Decimal
	// FraudCurrency, when set, converts amounts into this currency before
	// they are compared with FraudThreshold. Empty compares raw amounts in
	// the transaction currency.
	FraudCurrency string
	Converter     Converter
}

type Manager struct {
	aead cipher.AEAD

	mu     sync.RWMutex
	tokens map[string]string

	fraudThreshold decimal.Decimal
	fraudCurrency  string
	converter      Converter
}

func NewManager(cfg Config) (*Manager, error) {
	key := cfg.Key
	if len(key) == 0 {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate encryption key: %w", err)
		}
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	threshold := cfg.FraudThreshold
	if !threshold.IsPositive() {
		threshold = DefaultFraudThreshold
	}
	if cfg.FraudCurrency != "" && cfg.Converter == nil {
		return nil, fmt.Errorf("fraud currency %s requires a converter", cfg.FraudCurrency)
	}

	return &Manager{
		aead:           aead,
		tokens:         make(map[string]string),
		fraudThreshold: threshold,
		fraudCurrency:  cfg.FraudCurrency,
		converter:      cfg.Converter,
	}, nil
}
