package security

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const keyInfo = "card-payment-engine/aead/v1"

// Encrypt seals plaintext under a fresh random nonce. The output is
// nonce || ciphertext || tag.
func (m *Manager) Encrypt(plaintext []byte) ([]byte, error) {
	nonceSize := m.aead.NonceSize()
	out := make([]byte, nonceSize, nonceSize+len(plaintext)+m.aead.Overhead())
	if _, err := rand.Read(out); err != nil {
		return nil, fmt.Errorf("%w: generate nonce: %v", domain.ErrCryptoFailure, err)
	}
	return m.aead.Seal(out, out[:nonceSize], plaintext, nil), nil
}

func (m *Manager) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := m.aead.NonceSize()
	if len(ciphertext) < nonceSize+m.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", domain.ErrCryptoFailure)
	}

	plaintext, err := m.aead.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCryptoFailure, err)
	}
	return plaintext, nil
}

// DeriveKey stretches a configured secret into an AEAD key with HKDF-SHA256.
func DeriveKey(secret string, salt []byte) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("derive key: empty secret")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), salt, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}
