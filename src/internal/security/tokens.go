package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	tokenPrefix     = "tok_"
	tokenEntropy    = 16
	maxTokenRetries = 5
)

// Tokenize stores pan behind a fresh random token. Tokenizing the same PAN
// twice yields two tokens.
func (m *Manager) Tokenize(pan string) (string, error) {
	for attempt := 0; attempt < maxTokenRetries; attempt++ {
		token, err := newToken()
		if err != nil {
			return "", err
		}

		m.mu.Lock()
		if _, taken := m.tokens[token]; !taken {
			m.tokens[token] = pan
			m.mu.Unlock()
			return token, nil
		}
		m.mu.Unlock()
	}
	return "", fmt.Errorf("tokenize: no unique token after %d attempts", maxTokenRetries)
}

func (m *Manager) Detokenize(token string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pan, ok := m.tokens[token]
	return pan, ok
}

func newToken() (string, error) {
	b := make([]byte, tokenEntropy)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return tokenPrefix + hex.EncodeToString(b), nil
}
