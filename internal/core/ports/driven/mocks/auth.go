package mocks

import (
	"encoding/json"
	"strings"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Passwords are compared in plain text and tokens are JSON claims with
// a recognisable prefix.
type MockAuthAdapter struct{}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return password == hash
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	data, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}
	return "mock." + string(data), nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	data, ok := strings.CutPrefix(token, "mock.")
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal([]byte(data), &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
