package driving

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// AuthService handles admin authentication
type AuthService interface {
	// Login exchanges the admin password for a bearer token
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken validates a bearer token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
