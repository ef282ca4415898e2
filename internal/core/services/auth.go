package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements single-admin authentication. The admin
// password is hashed once at construction; only its hash is retained.
type authService struct {
	adapter      driven.AuthAdapter
	passwordHash string
	tokenTTL     time.Duration
}

// NewAuthService creates a new AuthService for the given admin password
func NewAuthService(adapter driven.AuthAdapter, adminPassword string, tokenTTL time.Duration) (driving.AuthService, error) {
	if adminPassword == "" {
		return nil, fmt.Errorf("%w: admin password is required", domain.ErrInvalidInput)
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	hash, err := adapter.HashPassword(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	return &authService{
		adapter:      adapter,
		passwordHash: hash,
		tokenTTL:     tokenTTL,
	}, nil
}

// Login exchanges the admin password for a bearer token
func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if !s.adapter.VerifyPassword(req.Password, s.passwordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := &domain.TokenClaims{
		Subject:   "admin",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}

	token, err := s.adapter.GenerateToken(claims)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// ValidateToken validates a bearer token and returns its claims
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.adapter.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if claims.ExpiresAt > 0 && time.Now().Unix() > claims.ExpiresAt {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}
