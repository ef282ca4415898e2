package domain

// TokenClaims are the claims embedded in an API token.
// The service runs with a single admin identity; there is no user model.
type TokenClaims struct {
	Subject   string `json:"subject"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
}

// LoginRequest authenticates with the admin password
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
