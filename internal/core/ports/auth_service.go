package ports

import (
	"context"
	"time"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// PasswordHasher computes and verifies salted password hashes.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Compare reports whether password matches hash. A mismatch is not an
	// error.
	Compare(ctx context.Context, hash, password string) (bool, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims domain.Claims, ttl time.Duration) (string, error)
}

// TokenVerifier checks session tokens without touching storage.
type TokenVerifier interface {
	Verify(raw string) (domain.Claims, error)
}

// RegisterInput carries the self-service registration payload.
type RegisterInput struct {
	Email      string
	Username   string
	Password   string
	Name       string
	Department string
	Phone      string
}

// AuthResult is an identity together with a freshly issued token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// AuthService issues and manages credentials.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	Refresh(ctx context.Context, principal domain.Principal) (string, error)
}

// SecretRotator replaces the token signing secret.
type SecretRotator interface {
	RotateSecret(ctx context.Context) error
}
