// Package token issues and verifies HS256-signed session tokens.
//
// Verification is pure: it never touches storage. The signing secret is held
// behind an atomic pointer so Rotate is safe under concurrent Verify calls;
// rotating invalidates every outstanding token at once.
package token

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// DefaultTTL is the validity window used when neither the caller nor the
// configuration supplies one.
const DefaultTTL = 7 * 24 * time.Hour

const minSecretLen = 16

var (
	// ErrMalformed covers bad signatures, unexpected algorithms and any
	// structurally invalid token or claim set.
	ErrMalformed = errors.New("token malformed")
	// ErrExpired is returned once the current time reaches the token's expiry.
	ErrExpired = errors.New("token expired")
)

// Config configures a Codec.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// Codec signs and verifies session tokens.
type Codec struct {
	secret atomic.Pointer[[]byte]
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type sessionClaims struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// NewCodec validates cfg and returns a ready Codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) < minSecretLen {
		return nil, fmt.Errorf("token: secret must be at least %d bytes", minSecretLen)
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Codec{ttl: cfg.TTL, issuer: cfg.Issuer, now: cfg.Now}
	secret := append([]byte(nil), cfg.Secret...)
	c.secret.Store(&secret)
	return c, nil
}

// TTL returns the default validity window.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue signs claims into a token valid for ttl, or for the configured
// default when ttl <= 0. Token times have whole-second precision: the issue
// time T is the clock truncated to the second, as encoded in iat, and the
// token verifies until T+ttl exclusive.
func (c *Codec) Issue(claims domain.Claims, ttl time.Duration) (string, error) {
	if claims.ID == "" {
		return "", errors.New("token: claims without subject id")
	}
	if !claims.Role.Valid() {
		return "", fmt.Errorf("token: %w: %q", domain.ErrUnknownRole, claims.Role)
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now().Truncate(time.Second)
	sc := sessionClaims{
		ID:         claims.ID,
		Email:      claims.Email,
		Username:   claims.Username,
		Name:       claims.Name,
		Role:       string(claims.Role),
		Department: claims.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.ID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, sc).SignedString(*c.secret.Load())
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
func (c *Codec) Verify(raw string) (domain.Claims, error) {
	if raw == "" {
		return domain.Claims{}, ErrMalformed
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	secret := *c.secret.Load()
	var sc sessionClaims
	_, err := jwt.NewParser(opts...).ParseWithClaims(raw, &sc, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Claims{}, fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		return domain.Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	role, err := domain.ParseRole(sc.Role)
	if err != nil || sc.ID == "" {
		return domain.Claims{}, fmt.Errorf("%w: incomplete claim set", ErrMalformed)
	}
	return domain.Claims{
		ID:         sc.ID,
		Email:      sc.Email,
		Username:   sc.Username,
		Name:       sc.Name,
		Role:       role,
		Department: sc.Department,
	}, nil
}

// Rotate replaces the signing secret. Every token signed with the previous
// secret fails verification with ErrMalformed from this point on.
func (c *Codec) Rotate(secret []byte) error {
	if len(secret) < minSecretLen {
		return fmt.Errorf("token: secret must be at least %d bytes", minSecretLen)
	}
	cp := append([]byte(nil), secret...)
	c.secret.Store(&cp)
	return nil
}
