package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
	"github.com/buildtrack/procurement-api/internal/infrastructure/token"
)

// Authenticate verifies the bearer token, re-confirms that its subject is
// still an active identity and attaches the resolved principal to the
// request context. Every failure short-circuits with a 401.
func Authenticate(verifier ports.TokenVerifier, lookup ports.IdentityLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := resolve(c, verifier, lookup)
			if err != nil {
				var de *domain.Error
				if errors.As(err, &de) {
					metrics.AuthFailuresTotal.WithLabelValues(string(de.Code)).Inc()
				}
				return err
			}
			setPrincipal(c, p)
			return next(c)
		}
	}
}

// OptionalAuth behaves like Authenticate but continues anonymously on any
// failure instead of rejecting the request.
func OptionalAuth(verifier ports.TokenVerifier, lookup ports.IdentityLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p, err := resolve(c, verifier, lookup); err == nil {
				setPrincipal(c, p)
			}
			return next(c)
		}
	}
}

func resolve(c echo.Context, verifier ports.TokenVerifier, lookup ports.IdentityLookup) (domain.Principal, error) {
	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return domain.Principal{}, err
	}

	claims, err := verifier.Verify(raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return domain.Principal{}, domain.ErrTokenExpired.WithCause(err)
		}
		return domain.Principal{}, domain.ErrInvalidToken.WithCause(err)
	}

	user, err := lookup.FindActiveByID(c.Request().Context(), claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return domain.Principal{}, domain.ErrSubjectNotFound
		}
		return domain.Principal{}, err
	}

	// The token's own claims stay as issued; the request sees the record
	// fetched for the active check, so role changes apply on the next call.
	return user.Principal(), nil
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", domain.ErrMissingToken
	}
	scheme, raw, found := strings.Cut(header, " ")
	if !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrInvalidToken
	}
	raw = strings.TrimSpace(raw)
	if !found || raw == "" {
		return "", domain.ErrMissingToken
	}
	return raw, nil
}

func setPrincipal(c echo.Context, p domain.Principal) {
	req := c.Request()
	c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), p)))
}
