package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// principal returns the identity attached by the authentication middleware.
// Reaching a protected handler without one means the route was wired
// without Authenticate.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := domain.PrincipalFrom(c.Request().Context())
	if !ok {
		return domain.Principal{}, domain.ErrNotAuthenticated
	}
	return p, nil
}

// bindAndValidate binds the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return &domain.ValidationError{Message: "invalid request payload", Err: err}
	}
	return c.Validate(req)
}
