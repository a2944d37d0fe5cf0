package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

// ProjectIDParam is the path parameter and body field naming a project.
const ProjectIDParam = "projectId"

// MaxBodyBytes bounds request bodies; the router enforces the same limit
// with echo's BodyLimit ("10M").
const MaxBodyBytes = 10 << 20

// RequireOwnership admits ADMIN unconditionally and otherwise only the
// creator or manager of the resource named by param. The id is read from the
// path parameter first, then from the JSON body field of the same name.
func RequireOwnership(checker ports.OwnershipChecker, param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := domain.PrincipalFrom(c.Request().Context())
			if !ok {
				return domain.ErrNotAuthenticated
			}
			if p.IsAdmin() {
				return next(c)
			}

			id, err := resourceID(c, param)
			if err != nil {
				return err
			}
			if id == "" {
				return domain.ErrProjectIDMissing
			}

			owned, err := checker.IsOwnedBy(c.Request().Context(), id, p.ID)
			if err != nil {
				return err
			}
			if !owned {
				return domain.ErrProjectAccessDenied
			}
			return next(c)
		}
	}
}

// RequireProjectAccess is RequireOwnership keyed on projectId.
func RequireProjectAccess(checker ports.OwnershipChecker) echo.MiddlewareFunc {
	return RequireOwnership(checker, ProjectIDParam)
}

// resourceID reads the id from the path, falling back to the JSON body. The
// body is restored so the handler can still bind it.
func resourceID(c echo.Context, param string) (string, error) {
	if id := strings.TrimSpace(c.Param(param)); id != "" {
		return id, nil
	}

	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return "", nil
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, MaxBodyBytes+1))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return "", he
		}
		return "", &domain.ValidationError{Message: "unreadable request body", Err: err}
	}
	if len(body) > MaxBodyBytes {
		return "", echo.ErrStatusRequestEntityTooLarge
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		// Leave malformed bodies to the handler's binder.
		return "", nil
	}
	var id string
	if raw, ok := payload[param]; ok {
		_ = json.Unmarshal(raw, &id)
	}
	return strings.TrimSpace(id), nil
}
