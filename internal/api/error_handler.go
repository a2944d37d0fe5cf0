package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/buildtrack/procurement-api/internal/api/metrics"
	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// errorBody is the error object inside the failure envelope. Details and
// Stack are only populated outside production.
type errorBody struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Details string           `json:"details,omitempty"`
	Stack   string           `json:"stack,omitempty"`
}

// errorResponse is the canonical failure envelope for all API errors.
type errorResponse struct {
	Success   bool      `json:"success"`
	Error     errorBody `json:"error"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// panicError carries the stack of a recovered panic to the error handler.
type panicError struct {
	err   error
	stack []byte
}

func (e *panicError) Error() string { return "panic: " + e.err.Error() }

func (e *panicError) Unwrap() error { return e.err }

// recoverLogError is the echo Recover hook; it defers logging to the error
// handler so a panic is logged once like any other error.
func recoverLogError(_ echo.Context, err error, stack []byte) error {
	return &panicError{err: err, stack: stack}
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that classifies any
// error into the taxonomy, logs it once and renders the failure envelope.
// When production is false the envelope also carries the error chain and,
// for recovered panics, the stack.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		de := classify(err)
		req := c.Request()

		userID := "anonymous"
		if p, ok := domain.PrincipalFrom(req.Context()); ok {
			userID = p.ID
		}

		ev := log.Warn()
		if de.Status >= http.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("user_id", userID).
			Int("status", de.Status).
			Str("code", string(de.Code)).
			Msg("request failed")
		metrics.ErrorResponsesTotal.WithLabelValues(string(de.Code), strconv.Itoa(de.Status)).Inc()

		body := errorResponse{
			Success: false,
			Error: errorBody{
				Code:    de.Code,
				Message: de.Message,
			},
			Timestamp: time.Now().UTC(),
			Path:      req.URL.Path,
		}
		if !production {
			body.Error.Details = err.Error()
			var pe *panicError
			if errors.As(err, &pe) {
				body.Error.Stack = string(pe.stack)
			}
		}

		if req.Method == http.MethodHead {
			_ = c.NoContent(de.Status)
			return
		}
		_ = c.JSON(de.Status, body)
	}
}

// classify maps err to a taxonomy entry. Order matters: explicit codes win,
// then store violations, then input validation, then the catch-all.
func classify(err error) *domain.Error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}

	var se *domain.StoreError
	if errors.As(err, &se) {
		switch se.Kind {
		case domain.StoreErrUnique:
			return domain.ErrDuplicate
		case domain.StoreErrRecordNotFound:
			return domain.ErrNotFound
		case domain.StoreErrForeignKey:
			return domain.ErrForeignKey
		case domain.StoreErrRelation:
			return domain.ErrRelation
		default:
			return domain.ErrDatabase
		}
	}
	if errors.Is(err, domain.ErrNoRecord) {
		return domain.ErrNotFound
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return domain.ErrValidation.WithMessage(ve.Message)
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return domain.ErrValidation
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return classifyHTTPError(he)
	}

	return domain.ErrInternal
}

func classifyHTTPError(he *echo.HTTPError) *domain.Error {
	msg := strings.TrimSpace(fmt.Sprint(he.Message))
	switch {
	case he.Code == http.StatusNotFound:
		return domain.ErrNotFound.WithMessage("route not found")
	case he.Code == http.StatusMethodNotAllowed:
		return domain.ErrMethodNotAllowed
	case he.Code >= 400 && he.Code < 500:
		if msg == "" || msg == "<nil>" {
			msg = domain.ErrValidation.Message
		}
		return &domain.Error{Code: domain.CodeValidation, Status: he.Code, Message: msg}
	default:
		return domain.ErrInternal
	}
}
