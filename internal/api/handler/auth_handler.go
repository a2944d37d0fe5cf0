package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	rotator     ports.SecretRotator
}

func NewAuthHandler(authService ports.AuthService, rotator ports.SecretRotator) *AuthHandler {
	return &AuthHandler{authService: authService, rotator: rotator}
}

// Register creates a new STAFF account and returns its first token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  successResponse{data=authData}
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:      req.Email,
		Username:   req.Username,
		Password:   req.Password,
		Name:       req.Name,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, ok("Registration successful", authData{User: res.User, Token: res.Token}))
}

// Login authenticates by username or email and returns a token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  successResponse{data=authData}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ok("Login successful", authData{User: res.User, Token: res.Token}))
}

// Me returns the caller's current profile.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=userData}
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.authService.Me(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", userData{User: user}))
}

// UpdateProfile partially updates name, department and phone.
//
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  successResponse{data=userData}
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), p.ID, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Profile updated", userData{User: user}))
}

// ChangePassword replaces the caller's password after re-verifying the
// current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  successResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/change-password [put]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), p.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Password changed", nil))
}

// Refresh reissues a token for a caller whose token is still valid.
//
// @Summary      Refresh token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=tokenData}
// @Failure      401  {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	token, err := h.authService.Refresh(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Token refreshed", tokenData{Token: token}))
}

// Logout acknowledges a logout. Tokens are stateless; the client discards
// its copy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, ok("Logged out", nil))
}

// RotateSecret replaces the signing secret. Every issued token, the
// caller's included, stops verifying.
//
// @Summary      Rotate signing secret
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/rotate-secret [post]
func (h *AuthHandler) RotateSecret(c echo.Context) error {
	if err := h.rotator.RotateSecret(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Signing secret rotated; all sessions must log in again", nil))
}
