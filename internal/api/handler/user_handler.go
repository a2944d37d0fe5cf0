package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/buildtrack/procurement-api/internal/core/domain"
	"github.com/buildtrack/procurement-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns every identity.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  successResponse{data=usersData}
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("", usersData{Users: users}))
}

// ChangeRole assigns a new role to a user.
//
// @Summary      Change user role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  successResponse{data=userData}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context) error {
	var req changeRoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.ChangeRole(c.Request().Context(), c.Param("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Role updated", userData{User: user}))
}

// ChangeStatus activates or deactivates a user.
//
// @Summary      Change user status
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "User ID"
// @Param        body  body      changeStatusRequest  true  "Active flag"
// @Success      200   {object}  successResponse{data=userData}
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/status [put]
func (h *UserHandler) ChangeStatus(c echo.Context) error {
	var req changeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.userService.SetActive(c.Request().Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ok("Status updated", userData{User: user}))
}
