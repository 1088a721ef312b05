package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carstock/internal/model"
	"carstock/internal/store"
)

// UserHandler exposes the admin-only user management endpoints.
type UserHandler struct {
	Users *store.UserStore
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{Users: users}
}

type userSummary struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	RoleName  string `json:"role_name"`
	CreatedAt string `json:"created_at"`
}

// List returns every local user without password material.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Users.Load()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{
			Username:  u.Username,
			Name:      u.Name,
			Role:      u.Role,
			RoleName:  model.RoleName(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

type createUserReq struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Name     string `form:"name" validate:"required"`
	Role     string `form:"role" validate:"required"`
}

// Create adds a local user. Duplicate usernames conflict; unknown
// roles are rejected.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	u, err := h.Users.Create(req.Username, req.Password, req.Name, req.Role)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created",
		"user": userSummary{
			Username:  u.Username,
			Name:      u.Name,
			Role:      u.Role,
			RoleName:  model.RoleName(u.Role),
			CreatedAt: u.CreatedAt,
		},
	})
}

// Delete removes a local user; the primary administrator is protected.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.Users.Delete(c.Param("username")); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
