package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"carstock/internal/middleware"
	"carstock/internal/model"
	"carstock/internal/repository"
	"carstock/internal/store"
	"carstock/internal/utils"
)

// AuthHandler bundles dependencies for login, logout and identity
// endpoints.
type AuthHandler struct {
	Users     *store.UserStore
	Sessions  *store.SessionStore
	Directory repository.UserDirectory
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(users *store.UserStore, sessions *store.SessionStore, directory repository.UserDirectory) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, Directory: directory}
}

type loginReq struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type userPart struct {
	Username    string   `json:"username"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	RoleName    string   `json:"role_name"`
	Permissions []string `json:"permissions"`
}

type loginResp struct {
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

// Login verifies credentials against the local users file first and
// falls back to the remote user directory, then mints a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var matched *model.User
	users, err := h.Users.Load()
	if err == nil {
		if u, ok := users[req.Username]; ok && utils.VerifyPassword(u.PasswordHash, req.Password) {
			matched = &u
		}
	}
	if matched == nil && h.Directory != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
		defer cancel()
		remote, err := h.Directory.ListUsers(ctx)
		if err == nil {
			hash := utils.HashPassword(req.Password)
			for _, u := range remote {
				if u.Username == req.Username && u.PasswordHash == hash {
					if u.Role == "" {
						u.Role = "employee"
					}
					matched = &u
					break
				}
			}
		}
	}
	if matched == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	token, err := h.Sessions.Create(matched.Username, matched.Role)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create session failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Token: token,
		User: userPart{
			Username:    matched.Username,
			Name:        matched.Name,
			Role:        matched.Role,
			RoleName:    model.RoleName(matched.Role),
			Permissions: model.RolePermissions(matched.Role),
		},
	})
}

// Logout deletes every session of the authenticated user.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	if err := h.Sessions.DeleteByUsername(sess.Username); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	users, err := h.Users.Load()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load users failed"})
	}
	u, ok := users[sess.Username]
	if !ok {
		// Directory-backed logins have no local record; answer from
		// the session itself.
		return c.JSON(http.StatusOK, userPart{
			Username:    sess.Username,
			Role:        sess.Role,
			RoleName:    model.RoleName(sess.Role),
			Permissions: model.RolePermissions(sess.Role),
		})
	}
	return c.JSON(http.StatusOK, userPart{
		Username:    u.Username,
		Name:        u.Name,
		Role:        u.Role,
		RoleName:    model.RoleName(u.Role),
		Permissions: model.RolePermissions(u.Role),
	})
}

// Roles returns the static role table.
func (h *AuthHandler) Roles(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Roles)
}
