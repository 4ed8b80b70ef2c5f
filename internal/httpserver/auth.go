package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recyclemart/ewaste-market/internal/logging"
	"github.com/recyclemart/ewaste-market/internal/models"
	"github.com/recyclemart/ewaste-market/internal/service"
	"github.com/recyclemart/ewaste-market/internal/tokens"
	"github.com/recyclemart/ewaste-market/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register failed", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.AuthResponse{Success: false, Message: "Invalid request body"})
	}

	user, token, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, transport.AuthResponse{Success: false, Message: "Missing required fields"})
		case errors.Is(err, service.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, transport.AuthResponse{Success: false, Message: "User already exists"})
		default:
			l.Error("register failed", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, transport.AuthResponse{Success: false, Message: "Server error"})
		}
	}

	c.SetCookie(tokens.CreateCookie(token, h.SecureCookie))

	return c.JSON(http.StatusCreated, transport.AuthResponse{
		Success: true,
		User:    userPayload(user, token),
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, transport.AuthResponse{Success: false, Message: "Invalid request body"})
	}

	user, token, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same body whether the email or the password was wrong.
			return c.JSON(http.StatusUnauthorized, transport.AuthResponse{Success: false, Message: "Invalid credentials"})
		}
		l.Error("login failed", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.AuthResponse{Success: false, Message: "Server error"})
	}

	c.SetCookie(tokens.CreateCookie(token, h.SecureCookie))

	return c.JSON(http.StatusOK, transport.AuthResponse{
		Success: true,
		User:    userPayload(user, token),
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.DeleteCookie(h.SecureCookie))
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func userPayload(user *models.User, token string) *transport.UserPayload {
	return &transport.UserPayload{
		ID:          user.ID.String(),
		Name:        user.Name,
		Email:       user.Email,
		Role:        user.Role,
		AccessToken: token,
	}
}
