package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/logging"
	mwauth "github.com/kmazurov/order_service/internal/middleware/auth"
	"github.com/kmazurov/order_service/internal/service"
	"github.com/kmazurov/order_service/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Svc.Register(ctx, req)
	if err != nil {
		l.Warn("register_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, profile)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Login(ctx, req)
	if err != nil {
		l.Warn("login_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHTTP) Profile(c echo.Context) error {
	profile, ok := mwauth.ProfileFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.users")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_error", "error", err)
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
