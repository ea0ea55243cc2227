package auth

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/tokens"
	"github.com/kmazurov/order_service/internal/transport"
)

const contextKey = "user"

// RequireLogin validates the bearer token, resolves its subject to an active
// user and stashes the profile for the handler.
func RequireLogin(secret []byte, users *repo.UserRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := tokens.AccessClaimsFromToken(raw, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "user not found or inactive")
			}

			c.Set(contextKey, transport.UserProfile{
				ID:    user.ID,
				Email: user.Email,
				Name:  user.Name,
				Role:  user.Role,
			})
			return next(c)
		}
	}
}

// RequireRole layers a role check over RequireLogin.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile, ok := ProfileFromContext(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			if profile.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
			}
			return next(c)
		}
	}
}

func ProfileFromContext(c echo.Context) (transport.UserProfile, bool) {
	profile, ok := c.Get(contextKey).(transport.UserProfile)
	return profile, ok
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
