package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
	"github.com/kmazurov/order_service/internal/tokens"
	"github.com/kmazurov/order_service/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

func newTestUsers(t *testing.T) (*repo.UserRepo, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	user := &models.User{
		Email:        "jane@example.com",
		Name:         "Jane Doe",
		PasswordHash: "irrelevant",
		Role:         "user",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return &repo.UserRepo{DB: db}, user
}

func signToken(t *testing.T, user *models.User, ttl time.Duration) string {
	t.Helper()

	claims := tokens.AccessClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return c, err
}

func TestRequireLogin_MissingToken(t *testing.T) {
	users, _ := newTestUsers(t)

	_, err := invoke(RequireLogin(testSecret, users), "")
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLogin_ValidToken(t *testing.T) {
	users, user := newTestUsers(t)

	c, err := invoke(RequireLogin(testSecret, users), "Bearer "+signToken(t, user, time.Hour))
	require.NoError(t, err)

	profile, ok := ProfileFromContext(c)
	require.True(t, ok)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.Email, profile.Email)
	assert.Equal(t, "user", profile.Role)
}

func TestRequireLogin_ExpiredToken(t *testing.T) {
	users, user := newTestUsers(t)

	_, err := invoke(RequireLogin(testSecret, users), "Bearer "+signToken(t, user, -time.Minute))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireLogin_InactiveUser(t *testing.T) {
	users, user := newTestUsers(t)
	require.NoError(t, users.DB.Model(user).Update("is_active", false).Error)

	_, err := invoke(RequireLogin(testSecret, users), "Bearer "+signToken(t, user, time.Hour))
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	err := RequireRole("admin")(next)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Code)

	c.Set(contextKey, transport.UserProfile{Role: "user"})
	err = RequireRole("admin")(next)(c)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)

	c.Set(contextKey, transport.UserProfile{Role: "admin"})
	require.NoError(t, RequireRole("admin")(next)(c))
}
