package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/food_client/pkg/tokens"
)

var secret = []byte("test-secret")

func serve(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
	return rec, c, err
}

func token(t *testing.T, roles ...string) string {
	t.Helper()
	tok, err := tokens.CreateAccessToken(secret, 3, "alice", roles, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func statusOf(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestRequireAuth(t *testing.T) {
	m := NewBearerMiddleware(secret)

	_, _, err := serve(t, m.RequireAuth, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, _, err = serve(t, m.RequireAuth, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	_, _, err = serve(t, m.RequireAuth, "Basic "+token(t, RoleCustomer))
	assert.Equal(t, http.StatusUnauthorized, statusOf(err))

	rec, c, err := serve(t, m.RequireAuth, "Bearer "+token(t, RoleCustomer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	id, ok := UserID(c)
	assert.True(t, ok)
	assert.EqualValues(t, 3, id)
	assert.False(t, IsAdmin(c))
}

func TestRequireAdmin(t *testing.T) {
	m := NewBearerMiddleware(secret)

	_, _, err := serve(t, m.RequireAdmin, "Bearer "+token(t, RoleCustomer))
	assert.Equal(t, http.StatusForbidden, statusOf(err))

	rec, c, err := serve(t, m.RequireAdmin, "Bearer "+token(t, RoleCustomer, RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, IsAdmin(c))
}
