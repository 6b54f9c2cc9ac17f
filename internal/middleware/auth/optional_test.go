package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopcart/internal/tokens"
)

var secret = []byte("test-jwt-secret")

func run(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie) *uuid.UUID {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *uuid.UUID
	err := mw(func(c echo.Context) error {
		got = CustomerID(c)
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	return got
}

func TestOptional_ValidToken(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tok, err := tokens.NewAccessToken(id.String(), "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	got := run(t, Optional(secret), &http.Cookie{Name: AccessCookie, Value: tok})
	require.NotNil(t, got)
	assert.Equal(t, id, *got)
}

func TestOptional_IgnoresBadTokens(t *testing.T) {
	t.Parallel()

	expired, err := tokens.NewAccessToken(uuid.NewString(), "user", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)
	foreign, err := tokens.NewAccessToken(uuid.NewString(), "user", time.Now().Add(time.Minute), []byte("other"))
	require.NoError(t, err)
	notUUID, err := tokens.NewAccessToken("42", "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{name: "no cookie"},
		{name: "empty cookie", cookie: &http.Cookie{Name: AccessCookie}},
		{name: "garbage", cookie: &http.Cookie{Name: AccessCookie, Value: "garbage"}},
		{name: "expired", cookie: &http.Cookie{Name: AccessCookie, Value: expired}},
		{name: "wrong secret", cookie: &http.Cookie{Name: AccessCookie, Value: foreign}},
		{name: "subject not uuid", cookie: &http.Cookie{Name: AccessCookie, Value: notUUID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Nil(t, run(t, Optional(secret), tt.cookie))
		})
	}
}

func TestOptional_NoSecretDisables(t *testing.T) {
	t.Parallel()

	tok, err := tokens.NewAccessToken(uuid.NewString(), "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	assert.Nil(t, run(t, Optional(nil), &http.Cookie{Name: AccessCookie, Value: tok}))
}

func TestSetUserContext_OnlyCustomerID(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	setUserContext(c, &tokens.AccessClaims{Role: "user", RegisteredClaims: jwt.RegisteredClaims{Subject: id.String()}})

	require.NotNil(t, CustomerID(c))
	assert.Equal(t, id, *CustomerID(c))
	assert.Nil(t, c.Get("user_id"))
	assert.Nil(t, c.Get("role"))
}
