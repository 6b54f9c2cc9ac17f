package auth

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/logging"
	"github.com/Skotchmaster/shopcart/internal/tokens"
)

const (
	AccessCookie = "accessToken"

	ctxCustomerID = "customer_id"
)

// Optional identifies the customer from the access token cookie when one is present.
// Requests without a valid token pass through anonymously.
func Optional(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(secret) == 0 {
				return next(c)
			}

			cookie, err := c.Cookie(AccessCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := tokens.AccessClaimsFromToken(cookie.Value, secret)
			if err != nil {
				logging.FromContext(c.Request().Context()).Debug("access_token_ignored", "reason", err.Error())
				return next(c)
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	if id, err := uuid.Parse(claims.Subject); err == nil {
		c.Set(ctxCustomerID, id)
	}
}

// CustomerID returns the customer identified by Optional, or nil for anonymous requests.
func CustomerID(c echo.Context) *uuid.UUID {
	id, ok := c.Get(ctxCustomerID).(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
