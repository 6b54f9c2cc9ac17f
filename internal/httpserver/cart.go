package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/logging"
	"github.com/Skotchmaster/shopcart/internal/middleware/auth"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/internal/transport"
)

const (
	DefaultCartCookie = "shopping_cart_code"
	cartCookieTTL     = 30 * 24 * time.Hour
)

type CartHTTP struct {
	Svc          *service.CartService
	Reference    *service.ReferenceService
	DefaultStore string
	CookieName   string
}

func (h *CartHTTP) cookieName() string {
	if h.CookieName == "" {
		return DefaultCartCookie
	}
	return h.CookieName
}

func (h *CartHTTP) store(ctx context.Context, code string) (*models.MerchantStore, error) {
	if code == "" {
		code = h.DefaultStore
	}
	if code == "" {
		code = models.DefaultStoreCode
	}
	return h.Reference.GetStoreByCode(ctx, code)
}

func (h *CartHTTP) cartCookie(c echo.Context, value string, exp time.Time) *http.Cookie {
	ck := &http.Cookie{
		Name:     h.cookieName(),
		Value:    value,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		ck.MaxAge = -1
	}
	return ck
}

// fail maps a service error onto an HTTP error and logs it at the matching level.
func fail(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func (h *CartHTTP) requestStore(c echo.Context, l *slog.Logger, event string) (*models.MerchantStore, error) {
	store, err := h.store(c.Request().Context(), c.QueryParam("store"))
	if err != nil {
		return nil, fail(l, event, err)
	}
	if store == nil {
		l.Warn(event, "status", http.StatusNotFound, "reason", "unknown store")
		return nil, echo.NewHTTPError(http.StatusNotFound, "store not found")
	}
	return store, nil
}

func (h *CartHTTP) AddShoppingCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.shopping.cart.item")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_item_error", "status", http.StatusBadRequest, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductID < 1 || req.Quantity < 1 {
		l.Warn("add_cart_item_error", "status", http.StatusBadRequest, "reason", "productId and quantity must be positive")
		return echo.NewHTTPError(http.StatusBadRequest, "productId and quantity must be positive")
	}

	store, err := h.requestStore(c, l, "add_cart_item_error")
	if err != nil {
		return err
	}

	var code string
	if ck, err := c.Cookie(h.cookieName()); err == nil {
		code = ck.Value
	}

	cart, err := h.Svc.AddItem(ctx, service.AddItemInput{
		CartCode:     code,
		Store:        store,
		ProductID:    uint(req.ProductID),
		Quantity:     req.Quantity,
		AttributeIDs: req.Attributes,
		CustomerID:   auth.CustomerID(c),
	})
	if err != nil {
		return fail(l, "add_cart_item_error", err)
	}

	c.SetCookie(h.cartCookie(c, cart.Code, time.Now().Add(cartCookieTTL)))
	l.Info("cart item added", "code", cart.Code, "product_id", req.ProductID)
	return c.JSON(http.StatusOK, transport.CartFromModel(cart))
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	store, err := h.requestStore(c, l, "get_cart_error")
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetByCode(ctx, c.Param("code"), store)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	if cart == nil {
		l.Warn("get_cart_error", "status", http.StatusNotFound, "code", c.Param("code"))
		return echo.NewHTTPError(http.StatusNotFound, "cart not found")
	}

	return c.JSON(http.StatusOK, transport.CartFromModel(cart))
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.cart")

	store, err := h.requestStore(c, l, "delete_cart_error")
	if err != nil {
		return err
	}

	code := c.Param("code")
	if err := h.Svc.DeleteByCode(ctx, code, store); err != nil {
		return fail(l, "delete_cart_error", err)
	}

	if ck, err := c.Cookie(h.cookieName()); err == nil && ck.Value == code {
		c.SetCookie(h.cartCookie(c, "", time.Unix(0, 0)))
	}

	l.Info("cart deleted", "code", code)
	return c.NoContent(http.StatusNoContent)
}
