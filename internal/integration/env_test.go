package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shopcart/internal/db"
	"github.com/Skotchmaster/shopcart/internal/httpserver"
	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
	"github.com/Skotchmaster/shopcart/internal/service"
)

var jwtSecret = []byte("test-jwt-secret")

type recorder struct {
	mu     sync.Mutex
	events []map[string]any
}

func (r *recorder) PublishEvent(_ context.Context, _, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := event.(map[string]any); ok {
		r.events = append(r.events, m)
	}
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e["type"].(string))
	}
	return out
}

type testEnv struct {
	T         *testing.T
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Cart      *service.CartService
	Catalog   *service.CatalogService
	Reference *service.ReferenceService
	Events    *recorder
	E         *echo.Echo

	Store    *models.MerchantStore
	Products map[string]*models.Product
	White    map[string]models.ProductAttribute
	Black    map[string]models.ProductAttribute
}

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.Migrate(ctx, gdb), "failed to migrate tables")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := InitTestDB(t)
	r := &repo.GormRepo{DB: gdb}
	catalog := &service.CatalogService{Repo: r}
	events := &recorder{}

	env := &testEnv{
		T:         t,
		DB:        gdb,
		Repo:      r,
		Catalog:   catalog,
		Reference: &service.ReferenceService{Repo: r},
		Events:    events,
		Products:  map[string]*models.Product{},
		White:     map[string]models.ProductAttribute{},
		Black:     map[string]models.ProductAttribute{},
	}
	env.Cart = &service.CartService{
		Repo:     r,
		Pricing:  &service.PricingService{},
		Products: catalog,
		Events:   events,
		Topic:    "cart_events",
	}
	env.seed()

	env.E = echo.New()
	httpserver.Register(env.E, &httpserver.Deps{
		DB: gdb,
		CartHandler: &httpserver.CartHTTP{
			Svc:          env.Cart,
			Reference:    env.Reference,
			DefaultStore: models.DefaultStoreCode,
			CookieName:   httpserver.DefaultCartCookie,
		},
		JWTSecret: jwtSecret,
	})
	return env
}

// seed creates the default store, a category, a manufacturer, a color option
// and two books priced 29.99 offered in white (default) or black (+5).
func (env *testEnv) seed() {
	t := env.T
	ctx := context.Background()

	store, err := env.Reference.EnsureDefaults(ctx, models.DefaultStoreCode)
	require.NoError(t, err)
	env.Store = store

	en, err := env.Reference.GetLanguageByCode(ctx, "en")
	require.NoError(t, err)
	require.NotNil(t, en)

	book := &models.Category{MerchantStoreID: store.ID, Code: "computerbooks",
		Descriptions: []models.CategoryDescription{{LanguageID: en.ID, Name: "Computer Books"}}}
	require.NoError(t, env.Catalog.CreateCategory(ctx, book))

	oreilley := &models.Manufacturer{MerchantStoreID: store.ID, Code: "oreilley",
		Descriptions: []models.ManufacturerDescription{{LanguageID: en.ID, Name: "O'Reilley"}}}
	require.NoError(t, env.Catalog.CreateManufacturer(ctx, oreilley))

	color := &models.ProductOption{MerchantStoreID: store.ID, Code: "color", Type: models.OptionTypeRadio,
		Descriptions: []models.ProductOptionDescription{{LanguageID: en.ID, Name: "Color"}}}
	require.NoError(t, env.Catalog.SaveOption(ctx, color))

	white := &models.ProductOptionValue{MerchantStoreID: store.ID, Code: "white",
		Descriptions: []models.ProductOptionValueDescription{{LanguageID: en.ID, Name: "White"}}}
	require.NoError(t, env.Catalog.SaveOptionValue(ctx, white))
	black := &models.ProductOptionValue{MerchantStoreID: store.ID, Code: "black",
		Descriptions: []models.ProductOptionValueDescription{{LanguageID: en.ID, Name: "Black"}}}
	require.NoError(t, env.Catalog.SaveOptionValue(ctx, black))

	for _, sku := range []string{"TB12345", "TC12345"} {
		p := &models.Product{
			MerchantStoreID: store.ID,
			SKU:             sku,
			Available:       true,
			ManufacturerID:  &oreilley.ID,
			Categories:      []models.Category{*book},
			Descriptions:    []models.ProductDescription{{LanguageID: en.ID, Name: "Spring in Action " + sku}},
			Prices:          []models.ProductPrice{{Default: true, Amount: decimal.RequireFromString("29.99")}},
			Attributes: []models.ProductAttribute{
				{ProductOptionID: color.ID, ProductOptionValueID: white.ID, AttributePrice: decimal.Zero, AttributeDefault: true},
				{ProductOptionID: color.ID, ProductOptionValueID: black.ID, AttributePrice: decimal.NewFromInt(5)},
			},
		}
		require.NoError(t, env.Catalog.SaveProduct(ctx, p))

		loaded, err := env.Catalog.GetProduct(ctx, p.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		env.Products[sku] = loaded
		for _, a := range loaded.Attributes {
			if a.ProductOptionValueID == white.ID {
				env.White[sku] = a
			} else {
				env.Black[sku] = a
			}
		}
	}
}

// newItem builds an unsaved line item for sku with the white attribute selected.
func (env *testEnv) newItem(cart *models.ShoppingCart, sku string, qty int) *models.ShoppingCartItem {
	p := env.Products[sku]
	item := models.NewShoppingCartItem(cart, p)
	item.Quantity = qty
	white := env.White[sku]
	item.Attributes = append(item.Attributes, models.NewShoppingCartAttributeItem(item, &white))
	return item
}

func (env *testEnv) count(model any) int64 {
	var n int64
	require.NoError(env.T, env.DB.Model(model).Count(&n).Error)
	return n
}

func (env *testEnv) doJSONRequest(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		if ck != nil {
			req.AddCookie(ck)
		}
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func cookieFrom(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
