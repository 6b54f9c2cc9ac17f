package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/service"
)

func TestReferenceDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	store, err := env.Reference.GetStoreByCode(ctx, models.DefaultStoreCode)
	require.NoError(t, err)
	require.NotNil(t, store)
	require.NotNil(t, store.DefaultLanguage)
	assert.Equal(t, "en", store.DefaultLanguage.Code)

	fr, err := env.Reference.GetLanguageByCode(ctx, "fr")
	require.NoError(t, err)
	assert.NotNil(t, fr)

	again, err := env.Reference.EnsureDefaults(ctx, models.DefaultStoreCode)
	require.NoError(t, err)
	assert.Equal(t, store.ID, again.ID)
	assert.EqualValues(t, 1, env.count(&models.MerchantStore{}))
	assert.EqualValues(t, 2, env.count(&models.Language{}))

	missing, err := env.Reference.GetStoreByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogLookups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.Catalog.GetProductBySKU(ctx, env.Store, "TB12345")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Len(t, p.Prices, 1)
	assert.Len(t, p.Attributes, 2)
	assert.Len(t, p.Categories, 1)
	require.NotNil(t, p.Manufacturer)
	assert.Equal(t, "oreilley", p.Manufacturer.Code)
	require.Len(t, p.Descriptions, 1)

	total, items, err := env.Catalog.ListProducts(ctx, env.Store, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "TB12345", items[0].SKU)

	cat, err := env.Catalog.GetCategoryByCode(ctx, env.Store, "computerbooks")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Len(t, cat.Descriptions, 1)

	m, err := env.Catalog.GetManufacturerByCode(ctx, env.Store, "oreilley")
	require.NoError(t, err)
	assert.NotNil(t, m)

	o, err := env.Catalog.GetOptionByCode(ctx, env.Store, "color")
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, models.OptionTypeRadio, o.Type)

	v, err := env.Catalog.GetOptionValueByCode(ctx, env.Store, "black")
	require.NoError(t, err)
	assert.NotNil(t, v)

	none, err := env.Catalog.GetProduct(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCatalogValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	assert.ErrorIs(t, env.Catalog.SaveProduct(ctx, &models.Product{MerchantStoreID: env.Store.ID}), service.ErrValidation)
	assert.ErrorIs(t, env.Catalog.SaveProduct(ctx, &models.Product{SKU: "X1"}), service.ErrValidation)
	assert.ErrorIs(t, env.Catalog.CreateCategory(ctx, &models.Category{MerchantStoreID: env.Store.ID}), service.ErrValidation)
	assert.ErrorIs(t, env.Catalog.SaveOption(ctx,
		&models.ProductOption{MerchantStoreID: env.Store.ID, Code: "size", Type: "Slider"}), service.ErrValidation)

	_, err := env.Catalog.GetProductBySKU(ctx, nil, "TB12345")
	assert.ErrorIs(t, err, service.ErrValidation)

	dup := &models.Product{MerchantStoreID: env.Store.ID, SKU: "TB12345"}
	assert.Error(t, env.Catalog.SaveProduct(ctx, dup))
}
