package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shopcart/internal/models"
	"github.com/Skotchmaster/shopcart/internal/repo"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func requireStore(store *models.MerchantStore) error {
	if store == nil || store.ID == 0 {
		return fmt.Errorf("store required: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) SaveProduct(ctx context.Context, p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product required: %w", ErrValidation)
	}
	p.SKU = strings.TrimSpace(p.SKU)
	if p.SKU == "" {
		return fmt.Errorf("sku required: %w", ErrValidation)
	}
	if p.MerchantStoreID == 0 {
		return fmt.Errorf("product %q: store required: %w", p.SKU, ErrValidation)
	}
	for _, pr := range p.Prices {
		if pr.Amount.IsNegative() {
			return fmt.Errorf("product %q: negative price: %w", p.SKU, ErrValidation)
		}
	}
	return s.Repo.SaveProduct(ctx, p)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.FindProduct(ctx, id)
}

func (s *CatalogService) GetProductBySKU(ctx context.Context, store *models.MerchantStore, sku string) (*models.Product, error) {
	if err := requireStore(store); err != nil {
		return nil, err
	}
	return s.Repo.FindProductBySKU(ctx, store.ID, sku)
}

func (s *CatalogService) ListProducts(ctx context.Context, store *models.MerchantStore, offset, limit int) (int64, []models.Product, error) {
	if err := requireStore(store); err != nil {
		return 0, nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListProducts(ctx, store.ID, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, c *models.Category) error {
	if c == nil || strings.TrimSpace(c.Code) == "" || c.MerchantStoreID == 0 {
		return fmt.Errorf("category code and store required: %w", ErrValidation)
	}
	return s.Repo.CreateCategory(ctx, c)
}

func (s *CatalogService) GetCategoryByCode(ctx context.Context, store *models.MerchantStore, code string) (*models.Category, error) {
	if err := requireStore(store); err != nil {
		return nil, err
	}
	return s.Repo.FindCategoryByCode(ctx, store.ID, code)
}

func (s *CatalogService) CreateManufacturer(ctx context.Context, m *models.Manufacturer) error {
	if m == nil || strings.TrimSpace(m.Code) == "" || m.MerchantStoreID == 0 {
		return fmt.Errorf("manufacturer code and store required: %w", ErrValidation)
	}
	return s.Repo.CreateManufacturer(ctx, m)
}

func (s *CatalogService) GetManufacturerByCode(ctx context.Context, store *models.MerchantStore, code string) (*models.Manufacturer, error) {
	if err := requireStore(store); err != nil {
		return nil, err
	}
	return s.Repo.FindManufacturerByCode(ctx, store.ID, code)
}

func (s *CatalogService) SaveOption(ctx context.Context, o *models.ProductOption) error {
	if o == nil || strings.TrimSpace(o.Code) == "" || o.MerchantStoreID == 0 {
		return fmt.Errorf("option code and store required: %w", ErrValidation)
	}
	switch o.Type {
	case models.OptionTypeRadio, models.OptionTypeSelect, models.OptionTypeCheckbox, models.OptionTypeText:
	default:
		return fmt.Errorf("option %q: unknown type %q: %w", o.Code, o.Type, ErrValidation)
	}
	return s.Repo.SaveOption(ctx, o)
}

func (s *CatalogService) GetOptionByCode(ctx context.Context, store *models.MerchantStore, code string) (*models.ProductOption, error) {
	if err := requireStore(store); err != nil {
		return nil, err
	}
	return s.Repo.FindOptionByCode(ctx, store.ID, code)
}

func (s *CatalogService) SaveOptionValue(ctx context.Context, v *models.ProductOptionValue) error {
	if v == nil || strings.TrimSpace(v.Code) == "" || v.MerchantStoreID == 0 {
		return fmt.Errorf("option value code and store required: %w", ErrValidation)
	}
	return s.Repo.SaveOptionValue(ctx, v)
}

func (s *CatalogService) GetOptionValueByCode(ctx context.Context, store *models.MerchantStore, code string) (*models.ProductOptionValue, error) {
	if err := requireStore(store); err != nil {
		return nil, err
	}
	return s.Repo.FindOptionValueByCode(ctx, store.ID, code)
}

type ReferenceService struct {
	Repo *repo.GormRepo
}

func (s *ReferenceService) GetStoreByCode(ctx context.Context, code string) (*models.MerchantStore, error) {
	return s.Repo.FindStoreByCode(ctx, code)
}

func (s *ReferenceService) GetLanguageByCode(ctx context.Context, code string) (*models.Language, error) {
	return s.Repo.FindLanguageByCode(ctx, code)
}

// EnsureDefaults seeds the en and fr languages and the store with storeCode.
func (s *ReferenceService) EnsureDefaults(ctx context.Context, storeCode string) (*models.MerchantStore, error) {
	if storeCode == "" {
		storeCode = models.DefaultStoreCode
	}

	en, err := s.Repo.EnsureLanguage(ctx, "en")
	if err != nil {
		return nil, fmt.Errorf("seed language en: %w", err)
	}
	if _, err := s.Repo.EnsureLanguage(ctx, "fr"); err != nil {
		return nil, fmt.Errorf("seed language fr: %w", err)
	}

	store, err := s.Repo.EnsureStore(ctx, &models.MerchantStore{
		Code:              storeCode,
		Name:              "Default store",
		Currency:          "USD",
		DefaultLanguageID: &en.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("seed store %s: %w", storeCode, err)
	}
	return store, nil
}
