package repo

import (
	"context"

	"github.com/Skotchmaster/shopcart/internal/models"
)

func (r *GormRepo) FindStoreByCode(ctx context.Context, code string) (*models.MerchantStore, error) {
	return first[models.MerchantStore](r.DB.WithContext(ctx).Preload("DefaultLanguage").Where("code = ?", code))
}

func (r *GormRepo) FindLanguageByCode(ctx context.Context, code string) (*models.Language, error) {
	return first[models.Language](r.DB.WithContext(ctx).Where("code = ?", code))
}

// EnsureLanguage returns the language with code, creating it when missing.
func (r *GormRepo) EnsureLanguage(ctx context.Context, code string) (*models.Language, error) {
	lang := models.Language{Code: code}
	if err := r.DB.WithContext(ctx).Where("code = ?", code).FirstOrCreate(&lang).Error; err != nil {
		return nil, err
	}
	return &lang, nil
}

// EnsureStore returns the store with store.Code, creating it from store when missing.
func (r *GormRepo) EnsureStore(ctx context.Context, store *models.MerchantStore) (*models.MerchantStore, error) {
	out := *store
	if err := r.DB.WithContext(ctx).Omit("DefaultLanguage").Where("code = ?", store.Code).FirstOrCreate(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}
