package repo

import (
	"context"

	"github.com/Skotchmaster/shopcart/internal/models"
	"gorm.io/gorm"
)

func productQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Descriptions").
		Preload("Categories").
		Preload("Prices").
		Preload("Attributes").
		Preload("Attributes.ProductOption").
		Preload("Attributes.ProductOptionValue").
		Preload("Manufacturer")
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	return first[models.Product](productQuery(r.DB.WithContext(ctx)).Where("id = ?", id))
}

func (r *GormRepo) FindProductBySKU(ctx context.Context, storeID uint, sku string) (*models.Product, error) {
	return first[models.Product](productQuery(r.DB.WithContext(ctx)).
		Where("merchant_store_id = ? AND sku = ?", storeID, sku))
}

func (r *GormRepo) ListProducts(ctx context.Context, storeID uint, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("merchant_store_id = ?", storeID).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := productQuery(r.DB.WithContext(ctx)).
		Where("merchant_store_id = ?", storeID).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) FindCategoryByCode(ctx context.Context, storeID uint, code string) (*models.Category, error) {
	return first[models.Category](r.DB.WithContext(ctx).Preload("Descriptions").
		Where("merchant_store_id = ? AND code = ?", storeID, code))
}

func (r *GormRepo) CreateManufacturer(ctx context.Context, m *models.Manufacturer) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *GormRepo) FindManufacturerByCode(ctx context.Context, storeID uint, code string) (*models.Manufacturer, error) {
	return first[models.Manufacturer](r.DB.WithContext(ctx).Preload("Descriptions").
		Where("merchant_store_id = ? AND code = ?", storeID, code))
}

func (r *GormRepo) SaveOption(ctx context.Context, o *models.ProductOption) error {
	return r.DB.WithContext(ctx).Save(o).Error
}

func (r *GormRepo) FindOptionByCode(ctx context.Context, storeID uint, code string) (*models.ProductOption, error) {
	return first[models.ProductOption](r.DB.WithContext(ctx).Preload("Descriptions").
		Where("merchant_store_id = ? AND code = ?", storeID, code))
}

func (r *GormRepo) SaveOptionValue(ctx context.Context, v *models.ProductOptionValue) error {
	return r.DB.WithContext(ctx).Save(v).Error
}

func (r *GormRepo) FindOptionValueByCode(ctx context.Context, storeID uint, code string) (*models.ProductOptionValue, error) {
	return first[models.ProductOptionValue](r.DB.WithContext(ctx).Preload("Descriptions").
		Where("merchant_store_id = ? AND code = ?", storeID, code))
}
