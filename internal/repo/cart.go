package repo

import (
	"context"

	"github.com/Skotchmaster/shopcart/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func cartQuery(db *gorm.DB) *gorm.DB {
	return db.
		Preload("MerchantStore").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("LineItems.Product").
		Preload("LineItems.Product.Prices").
		Preload("LineItems.Product.Attributes").
		Preload("LineItems.Attributes").
		Preload("LineItems.Attributes.ProductAttribute")
}

func (r *GormRepo) FindOne(ctx context.Context, id uint) (*models.ShoppingCart, error) {
	return first[models.ShoppingCart](cartQuery(r.DB.WithContext(ctx)).Where("id = ?", id))
}

func (r *GormRepo) FindByCode(ctx context.Context, code string, storeID uint) (*models.ShoppingCart, error) {
	return first[models.ShoppingCart](cartQuery(r.DB.WithContext(ctx)).
		Where("code = ? AND merchant_store_id = ?", code, storeID))
}

// Save writes the cart and its line items in one transaction. Line items and
// attribute selections no longer referenced by the cart are removed.
func (r *GormRepo) Save(ctx context.Context, cart *models.ShoppingCart) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(cart).Error; err != nil {
			return err
		}

		keep := make([]uint, 0, len(cart.LineItems))
		for _, item := range cart.LineItems {
			item.ShoppingCartID = cart.ID
			if item.ProductID == 0 && item.Product != nil {
				item.ProductID = item.Product.ID
			}
			if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
				return err
			}
			if err := saveAttributeItems(tx, item); err != nil {
				return err
			}
			keep = append(keep, item.ID)
		}

		stale := tx.Model(&models.ShoppingCartItem{}).Where("shopping_cart_id = ?", cart.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		var staleIDs []uint
		if err := stale.Pluck("id", &staleIDs).Error; err != nil {
			return err
		}
		return deleteItems(tx, staleIDs)
	})
}

func saveAttributeItems(tx *gorm.DB, item *models.ShoppingCartItem) error {
	keep := make([]uint, 0, len(item.Attributes))
	for _, a := range item.Attributes {
		if a == nil {
			continue
		}
		a.ShoppingCartItemID = item.ID
		if a.ProductAttributeID == 0 && a.ProductAttribute != nil {
			a.ProductAttributeID = a.ProductAttribute.ID
		}
		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return err
		}
		keep = append(keep, a.ID)
	}

	q := tx.Where("shopping_cart_item_id = ?", item.ID)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	return q.Delete(&models.ShoppingCartAttributeItem{}).Error
}

func deleteItems(tx *gorm.DB, itemIDs []uint) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if err := tx.Where("shopping_cart_item_id IN ?", itemIDs).Delete(&models.ShoppingCartAttributeItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", itemIDs).Delete(&models.ShoppingCartItem{}).Error
}

// Delete removes the cart with its line items and attribute selections.
// Deleting a cart that is not stored is not an error.
func (r *GormRepo) Delete(ctx context.Context, cart *models.ShoppingCart) error {
	if cart == nil || cart.ID == 0 {
		return nil
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []uint
		if err := tx.Model(&models.ShoppingCartItem{}).
			Where("shopping_cart_id = ?", cart.ID).
			Pluck("id", &itemIDs).Error; err != nil {
			return err
		}
		if err := deleteItems(tx, itemIDs); err != nil {
			return err
		}
		return tx.Where("id = ?", cart.ID).Delete(&models.ShoppingCart{}).Error
	})
}
