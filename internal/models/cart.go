package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ShoppingCart struct {
	ID              uint                `gorm:"primaryKey"                                     json:"id"`
	Code            string              `gorm:"size:36;uniqueIndex:idx_cart_store_code;not null" json:"code"`
	MerchantStoreID uint                `gorm:"uniqueIndex:idx_cart_store_code;not null"       json:"merchant_store_id"`
	MerchantStore   *MerchantStore      `                                                      json:"-"`
	CustomerID      *uuid.UUID          `gorm:"type:uuid;index"                                json:"customer_id,omitempty"`
	Obsolete        bool                `gorm:"not null"                                       json:"obsolete"`
	CreatedAt       time.Time           `                                                      json:"created_at"`
	UpdatedAt       time.Time           `                                                      json:"updated_at"`
	LineItems       []*ShoppingCartItem `gorm:"foreignKey:ShoppingCartID"                      json:"line_items"`
}

type ShoppingCartItem struct {
	ID             uint                         `gorm:"primaryKey"                     json:"id"`
	ShoppingCartID uint                         `gorm:"index;not null"                 json:"shopping_cart_id"`
	ProductID      uint                         `gorm:"not null"                       json:"product_id"`
	Product        *Product                     `                                      json:"-"`
	Quantity       int                          `gorm:"not null;check:quantity>0"      json:"quantity"`
	ItemPrice      decimal.Decimal              `gorm:"type:decimal(19,4);not null"    json:"item_price"`
	Attributes     []*ShoppingCartAttributeItem `gorm:"foreignKey:ShoppingCartItemID"  json:"attributes"`
}

type ShoppingCartAttributeItem struct {
	ID                 uint              `gorm:"primaryKey"      json:"id"`
	ShoppingCartItemID uint              `gorm:"index;not null"  json:"shopping_cart_item_id"`
	ProductAttributeID uint              `gorm:"not null"        json:"product_attribute_id"`
	ProductAttribute   *ProductAttribute `                       json:"-"`
}

func NewShoppingCart(store *MerchantStore, code string) *ShoppingCart {
	return &ShoppingCart{
		Code:            code,
		MerchantStoreID: store.ID,
		MerchantStore:   store,
	}
}

func NewShoppingCartItem(cart *ShoppingCart, product *Product) *ShoppingCartItem {
	return &ShoppingCartItem{
		ShoppingCartID: cart.ID,
		ProductID:      product.ID,
		Product:        product,
	}
}

func NewShoppingCartAttributeItem(item *ShoppingCartItem, attr *ProductAttribute) *ShoppingCartAttributeItem {
	return &ShoppingCartAttributeItem{
		ShoppingCartItemID: item.ID,
		ProductAttributeID: attr.ID,
		ProductAttribute:   attr,
	}
}

func (c *ShoppingCart) AddLineItem(item *ShoppingCartItem) {
	c.LineItems = append(c.LineItems, item)
}

// LineItem returns the line item for productID, if any.
func (c *ShoppingCart) LineItem(productID uint) *ShoppingCartItem {
	for _, it := range c.LineItems {
		if it != nil && it.ProductID == productID {
			return it
		}
	}
	return nil
}

// LineItems indexes line items by product id; a cart holds at most one line item per product.
type LineItems map[uint]*ShoppingCartItem

// Put adds item, merging it into the line item already held for the same product.
// A persisted item keeps its identity and attribute selections while an unsaved one
// supplies the quantity and captured price, in either order. Between two items of the
// same kind the later one's quantity and price win.
func (l LineItems) Put(item *ShoppingCartItem) {
	current, ok := l[item.ProductID]
	switch {
	case !ok || current == item:
		l[item.ProductID] = item
	case current.ID == 0 && item.ID != 0:
		mergeInto(item, current)
		l[item.ProductID] = item
	default:
		mergeInto(current, item)
	}
}

func mergeInto(dst, src *ShoppingCartItem) {
	dst.Quantity = src.Quantity
	if !src.ItemPrice.IsZero() {
		dst.ItemPrice = src.ItemPrice
	}
	if dst.Product == nil {
		dst.Product = src.Product
	}
}

// Items returns the line items ordered by product id.
func (l LineItems) Items() []*ShoppingCartItem {
	out := make([]*ShoppingCartItem, 0, len(l))
	for _, it := range l {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
