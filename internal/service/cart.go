package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/shopcart/internal/logging"
	"github.com/Skotchmaster/shopcart/internal/models"
)

type CartRepository interface {
	FindOne(ctx context.Context, id uint) (*models.ShoppingCart, error)
	FindByCode(ctx context.Context, code string, storeID uint) (*models.ShoppingCart, error)
	Save(ctx context.Context, cart *models.ShoppingCart) error
	Delete(ctx context.Context, cart *models.ShoppingCart) error
}

type PriceCalculator interface {
	CalculateProductPriceWithAttributes(product *models.Product, attrs []models.ProductAttribute) (*FinalPrice, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type LookupStatus int

const (
	NotFound LookupStatus = iota
	FoundActive
	FoundEvicted
)

func (s LookupStatus) String() string {
	switch s {
	case FoundActive:
		return "found_active"
	case FoundEvicted:
		return "found_evicted"
	default:
		return "not_found"
	}
}

// LookupResult carries the cart only when Status is FoundActive.
type LookupResult struct {
	Status LookupStatus
	Cart   *models.ShoppingCart
}

type CartService struct {
	Repo     CartRepository
	Pricing  PriceCalculator
	Products ProductLookup
	Events   EventPublisher
	Topic    string
}

// EvictIfObsolete loads the cart with id and deletes it when it is flagged obsolete.
func (s *CartService) EvictIfObsolete(ctx context.Context, id uint) (LookupResult, error) {
	cart, err := s.Repo.FindOne(ctx, id)
	if err != nil {
		return LookupResult{}, err
	}
	return s.evictIfObsolete(ctx, cart)
}

func (s *CartService) evictIfObsolete(ctx context.Context, cart *models.ShoppingCart) (LookupResult, error) {
	if cart == nil {
		return LookupResult{Status: NotFound}, nil
	}
	if !cart.Obsolete {
		return LookupResult{Status: FoundActive, Cart: cart}, nil
	}

	if err := s.Repo.Delete(ctx, cart); err != nil {
		return LookupResult{}, fmt.Errorf("evict obsolete cart %d: %w", cart.ID, err)
	}

	logging.FromContext(ctx).Info("cart_evicted", "cart_id", cart.ID, "code", cart.Code)
	s.publish(ctx, cart.Code, map[string]any{
		"type":   "cart_evicted",
		"cartID": cart.ID,
		"code":   cart.Code,
	})
	return LookupResult{Status: FoundEvicted}, nil
}

func (s *CartService) GetByID(ctx context.Context, id uint) (*models.ShoppingCart, error) {
	res, err := s.EvictIfObsolete(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != FoundActive {
		return nil, nil
	}
	return res.Cart, nil
}

// GetByCode returns the store's cart with code. Missing, obsolete and empty carts are absent.
func (s *CartService) GetByCode(ctx context.Context, code string, store *models.MerchantStore) (*models.ShoppingCart, error) {
	if store == nil {
		return nil, fmt.Errorf("store required: %w", ErrValidation)
	}

	cart, err := s.Repo.FindByCode(ctx, code, store.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.evictIfObsolete(ctx, cart)
	if err != nil {
		return nil, err
	}
	if res.Status != FoundActive || len(res.Cart.LineItems) == 0 {
		return nil, nil
	}
	return res.Cart, nil
}

// SaveOrUpdate validates, prices and merges the cart's line items, then persists the cart.
// A cart without line items is not persisted.
func (s *CartService) SaveOrUpdate(ctx context.Context, cart *models.ShoppingCart) error {
	l := logging.FromContext(ctx).With("svc", "cart.save")

	if cart == nil {
		return fmt.Errorf("cart required: %w", ErrValidation)
	}
	if cart.MerchantStoreID == 0 && cart.MerchantStore != nil {
		cart.MerchantStoreID = cart.MerchantStore.ID
	}
	if err := validateLineItems(cart); err != nil {
		return err
	}
	if len(cart.LineItems) == 0 {
		l.Debug("cart_not_saved", "reason", "no line items", "code", cart.Code)
		return nil
	}
	if cart.MerchantStoreID == 0 {
		return fmt.Errorf("cart %q: store required: %w", cart.Code, ErrValidation)
	}
	if cart.Code == "" {
		cart.Code = uuid.NewString()
	}

	items := models.LineItems{}
	for _, item := range cart.LineItems {
		if err := s.capturePrice(ctx, item); err != nil {
			return err
		}
		items.Put(item)
	}
	cart.LineItems = items.Items()

	if err := s.Repo.Save(ctx, cart); err != nil {
		l.Error("cart_save_error", "code", cart.Code, "error", err)
		return err
	}

	s.publish(ctx, cart.Code, map[string]any{
		"type":    "cart_saved",
		"cartID":  cart.ID,
		"code":    cart.Code,
		"storeID": cart.MerchantStoreID,
		"items":   len(cart.LineItems),
	})
	return nil
}

func validateLineItems(cart *models.ShoppingCart) error {
	for i, item := range cart.LineItems {
		if item == nil {
			return fmt.Errorf("line item %d: %w: %w", i, ErrNilLineItem, ErrValidation)
		}
		if item.ProductID == 0 && item.Product != nil {
			item.ProductID = item.Product.ID
		}

		switch {
		case item.ProductID == 0:
			return fmt.Errorf("line item %d: product required: %w", i, ErrValidation)
		case item.Quantity <= 0:
			return fmt.Errorf("line item %d: quantity must be more than zero: %w", i, ErrValidation)
		case cart.ID != 0 && item.ShoppingCartID != 0 && item.ShoppingCartID != cart.ID:
			return fmt.Errorf("line item %d: belongs to cart %d: %w", i, item.ShoppingCartID, ErrValidation)
		case item.Product != nil && cart.MerchantStoreID != 0 && item.Product.MerchantStoreID != cart.MerchantStoreID:
			return fmt.Errorf("line item %d: product from another store: %w", i, ErrValidation)
		}

		for j, a := range item.Attributes {
			if a == nil {
				return fmt.Errorf("line item %d: attribute %d is nil: %w", i, j, ErrValidation)
			}
		}
	}
	return nil
}

// capturePrice fills the price of a new line item that was added without one.
func (s *CartService) capturePrice(ctx context.Context, item *models.ShoppingCartItem) error {
	if item.ID != 0 || !item.ItemPrice.IsZero() || s.Pricing == nil {
		return nil
	}

	product := item.Product
	if (product == nil || len(product.Prices) == 0) && s.Products != nil {
		p, err := s.Products.GetProduct(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
		}
		product = p
		item.Product = p
	}
	if product == nil {
		return fmt.Errorf("product %d: %w", item.ProductID, ErrNotFound)
	}

	attrs := make([]models.ProductAttribute, 0, len(item.Attributes))
	for _, a := range item.Attributes {
		if a.ProductAttribute != nil {
			attrs = append(attrs, *a.ProductAttribute)
			continue
		}
		if pa, ok := product.Attribute(a.ProductAttributeID); ok {
			attrs = append(attrs, pa)
		}
	}

	price, err := s.Pricing.CalculateProductPriceWithAttributes(product, attrs)
	if err != nil {
		return err
	}
	item.ItemPrice = price.FinalPrice
	return nil
}

// Delete removes the cart and everything it owns. A nil cart is a no-op.
func (s *CartService) Delete(ctx context.Context, cart *models.ShoppingCart) error {
	if cart == nil {
		return nil
	}
	if err := s.Repo.Delete(ctx, cart); err != nil {
		return err
	}

	s.publish(ctx, cart.Code, map[string]any{
		"type":    "cart_deleted",
		"cartID":  cart.ID,
		"code":    cart.Code,
		"storeID": cart.MerchantStoreID,
	})
	return nil
}

// DeleteByCode removes the store's cart with code, if there is one.
func (s *CartService) DeleteByCode(ctx context.Context, code string, store *models.MerchantStore) error {
	if store == nil {
		return fmt.Errorf("store required: %w", ErrValidation)
	}
	cart, err := s.Repo.FindByCode(ctx, code, store.ID)
	if err != nil {
		return err
	}
	return s.Delete(ctx, cart)
}

func (s *CartService) RemoveShoppingCart(ctx context.Context, cart *models.ShoppingCart) error {
	return s.Delete(ctx, cart)
}

type AddItemInput struct {
	CartCode     string
	Store        *models.MerchantStore
	ProductID    uint
	Quantity     int
	AttributeIDs []uint
	CustomerID   *uuid.UUID
}

// AddItem puts a product into the cart identified by CartCode, creating the cart when
// it does not exist. Adding a product already in the cart raises its quantity.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (*models.ShoppingCart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add_item", "product_id", in.ProductID)

	switch {
	case in.Store == nil:
		return nil, fmt.Errorf("store required: %w", ErrValidation)
	case in.ProductID == 0:
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	case in.Quantity <= 0:
		return nil, fmt.Errorf("quantity must be more than zero: %w", ErrValidation)
	}

	product, err := s.Products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.MerchantStoreID != in.Store.ID {
		return nil, fmt.Errorf("product %d: %w", in.ProductID, ErrNotFound)
	}
	if !product.Available {
		return nil, fmt.Errorf("product %d is not available: %w", in.ProductID, ErrValidation)
	}

	attrs := make([]models.ProductAttribute, 0, len(in.AttributeIDs))
	for _, id := range in.AttributeIDs {
		a, ok := product.Attribute(id)
		if !ok {
			return nil, fmt.Errorf("attribute %d not offered by product %d: %w", id, product.ID, ErrValidation)
		}
		attrs = append(attrs, a)
	}

	var cart *models.ShoppingCart
	if in.CartCode != "" {
		if cart, err = s.GetByCode(ctx, in.CartCode, in.Store); err != nil {
			return nil, err
		}
	}
	if cart == nil {
		cart = models.NewShoppingCart(in.Store, uuid.NewString())
		l.Info("cart_created", "code", cart.Code)
	}
	if cart.CustomerID == nil {
		cart.CustomerID = in.CustomerID
	}

	// a line item keeps the attributes it was first added with
	existing := cart.LineItem(product.ID)
	if existing != nil {
		attrs = attrs[:0]
		for _, a := range existing.Attributes {
			if pa, ok := product.Attribute(a.ProductAttributeID); ok {
				attrs = append(attrs, pa)
			}
		}
	}

	price, err := s.Pricing.CalculateProductPriceWithAttributes(product, attrs)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Quantity += in.Quantity
		existing.ItemPrice = price.FinalPrice
	} else {
		item := models.NewShoppingCartItem(cart, product)
		item.Quantity = in.Quantity
		item.ItemPrice = price.FinalPrice
		for i := range attrs {
			item.Attributes = append(item.Attributes, models.NewShoppingCartAttributeItem(item, &attrs[i]))
		}
		cart.AddLineItem(item)
	}

	if err := s.SaveOrUpdate(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(ctx, s.Topic, key, event); err != nil {
		logging.FromContext(ctx).Error("cart_event_publish_error", "type", event["type"], "error", err)
	}
}
