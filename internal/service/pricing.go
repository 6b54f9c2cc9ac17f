package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shopcart/internal/models"
)

type FinalPrice struct {
	OriginalPrice decimal.Decimal `json:"original_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Discounted    bool            `json:"discounted"`
}

type PricingService struct {
	Now func() time.Time
}

func (s *PricingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CalculateProductPrice prices the product with its default attributes.
func (s *PricingService) CalculateProductPrice(product *models.Product) (*FinalPrice, error) {
	return s.CalculateProductPriceWithAttributes(product, nil)
}

// CalculateProductPriceWithAttributes prices the product with the selected attributes.
// With no selection the product's default attributes are used.
func (s *PricingService) CalculateProductPriceWithAttributes(product *models.Product, attrs []models.ProductAttribute) (*FinalPrice, error) {
	if product == nil {
		return nil, fmt.Errorf("product required: %w", ErrValidation)
	}
	price, ok := product.DefaultPrice()
	if !ok {
		return nil, fmt.Errorf("product %q: %w", product.SKU, ErrPriceUnavailable)
	}

	base := price.Amount
	final := base
	discounted := false
	if price.SpecialActive(s.now()) && price.SpecialAmount.Decimal.LessThan(base) {
		final = price.SpecialAmount.Decimal
		discounted = true
	}

	if len(attrs) == 0 {
		attrs = product.DefaultAttributes()
	}
	adjust := decimal.Zero
	for _, a := range attrs {
		adjust = adjust.Add(a.AttributePrice)
	}

	return &FinalPrice{
		OriginalPrice: base.Add(adjust),
		FinalPrice:    final.Add(adjust),
		Discounted:    discounted,
	}, nil
}
