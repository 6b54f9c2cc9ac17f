package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shopcart/internal/models"
)

type AddItemRequest struct {
	ProductID  int64  `json:"productId"`
	Quantity   int    `json:"quantity"`
	Attributes []uint `json:"attributes,omitempty"`
}

type CartItemResponse struct {
	ID         uint            `json:"id"`
	ProductID  uint            `json:"productId"`
	SKU        string          `json:"sku,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Attributes []uint          `json:"attributes,omitempty"`
}

type CartResponse struct {
	ID         uint               `json:"id"`
	Code       string             `json:"code"`
	Store      string             `json:"store,omitempty"`
	CustomerID *uuid.UUID         `json:"customerId,omitempty"`
	Quantity   int                `json:"quantity"`
	Total      decimal.Decimal    `json:"total"`
	Items      []CartItemResponse `json:"items"`
}

func CartFromModel(cart *models.ShoppingCart) CartResponse {
	out := CartResponse{
		ID:         cart.ID,
		Code:       cart.Code,
		CustomerID: cart.CustomerID,
		Total:      decimal.Zero,
		Items:      make([]CartItemResponse, 0, len(cart.LineItems)),
	}
	if cart.MerchantStore != nil {
		out.Store = cart.MerchantStore.Code
	}

	for _, it := range cart.LineItems {
		if it == nil {
			continue
		}
		item := CartItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.ItemPrice,
			Subtotal:  it.ItemPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		}
		if it.Product != nil {
			item.SKU = it.Product.SKU
		}
		for _, a := range it.Attributes {
			if a != nil {
				item.Attributes = append(item.Attributes, a.ProductAttributeID)
			}
		}

		out.Quantity += it.Quantity
		out.Total = out.Total.Add(item.Subtotal)
		out.Items = append(out.Items, item)
	}
	return out
}
