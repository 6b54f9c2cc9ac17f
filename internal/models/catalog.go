package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OptionTypeRadio    = "Radio"
	OptionTypeSelect   = "Select"
	OptionTypeCheckbox = "Checkbox"
	OptionTypeText     = "Text"
)

type Category struct {
	ID              uint                  `gorm:"primaryKey"                                          json:"id"`
	MerchantStoreID uint                  `gorm:"uniqueIndex:idx_category_store_code;not null"        json:"merchant_store_id"`
	Code            string                `gorm:"size:100;uniqueIndex:idx_category_store_code;not null" json:"code"`
	Descriptions    []CategoryDescription `gorm:"constraint:OnDelete:CASCADE;"                        json:"descriptions"`
}

type CategoryDescription struct {
	ID         uint   `gorm:"primaryKey"      json:"id"`
	CategoryID uint   `gorm:"index;not null"  json:"category_id"`
	LanguageID uint   `gorm:"not null"        json:"language_id"`
	Name       string `gorm:"not null"        json:"name"`
}

type Manufacturer struct {
	ID              uint                      `gorm:"primaryKey"                                              json:"id"`
	MerchantStoreID uint                      `gorm:"uniqueIndex:idx_manufacturer_store_code;not null"        json:"merchant_store_id"`
	Code            string                    `gorm:"size:100;uniqueIndex:idx_manufacturer_store_code;not null" json:"code"`
	Descriptions    []ManufacturerDescription `gorm:"constraint:OnDelete:CASCADE;"                            json:"descriptions"`
}

type ManufacturerDescription struct {
	ID             uint   `gorm:"primaryKey"      json:"id"`
	ManufacturerID uint   `gorm:"index;not null"  json:"manufacturer_id"`
	LanguageID     uint   `gorm:"not null"        json:"language_id"`
	Name           string `gorm:"not null"        json:"name"`
}

type ProductOption struct {
	ID              uint                       `gorm:"primaryKey"                                        json:"id"`
	MerchantStoreID uint                       `gorm:"uniqueIndex:idx_option_store_code;not null"        json:"merchant_store_id"`
	Code            string                     `gorm:"size:100;uniqueIndex:idx_option_store_code;not null" json:"code"`
	Type            string                     `gorm:"size:20;not null"                                  json:"type"`
	Descriptions    []ProductOptionDescription `gorm:"constraint:OnDelete:CASCADE;"                      json:"descriptions"`
}

type ProductOptionDescription struct {
	ID              uint   `gorm:"primaryKey"      json:"id"`
	ProductOptionID uint   `gorm:"index;not null"  json:"product_option_id"`
	LanguageID      uint   `gorm:"not null"        json:"language_id"`
	Name            string `gorm:"not null"        json:"name"`
	Description     string `                       json:"description"`
}

type ProductOptionValue struct {
	ID              uint                            `gorm:"primaryKey"                                             json:"id"`
	MerchantStoreID uint                            `gorm:"uniqueIndex:idx_option_value_store_code;not null"       json:"merchant_store_id"`
	Code            string                          `gorm:"size:100;uniqueIndex:idx_option_value_store_code;not null" json:"code"`
	Descriptions    []ProductOptionValueDescription `gorm:"constraint:OnDelete:CASCADE;"                           json:"descriptions"`
}

type ProductOptionValueDescription struct {
	ID                   uint   `gorm:"primaryKey"      json:"id"`
	ProductOptionValueID uint   `gorm:"index;not null"  json:"product_option_value_id"`
	LanguageID           uint   `gorm:"not null"        json:"language_id"`
	Name                 string `gorm:"not null"        json:"name"`
	Description          string `                       json:"description"`
}

type Product struct {
	ID              uint                 `gorm:"primaryKey"                                         json:"id"`
	MerchantStoreID uint                 `gorm:"uniqueIndex:idx_product_store_sku;not null"         json:"merchant_store_id"`
	SKU             string               `gorm:"size:100;uniqueIndex:idx_product_store_sku;not null" json:"sku"`
	Available       bool                 `gorm:"not null"                                           json:"available"`
	ManufacturerID  *uint                `                                                          json:"manufacturer_id,omitempty"`
	Manufacturer    *Manufacturer        `                                                          json:"-"`
	Descriptions    []ProductDescription `gorm:"constraint:OnDelete:CASCADE;"                       json:"descriptions"`
	Categories      []Category           `gorm:"many2many:product_categories;"                      json:"categories,omitempty"`
	Prices          []ProductPrice       `gorm:"constraint:OnDelete:CASCADE;"                       json:"prices"`
	Attributes      []ProductAttribute   `gorm:"constraint:OnDelete:CASCADE;"                       json:"attributes"`
}

type ProductDescription struct {
	ID         uint   `gorm:"primaryKey"      json:"id"`
	ProductID  uint   `gorm:"index;not null"  json:"product_id"`
	LanguageID uint   `gorm:"not null"        json:"language_id"`
	Name       string `gorm:"not null"        json:"name"`
}

type ProductPrice struct {
	ID            uint                `gorm:"primaryKey"                   json:"id"`
	ProductID     uint                `gorm:"index;not null"               json:"product_id"`
	Default       bool                `gorm:"not null"                     json:"default"`
	Amount        decimal.Decimal     `gorm:"type:decimal(19,4);not null"  json:"amount"`
	SpecialAmount decimal.NullDecimal `gorm:"type:decimal(19,4)"           json:"special_amount"`
	SpecialStart  *time.Time          `                                    json:"special_start,omitempty"`
	SpecialEnd    *time.Time          `                                    json:"special_end,omitempty"`
}

// SpecialActive reports whether the special amount applies at t. Open ends are unbounded.
func (p ProductPrice) SpecialActive(t time.Time) bool {
	if !p.SpecialAmount.Valid {
		return false
	}
	if p.SpecialStart != nil && t.Before(*p.SpecialStart) {
		return false
	}
	if p.SpecialEnd != nil && t.After(*p.SpecialEnd) {
		return false
	}
	return true
}

type ProductAttribute struct {
	ID                   uint                `gorm:"primaryKey"                   json:"id"`
	ProductID            uint                `gorm:"index;not null"               json:"product_id"`
	ProductOptionID      uint                `gorm:"not null"                     json:"product_option_id"`
	ProductOption        *ProductOption      `                                    json:"-"`
	ProductOptionValueID uint                `gorm:"not null"                     json:"product_option_value_id"`
	ProductOptionValue   *ProductOptionValue `                                    json:"-"`
	AttributePrice       decimal.Decimal     `gorm:"type:decimal(19,4);not null"  json:"attribute_price"`
	AttributeDefault     bool                `gorm:"not null"                     json:"attribute_default"`
}

// DefaultPrice returns the price flagged default, or the first price when none is.
func (p *Product) DefaultPrice() (ProductPrice, bool) {
	if len(p.Prices) == 0 {
		return ProductPrice{}, false
	}
	for _, pr := range p.Prices {
		if pr.Default {
			return pr, true
		}
	}
	return p.Prices[0], true
}

func (p *Product) DefaultAttributes() []ProductAttribute {
	var out []ProductAttribute
	for _, a := range p.Attributes {
		if a.AttributeDefault {
			out = append(out, a)
		}
	}
	return out
}

func (p *Product) Attribute(id uint) (ProductAttribute, bool) {
	for _, a := range p.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return ProductAttribute{}, false
}
