package models

const DefaultStoreCode = "DEFAULT"

type Language struct {
	ID   uint   `gorm:"primaryKey"                     json:"id"`
	Code string `gorm:"size:5;uniqueIndex;not null"    json:"code"`
}

type MerchantStore struct {
	ID                uint      `gorm:"primaryKey"                     json:"id"`
	Code              string    `gorm:"size:100;uniqueIndex;not null"  json:"code"`
	Name              string    `gorm:"not null"                       json:"name"`
	Currency          string    `gorm:"size:3;not null"                json:"currency"`
	DefaultLanguageID *uint     `                                      json:"default_language_id,omitempty"`
	DefaultLanguage   *Language `                                      json:"-"`
}

// All lists every model the service migrates.
func All() []any {
	return []any{
		&Language{},
		&MerchantStore{},
		&Category{},
		&CategoryDescription{},
		&Manufacturer{},
		&ManufacturerDescription{},
		&ProductOption{},
		&ProductOptionDescription{},
		&ProductOptionValue{},
		&ProductOptionValueDescription{},
		&Product{},
		&ProductDescription{},
		&ProductPrice{},
		&ProductAttribute{},
		&ShoppingCart{},
		&ShoppingCartItem{},
		&ShoppingCartAttributeItem{},
	}
}
