package service

import "errors"

var (
	ErrValidation       = errors.New("validation")        // 400
	ErrNotFound         = errors.New("not found")         // 404
	ErrNilLineItem      = errors.New("nil line item")     // 400, always alongside ErrValidation
	ErrPriceUnavailable = errors.New("price unavailable") // product has no price
)
