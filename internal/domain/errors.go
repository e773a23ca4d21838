package domain

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartNotFound      = errors.New("cart not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidSignature  = errors.New("invalid payment signature")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOversold          = errors.New("captured payment cannot be fulfilled from stock")
	ErrGateway           = errors.New("payment gateway error")
	ErrMissingField      = errors.New("missing required field")
	ErrInvalidID         = errors.New("invalid id")
)
