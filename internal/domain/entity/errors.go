package entity

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrLineNotFound     = errors.New("line item not found in cart")
	ErrCurrencyMismatch = errors.New("currency differs from cart currency")
)
