package errors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrOverConsumption        = errors.New("consume exceeds reserved quantity")
	ErrInvalidIngredient      = errors.New("ingredient not sold by marketplace")
	ErrMarketplaceUnavailable = errors.New("marketplace unavailable")
	ErrTerminalStatus         = errors.New("order is in a terminal status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrInvalidStatus          = errors.New("unknown order status")
	ErrInvalidQuantity        = errors.New("invalid quantity")
)
