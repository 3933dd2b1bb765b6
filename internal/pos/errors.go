package pos

import "errors"

var (
	// ErrInsufficientStock is returned when a cart line would exceed on-hand stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrLineNotFound is returned when adjusting a product that is not in the cart.
	ErrLineNotFound = errors.New("product not in cart")
	// ErrInvalidTransition is returned for a status change outside the lifecycle table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrUnknownStatus is returned when parsing a status string that is not known.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrEmptyCart is returned when submitting an order without lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidAmount is returned for negative money or non-positive quantities.
	ErrInvalidAmount = errors.New("invalid amount")
)
