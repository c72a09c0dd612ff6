package pos

import "errors"

var (
	// ErrInvalidInput covers malformed pricing or cart arguments (missing size, bad quantity).
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyCart is returned when checkout is requested for a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientPayment is returned when cash tendered is less than the order total.
	ErrInsufficientPayment = errors.New("insufficient payment amount")
	// ErrIndexOutOfRange is returned when removing a cart line that does not exist.
	ErrIndexOutOfRange = errors.New("cart index out of range")
	// ErrSubmissionFailed wraps any error reported by the order submitter.
	ErrSubmissionFailed = errors.New("order submission failed")

	ErrInvalidTransition    = errors.New("invalid checkout transition")
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrCheckoutInProgress   = errors.New("cart is locked by an active checkout")
	ErrProductNotFound      = errors.New("product not found")
)
