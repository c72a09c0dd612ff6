package pos

import (
	"fmt"
)

type CheckoutState string

const (
	StateIdle             CheckoutState = "idle"
	StateAwaitingPayment  CheckoutState = "awaiting_payment"
	StateValidating       CheckoutState = "validating"
	StateSubmitting       CheckoutState = "submitting"
	StateCompleted        CheckoutState = "completed"
	StateSubmissionFailed CheckoutState = "submission_failed"
)

// Checkout drives one payment attempt for a cart:
//
//	idle -> awaiting_payment -> validating -> submitting -> completed
//	                 ^               |             |
//	                 +-- rejected ---+             +-> submission_failed -> (retry) submitting
//
// Cancel returns to idle from awaiting_payment or submission_failed and leaves
// the cart untouched. Completed clears the cart and behaves like idle for the
// next Begin.
type Checkout struct {
	state     CheckoutState
	cart      *Cart
	pending   Order
	lastErr   error
	completed *Order
}

func (co *Checkout) State() CheckoutState {
	if co.state == "" {
		return StateIdle
	}
	return co.state
}

// Locked reports whether the cart must not be edited.
func (co *Checkout) Locked() bool {
	switch co.State() {
	case StateAwaitingPayment, StateValidating, StateSubmitting, StateSubmissionFailed:
		return true
	}
	return false
}

// LastError is the error of the most recent rejected or failed step.
func (co *Checkout) LastError() error {
	return co.lastErr
}

// Pending is the order being submitted, valid in submitting and submission_failed.
func (co *Checkout) Pending() (Order, bool) {
	switch co.State() {
	case StateSubmitting, StateSubmissionFailed:
		return co.pending, true
	}
	return Order{}, false
}

// LastCompleted returns the order finished by the most recent Complete.
func (co *Checkout) LastCompleted() (Order, bool) {
	if co.completed == nil {
		return Order{}, false
	}
	return *co.completed, true
}

// Begin starts a checkout for cart. An empty cart is refused and the state stays idle.
func (co *Checkout) Begin(cart *Cart) error {
	switch co.State() {
	case StateIdle, StateCompleted:
	default:
		return co.invalid("begin")
	}
	if cart == nil || cart.IsEmpty() {
		co.lastErr = ErrEmptyCart
		co.state = StateIdle
		return ErrEmptyCart
	}

	co.cart = cart
	co.pending = Order{}
	co.lastErr = nil
	co.state = StateAwaitingPayment
	return nil
}

// Tender validates p against the cart total. On success the checkout moves to
// submitting and the returned order must be handed to the submitter. On an
// insufficient or malformed payment the checkout goes back to awaiting_payment.
func (co *Checkout) Tender(p Payment, cashier string) (Order, error) {
	if co.State() == StateSubmitting {
		return Order{}, ErrSubmissionInProgress
	}
	if co.State() != StateAwaitingPayment {
		return Order{}, co.invalid("tender")
	}

	co.state = StateValidating
	order, err := NewOrder(co.cart.Items(), p, cashier)
	if err != nil {
		co.lastErr = err
		co.state = StateAwaitingPayment
		return Order{}, err
	}

	co.pending = order
	co.lastErr = nil
	co.state = StateSubmitting
	return order, nil
}

// Retry resubmits the order that previously failed.
func (co *Checkout) Retry() (Order, error) {
	if co.State() == StateSubmitting {
		return Order{}, ErrSubmissionInProgress
	}
	if co.State() != StateSubmissionFailed {
		return Order{}, co.invalid("retry")
	}
	co.lastErr = nil
	co.state = StateSubmitting
	return co.pending, nil
}

// Complete records the acknowledgement, clears the cart and returns the final order.
func (co *Checkout) Complete(ack Acknowledgement) (Order, error) {
	if co.State() != StateSubmitting {
		return Order{}, co.invalid("complete")
	}
	order := ack.Apply(co.pending)
	co.cart.Clear()
	co.completed = &order
	co.pending = Order{}
	co.lastErr = nil
	co.state = StateCompleted
	return order, nil
}

// Fail records a submitter error. The cart is preserved so the cashier can retry.
func (co *Checkout) Fail(cause error) error {
	if co.State() != StateSubmitting {
		return co.invalid("fail")
	}
	err := fmt.Errorf("%w: %v", ErrSubmissionFailed, cause)
	co.lastErr = err
	co.state = StateSubmissionFailed
	return err
}

// Cancel abandons the checkout before submission.
func (co *Checkout) Cancel() error {
	switch co.State() {
	case StateAwaitingPayment, StateSubmissionFailed:
	case StateSubmitting:
		return ErrSubmissionInProgress
	default:
		return co.invalid("cancel")
	}
	co.pending = Order{}
	co.lastErr = nil
	co.state = StateIdle
	return nil
}

func (co *Checkout) invalid(action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, co.State())
}
