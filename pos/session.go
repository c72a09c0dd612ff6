package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Session is one cashier's register: a read-only catalog snapshot, the cart
// being assembled and the checkout attempt for it. All methods are safe for
// concurrent use; at most one order submission runs at a time.
type Session struct {
	ID        string
	Cashier   Cashier
	StartedAt time.Time

	token    string
	catalog  []Product
	byID     map[uint]Product
	mu       sync.Mutex
	cart     Cart
	checkout Checkout
}

// NewSession snapshots catalog for the lifetime of the session.
func NewSession(id string, creds Credentials, catalog []Product, startedAt time.Time) *Session {
	snapshot := make([]Product, len(catalog))
	copy(snapshot, catalog)

	byID := make(map[uint]Product, len(snapshot))
	for _, p := range snapshot {
		byID[p.ID] = p
	}

	return &Session{
		ID:        id,
		Cashier:   creds.Cashier,
		StartedAt: startedAt,
		token:     creds.Token,
		catalog:   snapshot,
		byID:      byID,
	}
}

// Credentials returns what collaborators need to act for this cashier.
func (s *Session) Credentials() Credentials {
	return Credentials{Cashier: s.Cashier, Token: s.token}
}

// Products filters the catalog snapshot.
func (s *Session) Products(category, query string) []Product {
	return FilterProducts(s.catalog, category, query)
}

// Product looks up a catalog entry by id.
func (s *Session) Product(id uint) (Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	return p, nil
}

// AddItem adds a variant of a catalog product to the cart. Toppings are given
// by name and priced from the catalog.
func (s *Session) AddItem(productID uint, sizeLabel string, toppingNames []string, quantity int) (LineItem, error) {
	product, err := s.Product(productID)
	if err != nil {
		return LineItem{}, err
	}
	toppings := make([]Topping, len(toppingNames))
	for i, name := range toppingNames {
		toppings[i] = Topping{Name: name}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.Locked() {
		return LineItem{}, ErrCheckoutInProgress
	}
	return s.cart.AddItem(product, Size{Label: sizeLabel}, toppings, quantity)
}

func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.Locked() {
		return ErrCheckoutInProgress
	}
	return s.cart.RemoveItem(index)
}

func (s *Session) ClearCart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkout.Locked() {
		return ErrCheckoutInProgress
	}
	s.cart.Clear()
	return nil
}

// BeginCheckout moves the session to awaiting payment.
func (s *Session) BeginCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Begin(&s.cart)
}

// Pay validates the payment and submits the resulting order. The submitter
// runs without holding the session lock; concurrent calls observe the
// submitting state and fail with ErrSubmissionInProgress.
func (s *Session) Pay(ctx context.Context, p Payment, submitter OrderSubmitter) (Order, error) {
	s.mu.Lock()
	order, err := s.checkout.Tender(p, s.Cashier.DisplayName())
	s.mu.Unlock()
	if err != nil {
		return Order{}, err
	}
	return s.submit(ctx, order, submitter)
}

// RetrySubmission resends the order after a submission failure.
func (s *Session) RetrySubmission(ctx context.Context, submitter OrderSubmitter) (Order, error) {
	s.mu.Lock()
	order, err := s.checkout.Retry()
	s.mu.Unlock()
	if err != nil {
		return Order{}, err
	}
	return s.submit(ctx, order, submitter)
}

func (s *Session) submit(ctx context.Context, order Order, submitter OrderSubmitter) (Order, error) {
	ack, subErr := submitter.SubmitOrder(ctx, s.Credentials(), order)

	s.mu.Lock()
	defer s.mu.Unlock()
	if subErr != nil {
		return Order{}, s.checkout.Fail(subErr)
	}
	return s.checkout.Complete(ack)
}

func (s *Session) CancelCheckout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Cancel()
}

// SessionView is a point-in-time copy of the session for display.
type SessionView struct {
	ID            string          `json:"id"`
	Cashier       Cashier         `json:"cashier"`
	StartedAt     time.Time       `json:"started_at"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CheckoutState CheckoutState   `json:"checkout_state"`
	LastError     string          `json:"last_error,omitempty"`
	PendingOrder  *Order          `json:"pending_order,omitempty"`
	LastOrder     *Order          `json:"last_order,omitempty"`
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := SessionView{
		ID:            s.ID,
		Cashier:       s.Cashier,
		StartedAt:     s.StartedAt,
		Items:         s.cart.Items(),
		Total:         s.cart.Total(),
		CheckoutState: s.checkout.State(),
	}
	if err := s.checkout.LastError(); err != nil {
		view.LastError = err.Error()
	}
	if pending, ok := s.checkout.Pending(); ok {
		view.PendingOrder = &pending
	}
	if last, ok := s.checkout.LastCompleted(); ok {
		view.LastOrder = &last
	}
	return view
}
