package controllers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
)

// flakySubmitter fails while down is set and otherwise forwards to next.
type flakySubmitter struct {
	mu   sync.Mutex
	down bool
	next pos.OrderSubmitter
}

func (f *flakySubmitter) SubmitOrder(ctx context.Context, creds pos.Credentials, order pos.Order) (pos.Acknowledgement, error) {
	f.mu.Lock()
	down := f.down
	f.mu.Unlock()
	if down {
		return pos.Acknowledgement{}, errors.New("connection refused")
	}
	return f.next.SubmitOrder(ctx, creds, order)
}

func (f *flakySubmitter) setDown(v bool) {
	f.mu.Lock()
	f.down = v
	f.mu.Unlock()
}

func openSession(t *testing.T, s *testServer, token string) pos.SessionView {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/pos/sessions", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view pos.SessionView
	decode(t, env, &view)
	require.NotEmpty(t, view.ID)
	return view
}

func TestPosSessionCheckoutFlow(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	_, token := s.createUser(t, "maria", models.RoleCashier)
	lemonade := s.productID(t, "Lemonade", "Classic")
	fries := s.productID(t, "Fries", "")

	view := openSession(t, s, token)
	base := "/pos/sessions/" + view.ID
	assert.Equal(t, pos.StateIdle, view.CheckoutState)

	w, env := s.do(t, http.MethodGet, base+"/products?category=lemonade", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []pos.Product
	decode(t, env, &products)
	assert.Len(t, products, 2)

	w, _ = s.do(t, http.MethodPost, base+"/checkout", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
		"product_id": lemonade, "size": "Small", "toppings": []string{"Pearl"}, "quantity": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, env = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
		"product_id": fries, "size": "Large",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added struct {
		Item pos.LineItem    `json:"item"`
		Cart pos.SessionView `json:"cart"`
	}
	decode(t, env, &added)
	assert.Equal(t, 1, added.Item.Quantity)
	assert.Equal(t, "205.5", added.Cart.Total.String())

	w, _ = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
		"product_id": fries, "size": "Large", "toppings": []string{"Pearl"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = s.do(t, http.MethodDelete, base+"/items/5", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, qty := range []int{0, -1} {
		w, _ = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
			"product_id": fries, "size": "Regular", "quantity": qty,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "quantity %d", qty)
	}
	w, env = s.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &view)
	assert.Len(t, view.Items, 2)

	w, _ = s.do(t, http.MethodPost, base+"/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{"product_id": fries, "size": "Regular"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/payment", token, map[string]interface{}{"payment_method": "cash", "amount_paid": "200"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = s.do(t, http.MethodPost, base+"/payment", token, map[string]interface{}{
		"payment_method": "cash", "amount_paid": "250", "print": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var paid paymentResponse
	decode(t, env, &paid)
	assert.Equal(t, "44.5", paid.Order.Change.String())
	assert.Equal(t, "maria tester", paid.Order.Cashier)
	assert.Contains(t, paid.Receipt, "ORDER #"+paid.Order.Number)
	assert.True(t, paid.Printed)
	require.Len(t, s.printer.Jobs(), 1)

	var count int64
	require.NoError(t, s.db.Model(&models.Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w, env = s.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &view)
	assert.Empty(t, view.Items)
	assert.Equal(t, pos.StateCompleted, view.CheckoutState)

	w, _ = s.do(t, http.MethodDelete, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPosSessionSubmissionRetry(t *testing.T) {
	flaky := &flakySubmitter{down: true}
	s := newTestServer(t, flaky)
	flaky.next = s.orders
	s.seed(t)
	_, token := s.createUser(t, "maria", models.RoleCashier)
	waffle := s.productID(t, "Waffle", "Plain")

	base := "/pos/sessions/" + openSession(t, s, token).ID
	w, _ := s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{"product_id": waffle, "size": "Regular"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(t, http.MethodPost, base+"/checkout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, base+"/payment", token, map[string]interface{}{"payment_method": "card", "payment_reference": "AUTH-9"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w, env := s.do(t, http.MethodGet, base, token, nil)
	var view pos.SessionView
	decode(t, env, &view)
	assert.Equal(t, pos.StateSubmissionFailed, view.CheckoutState)
	assert.Len(t, view.Items, 1)
	require.NotNil(t, view.PendingOrder)

	flaky.setDown(false)
	w, env = s.do(t, http.MethodPost, base+"/checkout/retry", token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var paid paymentResponse
	decode(t, env, &paid)
	assert.Equal(t, "AUTH-9", paid.Order.PaymentReference)
	assert.False(t, paid.Printed)
	assert.Empty(t, s.printer.Jobs())
}

func TestPosSessionOwnership(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	_, maria := s.createUser(t, "maria", models.RoleCashier)
	_, juan := s.createUser(t, "juan", models.RoleCashier)
	_, boss := s.createUser(t, "boss", models.RoleAdmin)

	id := openSession(t, s, maria).ID

	w, _ := s.do(t, http.MethodGet, "/pos/sessions/"+id, juan, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = s.do(t, http.MethodGet, "/pos/sessions/"+id, boss, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/pos/sessions/missing", maria, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := s.do(t, http.MethodGet, "/pos/sessions", juan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var views []pos.SessionView
	decode(t, env, &views)
	assert.Empty(t, views)

	w, env = s.do(t, http.MethodGet, "/pos/sessions", boss, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &views)
	assert.Len(t, views, 1)
}

func TestPosAddItemQuantity(t *testing.T) {
	s := newTestServer(t, nil)
	s.seed(t)
	_, token := s.createUser(t, "maria", models.RoleCashier)
	lemonade := s.productID(t, "Lemonade", "Classic")
	base := "/pos/sessions/" + openSession(t, s, token).ID

	w, env := s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
		"product_id": lemonade, "size": "Small", "quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Message, "quantity")

	var view pos.SessionView
	w, env = s.do(t, http.MethodGet, base, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &view)
	assert.Empty(t, view.Items)

	// omitted quantity means one
	w, env = s.do(t, http.MethodPost, base+"/items", token, map[string]interface{}{
		"product_id": lemonade, "size": "Small",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var added struct {
		Item pos.LineItem `json:"item"`
	}
	decode(t, env, &added)
	assert.Equal(t, 1, added.Item.Quantity)
	assert.Equal(t, "50", added.Item.Subtotal.String())
}
