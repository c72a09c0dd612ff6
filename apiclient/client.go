package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/utils"
)

// Client talks to a central stall-pos server. It serves as catalog source and
// order submitter for terminals running with ORDER_BACKEND=remote; both sides
// must share JWT_SECRET so cashier tokens are accepted upstream.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api responded %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// Login exchanges a username and password for cashier credentials.
func (c *Client) Login(ctx context.Context, username, password string) (pos.Credentials, error) {
	var data struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
			FullName string `json:"full_name"`
		} `json:"user"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &data); err != nil {
		return pos.Credentials{}, err
	}
	return pos.Credentials{
		Cashier: pos.Cashier{ID: data.User.ID, Username: data.User.Username, FullName: data.User.FullName},
		Token:   data.Token,
	}, nil
}

// ActiveProducts fetches the sellable catalog.
func (c *Client) ActiveProducts(ctx context.Context) ([]pos.Product, error) {
	var products []pos.Product
	if err := c.do(ctx, http.MethodGet, "/products?status=active", "", nil, &products); err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return products, nil
}

type orderLine struct {
	ProductID uint     `json:"product_id"`
	Size      string   `json:"size"`
	Toppings  []string `json:"toppings"`
	Quantity  int      `json:"quantity"`
}

type createOrderRequest struct {
	Items            []orderLine     `json:"items"`
	PaymentMethod    string          `json:"payment_method"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	PaymentProvider  string          `json:"payment_provider,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
}

// SubmitOrder posts the order upstream. The server re-prices every line; when
// its total differs the acknowledgement carries the stored order so the
// receipt shows what was persisted.
func (c *Client) SubmitOrder(ctx context.Context, creds pos.Credentials, order pos.Order) (pos.Acknowledgement, error) {
	req := createOrderRequest{
		PaymentMethod:    string(order.PaymentMethod),
		AmountPaid:       order.AmountPaid,
		PaymentProvider:  order.PaymentProvider,
		PaymentReference: order.PaymentReference,
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, orderLine{
			ProductID: item.ProductID,
			Size:      item.Size,
			Toppings:  item.ToppingNames(),
			Quantity:  item.Quantity,
		})
	}

	var created pos.Order
	if err := c.do(ctx, http.MethodPost, "/orders", creds.Token, req, &created); err != nil {
		return pos.Acknowledgement{}, err
	}
	ack := pos.Acknowledgement{ID: created.ID, Number: created.Number, CreatedAt: created.CreatedAt}
	if !created.Total.Equal(order.Total) {
		utils.ErrorLogger.WithField("order", created.Number).
			Warnf("Remote total %s differs from local total %s, using the stored order", created.Total.StringFixed(2), order.Total.StringFixed(2))
		ack.Stored = &created
	}
	return ack, nil
}
