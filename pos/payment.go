package pos

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodCard    PaymentMethod = "card"
	MethodEWallet PaymentMethod = "e-wallet"
)

// Payment is one of Cash, Card or EWallet.
type Payment interface {
	Method() PaymentMethod
	isPayment()
}

// Cash is money tendered at the counter. Only cash payments produce change.
type Cash struct {
	AmountPaid decimal.Decimal
}

// Card is a card payment settled on the terminal.
type Card struct {
	Reference string
}

// EWallet is a wallet transfer such as GCash or Maya.
type EWallet struct {
	Provider  string
	Reference string
}

func (Cash) Method() PaymentMethod    { return MethodCash }
func (Card) Method() PaymentMethod    { return MethodCard }
func (EWallet) Method() PaymentMethod { return MethodEWallet }

func (Cash) isPayment()    {}
func (Card) isPayment()    {}
func (EWallet) isPayment() {}

// ComputeChange returns cash.AmountPaid - total. A negative result means the
// customer has not paid enough; ValidatePayment turns that into an error.
func ComputeChange(total decimal.Decimal, cash Cash) decimal.Decimal {
	return cash.AmountPaid.Sub(total)
}

// ValidatePayment checks that p covers total and returns the amount paid and
// change to record on the order.
func ValidatePayment(total decimal.Decimal, p Payment) (amountPaid, change decimal.Decimal, err error) {
	switch v := p.(type) {
	case Cash:
		if v.AmountPaid.IsNegative() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: amount paid cannot be negative", ErrInvalidInput)
		}
		change = ComputeChange(total, v)
		if change.IsNegative() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: tendered %s, total %s",
				ErrInsufficientPayment, v.AmountPaid.StringFixed(2), total.StringFixed(2))
		}
		return v.AmountPaid, change, nil
	case Card:
		return total, decimal.Zero, nil
	case EWallet:
		if strings.TrimSpace(v.Provider) == "" {
			return decimal.Zero, decimal.Zero, fmt.Errorf("%w: e-wallet provider is required", ErrInvalidInput)
		}
		return total, decimal.Zero, nil
	case nil:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: payment is required", ErrInvalidInput)
	default:
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: unsupported payment %T", ErrInvalidInput, p)
	}
}

// ParsePayment builds a Payment from the loose fields sent by clients.
func ParsePayment(method string, amountPaid decimal.Decimal, provider, reference string) (Payment, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(method)))
	switch m {
	case MethodCash:
		return Cash{AmountPaid: amountPaid}, nil
	case MethodCard:
		return Card{Reference: reference}, nil
	case MethodEWallet, "ewallet":
		return EWallet{Provider: provider, Reference: reference}, nil
	case "gcash", "maya":
		if provider == "" {
			provider = string(m)
		}
		return EWallet{Provider: provider, Reference: reference}, nil
	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, method)
	}
}

func paymentDetails(p Payment) (provider, reference string) {
	switch v := p.(type) {
	case Card:
		return "", v.Reference
	case EWallet:
		return v.Provider, v.Reference
	}
	return "", ""
}
