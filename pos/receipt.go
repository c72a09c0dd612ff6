package pos

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultReceiptWidth fits a 58mm thermal printer.
const DefaultReceiptWidth = 32

const receiptTimeLayout = "Jan 2, 2006 03:04 PM"

// StoreInfo is printed at the top of every receipt.
type StoreInfo struct {
	Name         string
	AddressLines []string
	Phone        string
}

var DefaultStore = StoreInfo{
	Name:         "YOUR STORE NAME",
	AddressLines: []string{"123 Main Street", "City, State 12345"},
	Phone:        "(123) 456-7890",
}

// ReceiptFormatter renders orders for printing. Output depends only on the
// order and the formatter fields.
type ReceiptFormatter struct {
	Store    StoreInfo
	Currency string
	Width    int
}

func NewReceiptFormatter(store StoreInfo, currency string, width int) ReceiptFormatter {
	if currency == "" {
		currency = DefaultCurrencySymbol
	}
	if width < 24 {
		width = DefaultReceiptWidth
	}
	return ReceiptFormatter{Store: store, Currency: currency, Width: width}
}

// FormatReceipt renders order with the default store header.
func FormatReceipt(order Order) string {
	return NewReceiptFormatter(DefaultStore, "", 0).Format(order)
}

// Format returns the fixed-width text receipt.
func (f ReceiptFormatter) Format(order Order) string {
	f = NewReceiptFormatter(f.Store, f.Currency, f.Width)
	var lines []string

	lines = append(lines, f.center(f.Store.Name))
	for _, addr := range f.Store.AddressLines {
		lines = append(lines, f.center(addr))
	}
	if f.Store.Phone != "" {
		lines = append(lines, f.center("Tel: "+f.Store.Phone))
	}
	lines = append(lines, f.rule('-'))

	lines = append(lines, "ORDER #"+orderLabel(order))
	if !order.CreatedAt.IsZero() {
		lines = append(lines, order.CreatedAt.Format(receiptTimeLayout))
	}
	if order.Cashier != "" {
		lines = append(lines, "Cashier: "+order.Cashier)
	}
	lines = append(lines, f.rule('-'))

	for _, item := range order.Items {
		lines = append(lines, f.row(fmt.Sprintf("%d x %s", item.Quantity, item.Name), f.money(item.Subtotal)))
		lines = append(lines, "  "+variantLabel(item)+" @ "+f.money(item.UnitPrice))
		if len(item.Toppings) > 0 {
			lines = append(lines, "  + "+strings.Join(item.ToppingNames(), ", "))
		}
	}
	lines = append(lines, f.rule('='))

	lines = append(lines,
		f.row("Subtotal", f.money(order.Subtotal)),
		f.row("Discount", f.money(order.Discount.Neg())),
		f.row("Tax", f.money(order.Tax)),
		f.row("TOTAL", f.money(order.Total)),
		f.rule('-'),
		f.row("Payment", paymentLabel(order)),
		f.row("Amount paid", f.money(order.AmountPaid)),
		f.row("Change", f.money(order.Change)),
		f.rule('-'),
		f.center("THANK YOU!"),
		f.center("Please come again"),
	)

	return strings.Join(lines, "\n") + "\n"
}

func (f ReceiptFormatter) money(d decimal.Decimal) string {
	return FormatMoney(f.Currency, d)
}

func (f ReceiptFormatter) rule(ch rune) string {
	return strings.Repeat(string(ch), f.Width)
}

func (f ReceiptFormatter) center(s string) string {
	pad := (f.Width - utf8.RuneCountInString(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func (f ReceiptFormatter) row(left, right string) string {
	gap := f.Width - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func orderLabel(o Order) string {
	switch {
	case o.Number != "":
		return o.Number
	case o.ID != 0:
		return fmt.Sprintf("%d", o.ID)
	default:
		return "DRAFT"
	}
}

func variantLabel(item LineItem) string {
	if item.Flavor != "" {
		return item.Flavor + " / " + item.Size
	}
	return item.Size
}

func paymentLabel(o Order) string {
	label := strings.ToUpper(string(o.PaymentMethod))
	if o.PaymentProvider != "" {
		label += " (" + strings.ToUpper(o.PaymentProvider) + ")"
	}
	return label
}

var receiptHTML = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Receipt #{{.Number}}</title>
<style>
@media print { @page { size: 58mm auto; margin: 0; } body { margin: 0; } }
body { width: 58mm; font-family: 'Courier New', monospace; font-size: 10px; line-height: 1.4; padding: 5mm; color: #000; }
.center { text-align: center; }
.row { display: flex; justify-content: space-between; margin: 3px 0; }
.details { font-size: 9px; margin-left: 5px; }
.divider { border-top: 1px dashed #000; margin: 8px 0; }
.total { font-size: 14px; font-weight: bold; border-top: 2px solid #000; border-bottom: 2px solid #000; padding: 5px 0; }
</style>
</head>
<body>
<div class="center"><strong>{{.Store.Name}}</strong>{{range .Store.AddressLines}}<br>{{.}}{{end}}{{if .Store.Phone}}<br>Tel: {{.Store.Phone}}{{end}}</div>
<div class="divider"></div>
<div class="center"><strong>ORDER #{{.Number}}</strong>{{if .Date}}<br>{{.Date}}{{end}}{{if .Cashier}}<br>Cashier: {{.Cashier}}{{end}}</div>
<div class="divider"></div>
{{range .Items}}<div class="row"><span><strong>{{.Quantity}} x {{.Name}}</strong></span><span>{{.Subtotal}}</span></div>
<div class="details">{{.Variant}} @ {{.UnitPrice}}</div>
{{if .Toppings}}<div class="details">+ {{.Toppings}}</div>
{{end}}{{end}}<div class="divider"></div>
<div class="row"><span>Subtotal:</span><span>{{.Subtotal}}</span></div>
<div class="row"><span>Discount:</span><span>{{.Discount}}</span></div>
<div class="row"><span>Tax:</span><span>{{.Tax}}</span></div>
<div class="row total"><span>TOTAL:</span><span>{{.Total}}</span></div>
<div class="row"><span>Payment Method:</span><span>{{.Payment}}</span></div>
<div class="row"><span>Amount Paid:</span><span>{{.AmountPaid}}</span></div>
<div class="row"><span>Change:</span><span>{{.Change}}</span></div>
<div class="divider"></div>
<div class="center"><strong>THANK YOU!</strong><br>Please come again</div>
</body>
</html>
`))

type htmlItem struct {
	Quantity  int
	Name      string
	Variant   string
	UnitPrice string
	Subtotal  string
	Toppings  string
}

// FormatHTML returns a printable 58mm HTML page for browser print dialogs.
func (f ReceiptFormatter) FormatHTML(order Order) (string, error) {
	f = NewReceiptFormatter(f.Store, f.Currency, f.Width)

	items := make([]htmlItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = htmlItem{
			Quantity:  item.Quantity,
			Name:      item.Name,
			Variant:   variantLabel(item),
			UnitPrice: f.money(item.UnitPrice),
			Subtotal:  f.money(item.Subtotal),
			Toppings:  strings.Join(item.ToppingNames(), ", "),
		}
	}

	date := ""
	if !order.CreatedAt.IsZero() {
		date = order.CreatedAt.Format(receiptTimeLayout)
	}

	var buf bytes.Buffer
	err := receiptHTML.Execute(&buf, map[string]interface{}{
		"Store":      f.Store,
		"Number":     orderLabel(order),
		"Date":       date,
		"Cashier":    order.Cashier,
		"Items":      items,
		"Subtotal":   f.money(order.Subtotal),
		"Discount":   f.money(order.Discount.Neg()),
		"Tax":        f.money(order.Tax),
		"Total":      f.money(order.Total),
		"Payment":    paymentLabel(order),
		"AmountPaid": f.money(order.AmountPaid),
		"Change":     f.money(order.Change),
	})
	if err != nil {
		return "", fmt.Errorf("render receipt html: %w", err)
	}
	return buf.String(), nil
}
