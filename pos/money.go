package pos

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is the peso sign printed in front of amounts.
const DefaultCurrencySymbol = "₱"

// FormatMoney renders an amount with two decimals and comma thousand separators,
// e.g. 1234.5 -> "₱1,234.50". Negative amounts keep the sign in front of the symbol.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	formatted := amount.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	return sign + symbol + strings.Join(groups, ",") + "." + decimalPart
}
