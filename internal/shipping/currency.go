package shipping

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrEmptyAmount = errors.New("amount is empty")

// FormatUSD turns free-form input into a "$"-prefixed amount with at most two
// decimals. Characters other than digits and dots are dropped, as is anything
// after a second dot. A trailing dot is kept so partially typed input survives.
// Formatting an already formatted value returns it unchanged.
func FormatUSD(value string) string {
	var b strings.Builder
	for _, r := range value {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	numeric := b.String()

	parts := strings.Split(numeric, ".")
	if len(parts) > 1 {
		fraction := parts[1]
		if len(fraction) > 2 {
			fraction = fraction[:2]
		}
		return "$" + parts[0] + "." + fraction
	}

	if numeric == "" {
		return ""
	}
	return "$" + numeric
}

// ParseUSD reads a display amount such as "$15.50" into a decimal.
func ParseUSD(value string) (decimal.Decimal, error) {
	formatted := strings.TrimPrefix(FormatUSD(value), "$")
	if formatted == "" || formatted == "." {
		return decimal.Zero, ErrEmptyAmount
	}
	if strings.HasPrefix(formatted, ".") {
		formatted = "0" + formatted
	}
	formatted = strings.TrimSuffix(formatted, ".")
	return decimal.NewFromString(formatted)
}

// CentsToDollars converts minor units to a decimal dollar amount.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// DollarsToCents rounds a dollar amount to whole cents.
func DollarsToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
