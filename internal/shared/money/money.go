package money

import "fmt"

// Format renders a major-unit amount with its currency symbol.
func Format(currency string, amount float64) string {
	switch currency {
	case "NGN":
		return fmt.Sprintf("₦%.2f", amount)
	case "USD":
		return fmt.Sprintf("$%.2f", amount)
	default:
		return fmt.Sprintf("%.2f %s", amount, currency)
	}
}

// FormatMinor renders a minor-unit amount (kobo, cents) the same way.
func FormatMinor(currency string, minor int64) string {
	return Format(currency, float64(minor)/100.0)
}
