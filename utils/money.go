package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// pricePrinter groups thousands and formats decimals the US English way
var pricePrinter = message.NewPrinter(language.AmericanEnglish)

// FormatPrice formats a dollar amount as a string like "$1,234.50".
// Negative amounts are rendered as "-$5.00"; they are displayed, not rejected.
func FormatPrice(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return ""
	}
	if amount < 0 {
		return "-$" + pricePrinter.Sprintf("%.2f", -amount)
	}
	return "$" + pricePrinter.Sprintf("%.2f", amount)
}
