package services

import (
	"fmt"
	"math"
	"strings"

	"buildsales/config"
)

// Currency controls how amounts are displayed.
type Currency struct {
	Symbol   string
	Name     string
	Grouping string
}

// DefaultCurrency is Indian Rupees with lakh/crore grouping.
var DefaultCurrency = Currency{Symbol: "₹", Name: "Rupees", Grouping: config.GroupingIndian}

// CurrencyFrom builds the display currency from application settings.
func CurrencyFrom(cfg config.Config) Currency {
	return Currency{Symbol: cfg.CurrencySymbol, Name: cfg.CurrencyName, Grouping: cfg.NumberGrouping}
}

// Format renders amount with the currency symbol, thousands separators and
// exactly 2 decimal places. Display only; never parse the result back.
func (c Currency) Format(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	var formatted string
	if c.Grouping == config.GroupingInternational {
		formatted = applyInternationalGrouping(parts[0])
	} else {
		formatted = applyIndianGrouping(parts[0])
	}

	result := c.Symbol + formatted + "." + parts[1]
	if negative && result != c.Symbol+"0.00" {
		result = "-" + result
	}
	return result
}

// Words spells out amount rounded to whole units, e.g.
// "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only/-".
func (c Currency) Words(amount float64) string {
	return amountToWords(amount, c.Name)
}

// FormatINR formats a float64 amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
func FormatINR(amount float64) string {
	return DefaultCurrency.Format(amount)
}

// AmountToWords spells out an amount in Rupees using the Indian system.
func AmountToWords(amount float64) string {
	return DefaultCurrency.Words(amount)
}

// FormatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// FormatPercent renders a percentage without trailing zeros.
func FormatPercent(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".") + "%"
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// applyInternationalGrouping groups digits in threes.
func applyInternationalGrouping(s string) string {
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
