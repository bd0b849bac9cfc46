package services

import (
	"math"
	"strings"
)

func amountToWords(amount float64, unit string) string {
	if amount < 0 {
		return "Negative " + amountToWords(-amount, unit)
	}

	whole := int64(math.Round(amount))

	if whole == 0 {
		return "Zero " + unit + " Only/-"
	}

	return convertToIndianWords(whole) + " " + unit + " Only/-"
}

func convertToIndianWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	// Crores (10,000,000); anything above 99 crores is spelled recursively.
	if n >= 10000000 {
		crores := n / 10000000
		parts = append(parts, convertToIndianWords(crores)+" Crores")
		n %= 10000000
	}

	// Lakhs (100,000)
	if n >= 100000 {
		lakhs := n / 100000
		parts = append(parts, convertUnder100(lakhs)+" Lakhs")
		n %= 100000
	}

	// Thousands (1,000)
	if n >= 1000 {
		thousands := n / 1000
		parts = append(parts, convertUnder100(thousands)+" Thousand")
		n %= 1000
	}

	if n >= 100 {
		hundreds := n / 100
		parts = append(parts, ones[hundreds]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
