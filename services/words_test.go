package services

import "testing"

func TestAmountToWords_IndianFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Zero Rupees Only/-"},
		{"single", 7, "Seven Rupees Only/-"},
		{"teens", 15, "Fifteen Rupees Only/-"},
		{"hundreds", 342, "Three Hundred and Forty Two Rupees Only/-"},
		{"rounds", 99.6, "One Hundred Rupees Only/-"},
		{"lakhs", 913183, "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only/-"},
		{"crores", 12345678, "One Crores Twenty Three Lakhs Forty Five Thousand Six Hundred and Seventy Eight Rupees Only/-"},
		{"exact_lakh", 100000, "One Lakhs Rupees Only/-"},
		{"hundreds_of_crores", 1500000000, "One Hundred and Fifty Crores Rupees Only/-"},
		{"negative", -20, "Negative Twenty Rupees Only/-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountToWords(tt.amount)
			if got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestCurrencyWords_UsesCurrencyName(t *testing.T) {
	c := Currency{Symbol: "$", Name: "Dollars"}
	if got := c.Words(1001); got != "One Thousand and One Dollars Only/-" {
		t.Errorf("Words(1001) = %q", got)
	}
}
