package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// QuoteLine holds the intermediate amounts of a quotation line item.
type QuoteLine struct {
	ItemSubtotal   float64 // quantity * rate
	DiscountAmount float64
	TaxableAmount  float64 // ItemSubtotal - DiscountAmount
	TaxAmount      float64
	Amount         float64 // TaxableAmount + TaxAmount + service charges
}

// CalcBOQLine returns quantity × unit rate.
func CalcBOQLine(quantity, unitRate float64) float64 {
	return dec(quantity).Mul(dec(unitRate)).InexactFloat64()
}

// CalcQuoteLine prices a quotation line item. The discount is kept within
// 0 and the item subtotal: a negative discount never acts as a surcharge and
// the taxable amount never goes below zero.
func CalcQuoteLine(item LineItem) QuoteLine {
	subtotal := dec(item.Quantity).Mul(dec(item.UnitRate))

	discount := adjustment(subtotal, item.Discount, item.DiscountType)
	switch {
	case !subtotal.IsPositive(), discount.IsNegative():
		discount = decimal.Zero
	case discount.GreaterThan(subtotal):
		discount = subtotal
	}

	taxable := subtotal.Sub(discount)
	tax := adjustment(taxable, item.Tax, item.TaxType)
	amount := taxable.Add(tax).Add(dec(item.ServiceCharges))

	return QuoteLine{
		ItemSubtotal:   subtotal.InexactFloat64(),
		DiscountAmount: discount.InexactFloat64(),
		TaxableAmount:  taxable.InexactFloat64(),
		TaxAmount:      tax.InexactFloat64(),
		Amount:         amount.InexactFloat64(),
	}
}

// LineTotal returns the total amount of item under the given model.
func LineTotal(model Model, item LineItem) float64 {
	if model == ModelQuotation {
		return CalcQuoteLine(item).Amount
	}
	return CalcBOQLine(item.Quantity, item.UnitRate)
}

// adjustment resolves a percentage of base, or returns value as-is for a
// fixed adjustment.
func adjustment(base decimal.Decimal, value float64, typ AdjustmentType) decimal.Decimal {
	if typ == Fixed {
		return dec(value)
	}
	return base.Mul(dec(value)).Div(hundred)
}

// dec converts f to a decimal. NaN and infinities become zero; NewFromFloat
// panics on them.
func dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
