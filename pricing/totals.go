package pricing

import "github.com/shopspring/decimal"

// Totals are the derived document-level amounts.
type Totals struct {
	Subtotal           float64
	DiscountAmount     float64
	DiscountedSubtotal float64
	TaxAmount          float64
	TotalAmount        float64
}

// SectionSubtotal sums the TotalAmount of every item. Item totals are taken
// as stored; call RecalculateSection to refresh them first.
func SectionSubtotal(items []LineItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(dec(it.TotalAmount))
	}
	return sum.InexactFloat64()
}

// CalcBOQTotals combines section subtotals and applies the document-level
// discount percentage, then the tax percentage on the discounted subtotal.
func CalcBOQTotals(sectionSubtotals []float64, discountPercentage, taxPercentage float64) Totals {
	subtotal := decimal.Zero
	for _, s := range sectionSubtotals {
		subtotal = subtotal.Add(dec(s))
	}
	discount := adjustment(subtotal, discountPercentage, Percentage)
	discounted := subtotal.Sub(discount)
	tax := adjustment(discounted, taxPercentage, Percentage)

	return Totals{
		Subtotal:           subtotal.InexactFloat64(),
		DiscountAmount:     discount.InexactFloat64(),
		DiscountedSubtotal: discounted.InexactFloat64(),
		TaxAmount:          tax.InexactFloat64(),
		TotalAmount:        discounted.Add(tax).InexactFloat64(),
	}
}

// CalcQuotationTotals sums section subtotals (already net of per-item
// discount and tax) and adds the flat document service charges.
func CalcQuotationTotals(sectionSubtotals []float64, serviceCharges float64) Totals {
	subtotal := decimal.Zero
	for _, s := range sectionSubtotals {
		subtotal = subtotal.Add(dec(s))
	}
	return Totals{
		Subtotal:           subtotal.InexactFloat64(),
		DiscountedSubtotal: subtotal.InexactFloat64(),
		TotalAmount:        subtotal.Add(dec(serviceCharges)).InexactFloat64(),
	}
}

// RecalculateSection recomputes every item total and the section subtotal.
func RecalculateSection(model Model, s Section) Section {
	items := make([]LineItem, len(s.Items))
	for i, it := range s.Items {
		it.TotalAmount = LineTotal(model, it)
		items[i] = it
	}
	s.Items = items
	s.Subtotal = SectionSubtotal(items)
	return s
}

// Recalculate refreshes item, section and document totals. Calling it twice
// on the same document gives identical results.
func Recalculate(doc Document) Document {
	sections := make([]Section, len(doc.Sections))
	subtotals := make([]float64, len(doc.Sections))
	for i, s := range doc.Sections {
		sections[i] = RecalculateSection(doc.Model, s)
		subtotals[i] = sections[i].Subtotal
	}
	doc.Sections = sections
	return doc.WithTotals(doc.Totals(subtotals))
}

// Totals computes the document totals from the given section subtotals
// using the document's model.
func (d Document) Totals(sectionSubtotals []float64) Totals {
	if d.Model == ModelQuotation {
		return CalcQuotationTotals(sectionSubtotals, d.ServiceCharges)
	}
	return CalcBOQTotals(sectionSubtotals, d.DiscountPercentage, d.TaxPercentage)
}

// WithTotals returns d with its derived total fields set from t.
func (d Document) WithTotals(t Totals) Document {
	d.Subtotal = t.Subtotal
	d.DiscountAmount = t.DiscountAmount
	d.TaxAmount = t.TaxAmount
	d.TotalAmount = t.TotalAmount
	return d
}
