package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcBOQTotals_DiscountThenTax(t *testing.T) {
	got := CalcBOQTotals([]float64{1000, 500}, 10, 21)

	assert.Equal(t, 1500.0, got.Subtotal)
	assert.Equal(t, 150.0, got.DiscountAmount)
	assert.Equal(t, 1350.0, got.DiscountedSubtotal)
	assert.Equal(t, 283.5, got.TaxAmount)
	assert.Equal(t, 1633.5, got.TotalAmount)
}

func TestCalcBOQTotals(t *testing.T) {
	tests := []struct {
		name      string
		subtotals []float64
		discount  float64
		tax       float64
		expect    Totals
	}{
		{"no sections", nil, 10, 18, Totals{}},
		{"no discount", []float64{1000}, 0, 18, Totals{Subtotal: 1000, DiscountedSubtotal: 1000, TaxAmount: 180, TotalAmount: 1180}},
		{"no tax", []float64{400, 600}, 25, 0, Totals{Subtotal: 1000, DiscountAmount: 250, DiscountedSubtotal: 750, TotalAmount: 750}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, CalcBOQTotals(tt.subtotals, tt.discount, tt.tax))
		})
	}
}

func TestCalcQuotationTotals_AddsServiceCharges(t *testing.T) {
	got := CalcQuotationTotals([]float64{965, 35}, 150)

	assert.Equal(t, 1000.0, got.Subtotal)
	assert.Equal(t, 0.0, got.DiscountAmount)
	assert.Equal(t, 0.0, got.TaxAmount)
	assert.Equal(t, 1150.0, got.TotalAmount)
}

func boqFixture() Document {
	return Document{
		Model:              ModelBOQ,
		DiscountPercentage: 10,
		TaxPercentage:      21,
		Sections: []Section{
			{ID: "s1", Items: []LineItem{
				{ID: "a", Quantity: 10, UnitRate: 60},
				{ID: "b", Quantity: 4, UnitRate: 100},
			}},
			{ID: "s2", Items: []LineItem{
				{ID: "c", Quantity: 5, UnitRate: 100, TotalAmount: 999},
			}},
		},
	}
}

func TestRecalculate_BOQ(t *testing.T) {
	doc := Recalculate(boqFixture())

	assert.Equal(t, 1000.0, doc.Sections[0].Subtotal)
	assert.Equal(t, 500.0, doc.Sections[1].Subtotal)
	assert.Equal(t, 500.0, doc.Sections[1].Items[0].TotalAmount, "stale item total is overwritten")
	assert.Equal(t, 1500.0, doc.Subtotal)
	assert.Equal(t, 150.0, doc.DiscountAmount)
	assert.Equal(t, 283.5, doc.TaxAmount)
	assert.Equal(t, 1633.5, doc.TotalAmount)
	assert.Equal(t, doc.Subtotal-doc.DiscountAmount+doc.TaxAmount, doc.TotalAmount)
}

func TestRecalculate_Idempotent(t *testing.T) {
	once := Recalculate(boqFixture())
	twice := Recalculate(once)

	assert.Equal(t, once, twice)
}

func TestRecalculate_Additive(t *testing.T) {
	doc := Recalculate(Document{
		Model:          ModelQuotation,
		ServiceCharges: 25,
		Sections: []Section{
			{ID: "s1", Items: []LineItem{
				{ID: "a", Quantity: 10, UnitRate: 100, Discount: 10, Tax: 5, ServiceCharges: 20},
				{ID: "b", Quantity: 1, UnitRate: 33.33, Tax: 18},
			}},
			{ID: "s2", Items: []LineItem{
				{ID: "c", Quantity: 7, UnitRate: 12.5, Discount: 5, DiscountType: Fixed},
			}},
			{ID: "s3"},
		},
	})

	var docSum float64
	for _, s := range doc.Sections {
		var sum float64
		for _, it := range s.Items {
			sum += it.TotalAmount
		}
		assert.InDelta(t, sum, s.Subtotal, 1e-9)
		docSum += s.Subtotal
	}
	assert.InDelta(t, docSum, doc.Subtotal, 1e-9)
	assert.InDelta(t, doc.Subtotal+25, doc.TotalAmount, 1e-9)
	require.Len(t, doc.Sections[0].Items, 2)
	assert.Equal(t, 965.0, doc.Sections[0].Items[0].TotalAmount)
}

func TestRecalculate_DoesNotMutateInput(t *testing.T) {
	in := boqFixture()
	_ = Recalculate(in)

	assert.Equal(t, 999.0, in.Sections[1].Items[0].TotalAmount)
	assert.Equal(t, 0.0, in.TotalAmount)
}
