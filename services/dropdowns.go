package services

import (
	"buildsales/pricing"
)

// UOMOptions returns the list of Unit of Measurement options.
var UOMOptions = []string{
	"Nos",
	"Sqm",
	"Sqft",
	"Rmt",
	"Cum",
	"Kg",
	"MT",
	"Lot",
	"Set",
	"Lumpsum",
	"Ltr",
	"Pair",
	"Bag",
	"Box",
	"Roll",
	"Bundle",
	"Trip",
	"Day",
	"Month",
	"Hour",
}

// TaxOptions returns the common tax percentages offered on item and BOQ forms.
var TaxOptions = []float64{0, 5, 12, 18, 28}

// Option is a value/label pair for a select element.
type Option struct {
	Value string
	Label string
}

// MainCategoryOptions lists the main categories in display order.
func MainCategoryOptions() []Option {
	opts := make([]Option, 0, len(pricing.MainCategories))
	for _, m := range pricing.MainCategories {
		opts = append(opts, Option{Value: string(m), Label: pricing.Label(string(m))})
	}
	return opts
}

// SubCategoryOptions lists the sub-categories allowed under main.
func SubCategoryOptions(main pricing.MainCategory) []Option {
	subs := pricing.SubCategoriesFor(main)
	opts := make([]Option, 0, len(subs))
	for _, s := range subs {
		opts = append(opts, Option{Value: string(s), Label: pricing.Label(string(s))})
	}
	return opts
}

// AdjustmentTypeOptions lists the discount and tax modes of a quotation item.
var AdjustmentTypeOptions = []Option{
	{Value: string(pricing.Percentage), Label: "%"},
	{Value: string(pricing.Fixed), Label: "Fixed"},
}

// StatusOptions lists the statuses a document in current may move to,
// current first.
func StatusOptions(model pricing.Model, current pricing.Status, strict bool) []Option {
	opts := []Option{{Value: string(current), Label: pricing.StatusLabel(current)}}
	for _, s := range pricing.NextStatuses(model, current, strict) {
		if s == current {
			continue
		}
		opts = append(opts, Option{Value: string(s), Label: pricing.StatusLabel(s)})
	}
	return opts
}
