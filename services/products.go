package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/pricing"
)

// ProductFromRecord maps a products record to the catalog entry used when
// a line item picks a product.
func ProductFromRecord(rec *core.Record) pricing.Product {
	return pricing.Product{
		ID:            rec.Id,
		Name:          rec.GetString("name"),
		Unit:          rec.GetString("unit"),
		Rate:          rec.GetFloat("rate"),
		TaxPercentage: rec.GetFloat("tax_percentage"),
		MainCategory:  pricing.MainCategory(rec.GetString("main_category")),
		SubCategory:   pricing.SubCategory(rec.GetString("sub_category")),
	}
}

// FindProduct loads a catalog product by id.
func FindProduct(app *pocketbase.PocketBase, id string) (pricing.Product, error) {
	rec, err := app.FindRecordById("products", id)
	if err != nil {
		return pricing.Product{}, fmt.Errorf("product %s: %w", id, err)
	}
	return ProductFromRecord(rec), nil
}
