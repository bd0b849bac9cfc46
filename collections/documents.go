package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"buildsales/pricing"
)

// Collection names for the two document kinds.
const (
	BOQs       = "boqs"
	Quotations = "quotations"
)

// ModelFor maps a document collection name to its pricing model.
func ModelFor(collection string) (pricing.Model, bool) {
	switch collection {
	case BOQs:
		return pricing.ModelBOQ, true
	case Quotations:
		return pricing.ModelQuotation, true
	}
	return "", false
}

// NumberField returns the column holding the document number.
func NumberField(model pricing.Model) string {
	if model == pricing.ModelBOQ {
		return "boq_number"
	}
	return "quotation_number"
}

// ReadDocument decodes the sections JSON and document-level inputs of a boq
// or quotation record. Stored totals are read as-is; callers recalculate.
func ReadDocument(rec *core.Record) (pricing.Document, error) {
	model, ok := ModelFor(rec.Collection().Name)
	if !ok {
		return pricing.Document{}, fmt.Errorf("read document: %q is not a document collection", rec.Collection().Name)
	}

	doc := pricing.NewDocument(model)
	var sections []pricing.Section
	if raw := rec.GetString("sections"); raw != "" && raw != "null" {
		if err := rec.UnmarshalJSONField("sections", &sections); err != nil {
			return pricing.Document{}, fmt.Errorf("read document %s: sections: %w", rec.Id, err)
		}
	}
	if sections != nil {
		doc.Sections = sections
	}

	if model == pricing.ModelBOQ {
		doc.DiscountPercentage = rec.GetFloat("discount_percentage")
		doc.TaxPercentage = rec.GetFloat("tax_percentage")
	} else {
		doc.ServiceCharges = rec.GetFloat("service_charges")
	}
	doc.Subtotal = rec.GetFloat("subtotal")
	doc.DiscountAmount = rec.GetFloat("discount_amount")
	doc.TaxAmount = rec.GetFloat("tax_amount")
	doc.TotalAmount = rec.GetFloat("total_amount")
	return doc, nil
}

// WriteDocument copies sections and totals onto the record without saving it.
func WriteDocument(rec *core.Record, doc pricing.Document) {
	sections := doc.Sections
	if sections == nil {
		sections = []pricing.Section{}
	}
	rec.Set("sections", sections)

	if doc.Model == pricing.ModelBOQ {
		rec.Set("discount_percentage", doc.DiscountPercentage)
		rec.Set("tax_percentage", doc.TaxPercentage)
	} else {
		rec.Set("service_charges", doc.ServiceCharges)
	}
	rec.Set("subtotal", doc.Subtotal)
	rec.Set("discount_amount", doc.DiscountAmount)
	rec.Set("tax_amount", doc.TaxAmount)
	rec.Set("total_amount", doc.TotalAmount)
}
