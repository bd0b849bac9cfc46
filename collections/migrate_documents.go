package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"buildsales/pricing"
)

// MigrateDocumentItems repairs line items stored by older builds: missing
// adjustment types become percentages, unknown categories fall back to
// "other", sub-categories outside their main category are reset to the
// default, and the combined category string is rebuilt. Documents that were
// touched are recalculated and saved.
// Safe to call on every startup -- documents already in shape are skipped.
func MigrateDocumentItems(app *pocketbase.PocketBase) error {
	fixed := 0
	for _, name := range []string{BOQs, Quotations} {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("migrate: could not find %s collection: %w", name, err)
		}
		records, err := app.FindAllRecords(col)
		if err != nil {
			return fmt.Errorf("migrate: could not query %s: %w", name, err)
		}

		for _, rec := range records {
			doc, err := ReadDocument(rec)
			if err != nil {
				log.Printf("migrate: skipping %s %s: %v\n", name, rec.Id, err)
				continue
			}
			normalized, changed := normalizeItems(doc)
			if !changed {
				continue
			}
			WriteDocument(rec, pricing.Recalculate(normalized))
			if err := app.Save(rec); err != nil {
				log.Printf("migrate: failed to save %s %s: %v\n", name, rec.Id, err)
				continue
			}
			fixed++
		}
	}

	if fixed > 0 {
		log.Printf("migrate: repaired line items in %d document(s).\n", fixed)
	}
	return nil
}

func normalizeItems(doc pricing.Document) (pricing.Document, bool) {
	changed := false
	sections := make([]pricing.Section, len(doc.Sections))
	for si, s := range doc.Sections {
		items := make([]pricing.LineItem, len(s.Items))
		for ii, it := range s.Items {
			before := it
			if it.DiscountType != pricing.Fixed {
				it.DiscountType = pricing.Percentage
			}
			if it.TaxType != pricing.Fixed {
				it.TaxType = pricing.Percentage
			}
			if !pricing.IsMainCategory(it.MainCategory) {
				it.MainCategory = pricing.Other
			}
			if !pricing.BelongsTo(it.MainCategory, it.SubCategory) {
				it.SubCategory = pricing.DefaultSubCategory(it.MainCategory)
			}
			it.Category = pricing.CategoryString(it.MainCategory, it.SubCategory)
			if it != before {
				changed = true
			}
			items[ii] = it
		}
		if s.Items == nil {
			changed = true
		}
		s.Items = items
		sections[si] = s
	}
	doc.Sections = sections
	return doc, changed
}
