package collections_test

import (
	"testing"
	"time"

	"buildsales/collections"
	"buildsales/pricing"
	"buildsales/testhelpers"
)

func TestMigrateDocumentItems_RepairsLegacyItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Legacy Project")
	boq := testhelpers.CreateTestBOQ(t, app, proj.Id, "Legacy BOQ")

	// Raw JSON as an older build stored it: no adjustment types, a stale
	// category string and a sub-category from another main category.
	boq.Set("sections", []map[string]any{
		{
			"id": "s1", "sectionNumber": "1.0", "title": "Old",
			"items": []map[string]any{
				{
					"id": "i1", "itemNumber": "1.1", "description": "Cable",
					"quantity": 2, "unitRate": 50,
					"mainCategory": "electrical", "subCategory": "drainage",
					"category": "stale",
				},
				{
					"id": "i2", "itemNumber": "1.2", "description": "Mystery",
					"quantity": 1, "unitRate": 10, "mainCategory": "space_elevator",
				},
			},
		},
	})
	if err := app.Save(boq); err != nil {
		t.Fatalf("failed to store legacy sections: %v", err)
	}

	if err := collections.MigrateDocumentItems(app); err != nil {
		t.Fatalf("MigrateDocumentItems() error: %v", err)
	}

	updated, err := app.FindRecordById("boqs", boq.Id)
	if err != nil {
		t.Fatalf("failed to reload BOQ: %v", err)
	}
	doc, err := collections.ReadDocument(updated)
	if err != nil {
		t.Fatalf("ReadDocument() error: %v", err)
	}

	items := doc.Sections[0].Items
	if items[0].SubCategory != "wiring" {
		t.Errorf("item 1 sub-category = %q, want %q", items[0].SubCategory, "wiring")
	}
	if items[0].Category != "Electrical/Wiring" {
		t.Errorf("item 1 category = %q, want %q", items[0].Category, "Electrical/Wiring")
	}
	if items[0].DiscountType != pricing.Percentage || items[0].TaxType != pricing.Percentage {
		t.Errorf("item 1 adjustment types = %q/%q, want percentage", items[0].DiscountType, items[0].TaxType)
	}
	if items[1].MainCategory != pricing.Other || items[1].SubCategory != pricing.Custom {
		t.Errorf("item 2 categories = %q/%q, want other/custom", items[1].MainCategory, items[1].SubCategory)
	}
	if items[0].TotalAmount != 100 {
		t.Errorf("item 1 total = %.2f, want 100", items[0].TotalAmount)
	}
	if doc.Subtotal != 110 {
		t.Errorf("subtotal = %.2f, want 110", doc.Subtotal)
	}
}

func TestMigrateDocumentItems_SkipsHealthyDocuments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Healthy Project")
	boq := testhelpers.CreateTestBOQ(t, app, proj.Id, "Healthy BOQ")
	// The stored timestamp has millisecond precision; compare against it.
	stored, err := app.FindRecordById("boqs", boq.Id)
	if err != nil {
		t.Fatalf("failed to reload BOQ: %v", err)
	}
	before := stored.GetDateTime("updated")

	time.Sleep(5 * time.Millisecond)
	if err := collections.MigrateDocumentItems(app); err != nil {
		t.Fatalf("MigrateDocumentItems() error: %v", err)
	}

	after, _ := app.FindRecordById("boqs", boq.Id)
	if !after.GetDateTime("updated").Time().Equal(before.Time()) {
		t.Error("expected healthy BOQ not to be re-saved")
	}
}

func TestMigrateQuotationValidity_FillsMissingDates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Validity Customer")
	quote := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-001")

	if err := collections.MigrateQuotationValidity(app, 30); err != nil {
		t.Fatalf("MigrateQuotationValidity() error: %v", err)
	}

	updated, _ := app.FindRecordById("quotations", quote.Id)
	validUntil := updated.GetDateTime("valid_until").Time()
	created := updated.GetDateTime("created").Time()
	if validUntil.IsZero() {
		t.Fatal("expected valid_until to be set")
	}
	if got := validUntil.Sub(created).Round(time.Hour); got != 30*24*time.Hour {
		t.Errorf("valid_until - created = %v, want 720h", got)
	}
}

func TestMigrateQuotationValidity_KeepsExistingDates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Validity Customer")
	quote := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-002")
	fixed := time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC)
	quote.Set("valid_until", fixed)
	if err := app.Save(quote); err != nil {
		t.Fatalf("failed to set valid_until: %v", err)
	}

	if err := collections.MigrateQuotationValidity(app, 30); err != nil {
		t.Fatalf("MigrateQuotationValidity() error: %v", err)
	}

	updated, _ := app.FindRecordById("quotations", quote.Id)
	if !updated.GetDateTime("valid_until").Time().Equal(fixed) {
		t.Errorf("valid_until changed to %v", updated.GetDateTime("valid_until"))
	}
}
