package services

import (
	"errors"
	"testing"
	"time"

	"buildsales/config"
	"buildsales/pricing"
	"buildsales/testhelpers"
)

func TestSaveDocument_PersistsRecalculatedTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Store Project")
	rec := testhelpers.CreateTestBOQ(t, app, proj.Id, "Store BOQ")

	doc, _, err := LoadBOQ(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadBOQ failed: %v", err)
	}
	doc, s := pricing.AddSection(doc, "Civil")
	doc, item, _ := pricing.AddItem(doc, s.ID, pricing.ItemDefaults{Unit: "Cum"})
	doc, _, _ = pricing.UpdateItem(doc, s.ID, item.ID, pricing.SetQuantity{Value: 10})
	doc, _, _ = pricing.UpdateItem(doc, s.ID, item.ID, pricing.SetUnitRate{Value: 100})
	doc.DiscountPercentage = 10
	doc.TaxPercentage = 18

	saved, err := SaveDocument(app, rec, doc)
	if err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	if !floatClose(saved.TotalAmount, 1062) {
		t.Errorf("returned total = %f, want 1062", saved.TotalAmount)
	}

	reloaded, stored, err := LoadBOQ(app, rec.Id)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !floatClose(stored.GetFloat("total_amount"), 1062) {
		t.Errorf("stored total_amount = %f, want 1062", stored.GetFloat("total_amount"))
	}
	if len(reloaded.Sections) != 1 || len(reloaded.Sections[0].Items) != 1 {
		t.Fatalf("unexpected structure after reload: %+v", reloaded.Sections)
	}
	if reloaded.Sections[0].Items[0].ID != item.ID {
		t.Errorf("item id changed across save: %q -> %q", item.ID, reloaded.Sections[0].Items[0].ID)
	}
	if !floatClose(reloaded.DiscountAmount, 100) || !floatClose(reloaded.TaxAmount, 162) {
		t.Errorf("discount/tax = %f/%f, want 100/162", reloaded.DiscountAmount, reloaded.TaxAmount)
	}
}

func TestLoadDocument_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, _, err := LoadQuotation(app, "doesnotexist123")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestNewBOQRecord_Defaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "New BOQ Project")
	cfg := config.Default()
	now := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

	rec, err := NewBOQRecord(app, cfg, BOQHeader{ProjectID: proj.Id, Title: "Phase 1"}, now)
	if err != nil {
		t.Fatalf("NewBOQRecord failed: %v", err)
	}

	if rec.GetString("status") != "draft" {
		t.Errorf("status = %q, want draft", rec.GetString("status"))
	}
	if rec.GetFloat("tax_percentage") != 18 {
		t.Errorf("tax_percentage = %v, want 18", rec.GetFloat("tax_percentage"))
	}
	number := rec.GetString("boq_number")
	if len(number) != len("BOQ-2026-000") || number[:9] != "BOQ-2026-" {
		t.Errorf("boq_number = %q", number)
	}

	doc, _, err := LoadBOQ(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadBOQ failed: %v", err)
	}
	if len(doc.Sections) != 0 || doc.TotalAmount != 0 {
		t.Errorf("new BOQ should be empty, got %d sections, total %f", len(doc.Sections), doc.TotalAmount)
	}
}

func TestNewQuotationRecord_ValidUntil(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Quote Customer")
	cfg := config.Default()
	cfg.QuotationValidityDays = 15
	now := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)

	rec, err := NewQuotationRecord(app, cfg, QuotationHeader{CustomerID: customer.Id, Title: "Lighting"}, now)
	if err != nil {
		t.Fatalf("NewQuotationRecord failed: %v", err)
	}

	want := now.AddDate(0, 0, 15)
	if got := rec.GetDateTime("valid_until").Time(); !got.Equal(want) {
		t.Errorf("valid_until = %v, want %v", got, want)
	}
	if rec.GetString("quotation_number")[:8] != "QT-2026-" {
		t.Errorf("quotation_number = %q", rec.GetString("quotation_number"))
	}
}

func TestRecalculateAll_RepairsStaleTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Recalc Customer")
	rec := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-500")

	doc := pricing.NewDocument(pricing.ModelQuotation)
	doc, s := pricing.AddSection(doc, "Works")
	doc, item, _ := pricing.AddItem(doc, s.ID, pricing.ItemDefaults{Tax: 10})
	doc, _, _ = pricing.UpdateItem(doc, s.ID, item.ID, pricing.SetQuantity{Value: 2})
	doc, _, _ = pricing.UpdateItem(doc, s.ID, item.ID, pricing.SetUnitRate{Value: 50})
	testhelpers.SaveTestDocument(t, app, rec, doc)

	// Corrupt the stored totals the way a formula change would leave them.
	rec.Set("total_amount", 1)
	if err := app.Save(rec); err != nil {
		t.Fatalf("failed to corrupt totals: %v", err)
	}

	res, err := RecalculateAll(app, "quotations")
	if err != nil {
		t.Fatalf("RecalculateAll failed: %v", err)
	}
	if res.Processed != 1 || res.Changed != 1 || res.Failed != 0 {
		t.Errorf("result = %+v, want 1 processed, 1 changed", res)
	}

	fixed, _ := app.FindRecordById("quotations", rec.Id)
	if !floatClose(fixed.GetFloat("total_amount"), 110) {
		t.Errorf("total_amount = %f, want 110", fixed.GetFloat("total_amount"))
	}

	res, _ = RecalculateAll(app, "quotations")
	if res.Changed != 0 {
		t.Errorf("second run changed %d documents, want 0", res.Changed)
	}
}

func TestRecalculateAll_RejectsUnknownCollection(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := RecalculateAll(app, "customers"); err == nil {
		t.Error("expected error for non-document collection")
	}
}

func TestFindProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestProduct(t, app, "LED-18", "LED Panel 18W", 1250, 18)

	p, err := FindProduct(app, rec.Id)
	if err != nil {
		t.Fatalf("FindProduct failed: %v", err)
	}
	if p.Name != "LED Panel 18W" || p.Rate != 1250 || p.TaxPercentage != 18 || p.MainCategory != pricing.Electrical {
		t.Errorf("unexpected product: %+v", p)
	}
}
