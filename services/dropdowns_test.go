package services

import (
	"testing"

	"buildsales/pricing"
)

func TestUOMOptions(t *testing.T) {
	if len(UOMOptions) == 0 {
		t.Fatal("UOMOptions should not be empty")
	}

	// Check some expected values
	expected := map[string]bool{
		"Nos": true, "Sqm": true, "Sqft": true, "Kg": true, "Lumpsum": true,
	}
	found := make(map[string]bool)
	for _, opt := range UOMOptions {
		if opt == "" {
			t.Error("UOMOptions contains empty string")
		}
		found[opt] = true
	}
	for k := range expected {
		if !found[k] {
			t.Errorf("expected UOM option %q not found", k)
		}
	}
}

func TestTaxOptions(t *testing.T) {
	expected := []float64{0, 5, 12, 18, 28}
	if len(TaxOptions) != len(expected) {
		t.Fatalf("expected %d tax options, got %d", len(expected), len(TaxOptions))
	}
	for i, v := range expected {
		if TaxOptions[i] != v {
			t.Errorf("TaxOptions[%d] = %v, want %v", i, TaxOptions[i], v)
		}
	}
}

func TestMainCategoryOptions(t *testing.T) {
	opts := MainCategoryOptions()
	if len(opts) != len(pricing.MainCategories) {
		t.Fatalf("got %d options, want %d", len(opts), len(pricing.MainCategories))
	}
	if opts[0].Value != string(pricing.CivilWorks) || opts[0].Label != "Civil Works" {
		t.Errorf("first option = %+v", opts[0])
	}
	if last := opts[len(opts)-1]; last.Value != string(pricing.Other) {
		t.Errorf("last option = %+v, want other", last)
	}
}

func TestSubCategoryOptions(t *testing.T) {
	opts := SubCategoryOptions(pricing.Electrical)
	if len(opts) == 0 || opts[0].Value != "wiring" {
		t.Fatalf("electrical options = %+v, want wiring first", opts)
	}

	unknown := SubCategoryOptions("not_a_category")
	if len(unknown) != 1 || unknown[0].Value != string(pricing.Custom) {
		t.Errorf("unknown main options = %+v, want only custom", unknown)
	}
}

func TestStatusOptions(t *testing.T) {
	strict := StatusOptions(pricing.ModelQuotation, pricing.StatusDraft, true)
	if strict[0].Value != string(pricing.StatusDraft) {
		t.Errorf("first option = %q, want current status", strict[0].Value)
	}
	for _, o := range strict {
		if o.Value == string(pricing.StatusAccepted) {
			t.Error("strict flow should not offer draft -> accepted")
		}
	}

	loose := StatusOptions(pricing.ModelQuotation, pricing.StatusDraft, false)
	if len(loose) != len(pricing.Statuses(pricing.ModelQuotation)) {
		t.Errorf("loose options = %d, want every quotation status", len(loose))
	}
}
