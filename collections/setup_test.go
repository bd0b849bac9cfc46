package collections_test

import (
	"strings"
	"testing"

	"buildsales/collections"
	"buildsales/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"customers",
	"projects",
	"leads",
	"products",
	"boqs",
	"quotations",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_ProjectsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("projects")

	fields := []string{"name", "status", "customer", "reference_number", "site_location", "start_date", "end_date", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("projects: missing field %q", f)
		}
	}

	statusField := col.Fields.GetByName("status")
	if sf, ok := statusField.(*core.SelectField); ok {
		expected := map[string]bool{"active": true, "on_hold": true, "completed": true, "cancelled": true}
		for _, v := range sf.Values {
			if !expected[v] {
				t.Errorf("unexpected status value: %q", v)
			}
			delete(expected, v)
		}
		for v := range expected {
			t.Errorf("missing status value: %q", v)
		}
	} else {
		t.Errorf("status field is not a SelectField")
	}
}

func TestSetup_BOQsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("boqs")

	fields := []string{
		"boq_number", "title", "project", "status", "sections",
		"discount_percentage", "tax_percentage",
		"subtotal", "discount_amount", "tax_amount", "total_amount",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("boqs: missing field %q", f)
		}
	}

	projectField := col.Fields.GetByName("project")
	if rf, ok := projectField.(*core.RelationField); ok {
		if rf.MaxSelect != 1 {
			t.Errorf("boqs.project: expected MaxSelect=1, got %d", rf.MaxSelect)
		}
		if !rf.CascadeDelete {
			t.Error("boqs.project: expected CascadeDelete=true")
		}
	} else {
		t.Errorf("boqs.project is not a RelationField")
	}

	if _, ok := col.Fields.GetByName("sections").(*core.JSONField); !ok {
		t.Error("boqs.sections is not a JSONField")
	}

	statusField, ok := col.Fields.GetByName("status").(*core.SelectField)
	if !ok {
		t.Fatal("boqs.status is not a SelectField")
	}
	if len(statusField.Values) != 7 {
		t.Errorf("boqs.status: expected 7 values, got %d", len(statusField.Values))
	}
}

func TestSetup_QuotationsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("quotations")

	fields := []string{
		"quotation_number", "title", "customer", "project", "lead", "status",
		"sections", "service_charges", "subtotal", "total_amount", "valid_until", "terms",
	}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("quotations: missing field %q", f)
		}
	}

	statusField, ok := col.Fields.GetByName("status").(*core.SelectField)
	if !ok {
		t.Fatal("quotations.status is not a SelectField")
	}
	want := map[string]bool{"draft": true, "sent": true, "accepted": true, "rejected": true, "expired": true}
	for _, v := range statusField.Values {
		if !want[v] {
			t.Errorf("unexpected quotation status %q", v)
		}
	}
}

func TestSetup_ProductsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("products")

	fields := []string{"name", "sku", "unit", "rate", "main_category", "sub_category", "tax_percentage", "description"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("products: missing field %q", f)
		}
	}

	found := false
	for _, idx := range col.Indexes {
		if strings.Contains(idx, "idx_products_sku") {
			found = true
		}
	}
	if !found {
		t.Error("products: expected unique sku index")
	}
}

func TestSetup_LeadsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("leads")

	fields := []string{"name", "company", "email", "phone", "source", "status", "estimated_value", "customer"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("leads: missing field %q", f)
		}
	}
}
