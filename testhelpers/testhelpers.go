// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/pricing"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

func saveRecord(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestProject creates an active project with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "projects", map[string]any{
		"name":   name,
		"status": "active",
	})
}

// CreateTestCustomer creates a customer record with the given name and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "customers", map[string]any{
		"name":    name,
		"company": name + " Pvt. Ltd.",
		"email":   "contact@example.com",
		"phone":   "9876543210",
	})
}

// CreateTestLead creates a new lead with the given name and returns it.
func CreateTestLead(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "leads", map[string]any{
		"name":            name,
		"company":         name + " Enterprises",
		"email":           "lead@example.com",
		"phone":           "9123456780",
		"source":          "website",
		"status":          "new",
		"estimated_value": 250000,
	})
}

// CreateTestProduct creates a catalog product and returns it.
func CreateTestProduct(t *testing.T, app *pocketbase.PocketBase, sku, name string, rate, tax float64) *core.Record {
	t.Helper()
	return saveRecord(t, app, "products", map[string]any{
		"sku":            sku,
		"name":           name,
		"unit":           "Nos",
		"rate":           rate,
		"tax_percentage": tax,
		"main_category":  string(pricing.Electrical),
		"sub_category":   "lighting",
	})
}

// CreateTestBOQ creates an empty draft BOQ linked to a project and returns it.
func CreateTestBOQ(t *testing.T, app *pocketbase.PocketBase, projectID, title string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "boqs", map[string]any{
		"boq_number": "BOQ-TEST-" + strings.ToUpper(strings.ReplaceAll(title, " ", "")),
		"title":      title,
		"project":    projectID,
		"status":     string(pricing.StatusDraft),
		"sections":   []pricing.Section{},
	})
}

// CreateTestQuotation creates an empty draft quotation for a customer and returns it.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, customerID, number string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "quotations", map[string]any{
		"quotation_number": number,
		"title":            "Quotation " + number,
		"customer":         customerID,
		"status":           string(pricing.StatusDraft),
		"sections":         []pricing.Section{},
	})
}

// SaveTestDocument writes a priced document onto a boq or quotation record.
func SaveTestDocument(t *testing.T, app *pocketbase.PocketBase, record *core.Record, doc pricing.Document) {
	t.Helper()

	collections.WriteDocument(record, pricing.Recalculate(doc))
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test document: %v", err)
	}
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
