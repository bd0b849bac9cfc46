package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildsales/services"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestListContent_EscapesTextAndSanitisesLinks(t *testing.T) {
	got := renderString(t, ListContent(ListData{
		Title:   `<script>alert("x")</script>`,
		Columns: []string{"Name"},
		Rows: []ListRow{{
			ID:    "c1",
			Cells: []Cell{{Text: "Open", Link: "javascript:alert(1)"}},
		}},
		TotalCount: 1,
	}))

	assert.Contains(t, got, `&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;`)
	assert.NotContains(t, got, "javascript:")
	assert.Contains(t, got, `href="about:invalid#TemplFailedSanitizationURL"`)
}

func TestListContent_Actions(t *testing.T) {
	got := renderString(t, ListContent(ListData{
		Title:   "Leads",
		Actions: []Action{{Label: "New Lead", URL: "/leads/new"}},
		Columns: []string{"Status"},
		Rows: []ListRow{{
			ID:      "l1",
			Cells:   []Cell{{Text: "Won", Badge: "won"}},
			Actions: []Action{{Label: "Convert", URL: "/leads/l1/convert", Method: "post", Confirm: "Convert this lead?"}},
		}},
		TotalCount: 1,
	}))

	assert.Contains(t, got, `<a href="/leads/new" class="btn btn-primary btn-sm">New Lead</a>`)
	assert.Contains(t, got, `hx-post="/leads/l1/convert"`)
	assert.Contains(t, got, `hx-confirm="Convert this lead?"`)
	assert.Contains(t, got, `<span class="badge badge-success">Won</span>`)
	assert.Contains(t, got, `<tr id="row-l1">`)
	assert.Contains(t, got, "1 total")
}

func TestListContent_EmptyAndRows(t *testing.T) {
	empty := renderString(t, ListContent(ListData{Title: "Leads", EmptyText: "No leads yet."}))
	assert.Contains(t, empty, "No leads yet.")

	got := renderString(t, ListContent(ListData{
		Title:   "Customers",
		Columns: []string{"Name"},
		Rows: []ListRow{{
			ID:      "c1",
			Cells:   []Cell{{Text: "Asha & Co", Link: "/customers/c1/edit"}},
			Actions: []Action{{Label: "Delete", URL: "/customers/c1", Method: "delete", Confirm: "Delete?"}},
		}},
		TotalCount: 1,
	}))
	assert.Contains(t, got, "Asha &amp; Co")
	assert.Contains(t, got, `hx-delete="/customers/c1"`)
}

func TestFormContent_ShowsFieldErrors(t *testing.T) {
	got := renderString(t, FormContent(FormData{
		Title:  "New Customer",
		Action: "/customers",
		Fields: []FormField{
			{Name: "name", Label: "Name", Required: true},
			{Name: "status", Label: "Status", Type: "select", Value: "b", Options: []Option{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}},
		},
		Errors: map[string]string{"name": "Name is required"},
	}))

	assert.Contains(t, got, "Name is required")
	assert.Contains(t, got, `<option value="b" selected>B</option>`)
	assert.Contains(t, got, `<option value="a">A</option>`)
	assert.Contains(t, got, `class="input input-bordered w-full input-error"`)
	assert.Contains(t, got, ` required>`)
	assert.Contains(t, got, `action="/customers"`)
}

func TestFormContent_DefaultsAndStep(t *testing.T) {
	got := renderString(t, FormContent(FormData{
		Title:     "New Product",
		Action:    "/products",
		CancelURL: "/products",
		Fields: []FormField{
			{Name: "unit_price", Label: "Unit price", Type: "number", Step: "0.01"},
			{Name: "sku", Label: "SKU"},
		},
	}))

	assert.Contains(t, got, `type="number" name="unit_price"`)
	assert.Contains(t, got, `step="0.01"`)
	assert.Contains(t, got, `type="text" name="sku"`)
	assert.Contains(t, got, `class="input input-bordered w-full"`)
	assert.Contains(t, got, ">Save</button>")
	assert.Contains(t, got, `<a href="/products" class="btn btn-ghost">Cancel</a>`)
	assert.NotContains(t, got, "required")
}

func TestTotalsPanel_ModelSpecificInputs(t *testing.T) {
	boq := renderString(t, TotalsPanel(TotalsView{BasePath: "/boq/1", Total: "₹10.00"}, false))
	assert.Contains(t, boq, `name="discount_percentage"`)
	assert.Contains(t, boq, `name="tax_percentage"`)
	assert.NotContains(t, boq, `name="service_charges"`)

	quote := renderString(t, TotalsPanel(TotalsView{IsQuotation: true, BasePath: "/quotations/1"}, true))
	assert.Contains(t, quote, `name="service_charges"`)
	assert.Contains(t, quote, `hx-swap-oob="true"`)
	assert.NotContains(t, quote, `name="tax_percentage"`)
}

func TestItemPatchResponse_CarriesOutOfBandSwaps(t *testing.T) {
	data := DocumentData{BasePath: "/boq/1", Totals: TotalsView{BasePath: "/boq/1"}}
	section := SectionView{ID: "s1", Subtotal: "₹400.00"}
	item := ItemView{ID: "i1", Number: "1.1", Total: "₹400.00"}

	got := renderString(t, ItemPatchResponse(data, section, item))

	assert.Contains(t, got, `<tr id="item-i1">`)
	assert.Contains(t, got, `hx-patch="/boq/1/sections/s1/items/i1"`)
	assert.Contains(t, got, `list="unit-options"`)
	assert.NotContains(t, got, `name="discount_type"`)
	assert.Contains(t, got, `<div id="subtotal-s1" class="font-semibold" hx-swap-oob="true">`)
	assert.Contains(t, got, `id="document-totals"`)
}

func TestImportValidationResults_ErrorsOfferReport(t *testing.T) {
	result := &services.ValidationResult{
		FileName:  "catalog.csv",
		TotalRows: 2,
		ValidRows: 1,
		ErrorRows: 1,
		Errors:    []services.ValidationError{{Row: 3, Field: "Name", Message: "Name is required"}},
	}

	got := renderString(t, ImportValidationResults(result, "", `[{"row":3}]`))

	assert.Contains(t, got, "Name is required")
	assert.Contains(t, got, `action="/products/import/errors"`)
	assert.Contains(t, got, `value="[{&#34;row&#34;:3}]"`)
	assert.Contains(t, got, "2 rows")
	assert.NotContains(t, got, "/products/import/commit")
}

func TestImportFinished_ReportsFailures(t *testing.T) {
	errs := make([]services.ValidationError, importErrorLimit+2)
	for i := range errs {
		errs[i] = services.ValidationError{Row: i + 2, Field: "SKU", Message: "already uses this SKU"}
	}

	got := renderString(t, ImportFinished(&services.ImportResult{
		TotalRows:  60,
		Created:    3,
		Updated:    5,
		Failed:     52,
		RolledBack: true,
		Errors:     errs,
	}))

	assert.Contains(t, got, "52 of 60 rows failed: 3 created, 5 updated.")
	assert.Contains(t, got, "rolled back")
	assert.Contains(t, got, "… and 2 more")

	ok := renderString(t, ImportFinished(&services.ImportResult{TotalRows: 4, Created: 4}))
	assert.Contains(t, ok, "Imported 4 rows: 4 created, 0 updated.")
	assert.NotContains(t, ok, "<table")
}

func TestPage_IncludesShell(t *testing.T) {
	got := renderString(t, Page("Projects", HeaderData{AppName: "Acme"}, SidebarData{ActivePath: "/projects"}, ListContent(ListData{Title: "Projects"})))

	assert.Contains(t, got, "<title>Projects · Acme</title>")
	assert.Contains(t, got, `href="/projects" class="active"`)
	assert.Contains(t, got, `id="toast-container"`)
	assert.Contains(t, got, "<!doctype html>")
	assert.NotContains(t, got, "menu-title")
}

func TestPage_SidebarCountsAndActiveProject(t *testing.T) {
	project := &ActiveProject{ID: "p1", Name: "Tower A"}
	got := renderString(t, Page("BOQs",
		HeaderData{ActiveProject: project, Projects: []ProjectSelectorItem{{ID: "p1", Name: "Tower A", IsActive: true}}},
		SidebarData{ActiveProject: project, ActivePath: "/projects/p1/boq/b1", BOQCount: 3},
		DetailContent(DetailData{Title: "BOQ"}),
	))

	assert.Contains(t, got, `<li class="menu-title">Tower A</li>`)
	assert.Contains(t, got, `href="/projects/p1/boq" class="active"`)
	assert.Contains(t, got, `<span class="badge badge-sm">3</span>`)
	assert.Contains(t, got, `<a class="active" hx-post="/projects/p1/activate">Tower A</a>`)
	assert.Contains(t, got, "Clear selection")
	assert.Contains(t, got, "<title>BOQs · BuildSales</title>")
}

func TestDocumentContent_QuotationColumns(t *testing.T) {
	data := DocumentData{
		IsQuotation: true,
		Kind:        "Quotation",
		BasePath:    "/quotations/q1",
		Number:      "QT-2026-001",
		Status:      "draft",
		StatusOptions: []Option{
			{Value: "draft", Label: "Draft"},
			{Value: "sent", Label: "Sent"},
		},
		PartyLabel: "Customer",
		PartyName:  "Asha & Co",
		PartyURL:   "/customers/c1",
		Sections: []SectionView{{
			ID: "s1", Number: "1", Title: "Electrical",
			Items: []ItemView{{ID: "i1", Number: "1.1", DiscountType: "percentage"}},
		}},
		Totals: TotalsView{IsQuotation: true, BasePath: "/quotations/q1"},
	}

	got := renderString(t, DocumentContent(data))

	assert.Contains(t, got, `<th>Discount</th>`)
	assert.Contains(t, got, `name="discount_type"`)
	assert.Contains(t, got, `<a class="link" href="/customers/c1">Asha &amp; Co</a>`)
	assert.Contains(t, got, `hx-confirm="Delete Quotation QT-2026-001?"`)
	assert.Contains(t, got, `<option value="draft" selected>Draft</option>`)
	assert.Contains(t, got, `href="/quotations/q1/export/excel"`)
	assert.NotContains(t, got, "No sections yet")
}
