package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/testhelpers"
)

// docFixture is a stored document with one section holding one item.
type docFixture struct {
	record    *core.Record
	sectionID string
	itemID    string
}

// seedBOQ stores a BOQ with a "Lighting" section holding 10 × 100.
func seedBOQ(t *testing.T, app *pocketbase.PocketBase) docFixture {
	t.Helper()
	project := testhelpers.CreateTestProject(t, app, "Tower A")
	rec := testhelpers.CreateTestBOQ(t, app, project.Id, "Electrical")
	return seedDocument(t, app, rec, pricing.ModelBOQ)
}

// seedQuotation stores a quotation with a "Lighting" section holding 10 × 100.
func seedQuotation(t *testing.T, app *pocketbase.PocketBase) docFixture {
	t.Helper()
	customer := testhelpers.CreateTestCustomer(t, app, "Meera")
	rec := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-001")
	return seedDocument(t, app, rec, pricing.ModelQuotation)
}

func seedDocument(t *testing.T, app *pocketbase.PocketBase, rec *core.Record, model pricing.Model) docFixture {
	t.Helper()
	doc := pricing.NewDocument(model)
	doc, section := pricing.AddSection(doc, "Lighting")
	doc, item, err := pricing.AddItem(doc, section.ID, pricing.ItemDefaults{Unit: "Nos"})
	require.NoError(t, err)
	doc, _, err = pricing.UpdateItem(doc, section.ID, item.ID, pricing.SetDescription{Value: "LED panel"})
	require.NoError(t, err)
	doc, _, err = pricing.UpdateItem(doc, section.ID, item.ID, pricing.SetQuantity{Value: 10})
	require.NoError(t, err)
	doc, _, err = pricing.UpdateItem(doc, section.ID, item.ID, pricing.SetUnitRate{Value: 100})
	require.NoError(t, err)
	testhelpers.SaveTestDocument(t, app, rec, doc)
	return docFixture{record: rec, sectionID: section.ID, itemID: item.ID}
}

// docRequest builds a form request with the document path values set.
func docRequest(method, target string, form url.Values, f docFixture) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.SetPathValue("id", f.record.Id)
	req.SetPathValue("sectionId", f.sectionID)
	req.SetPathValue("itemId", f.itemID)
	return req
}

func serve(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func reload(t *testing.T, app *pocketbase.PocketBase, kind DocKind, id string) pricing.Document {
	t.Helper()
	doc, _, err := services.LoadDocument(app, kind.Collection, id)
	require.NoError(t, err)
	return doc
}

func TestHandleDocumentView_RendersEditor(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)
	cfg := config.Default()

	req := docRequest(http.MethodGet, "/boq/"+f.record.Id, nil, f)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, app, HandleDocumentView(app, cfg, BOQDocs), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="document-editor"`,
		"Lighting",
		"LED panel",
		"₹1,000.00",
		`href="/boq/`+f.record.Id+`/export/pdf"`,
		"Tower A",
	)
}

func TestHandleDocumentView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/quotations/missing", nil)
	req.SetPathValue("id", "missing")
	rec := serve(t, app, HandleDocumentView(app, config.Default(), QuotationDocs), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "none", rec.Header().Get("HX-Reswap"))
}

func TestHandleItemPatch_UpdatesQuantity(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	req := docRequest(http.MethodPatch, "/boq/x/sections/s/items/i", url.Values{"quantity": {"4"}}, f)
	rec := serve(t, app, HandleItemPatch(app, config.Default(), BOQDocs), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="item-`+f.itemID+`"`,
		`id="subtotal-`+f.sectionID+`"`,
		`id="document-totals"`,
		"₹400.00",
	)

	doc := reload(t, app, BOQDocs, f.record.Id)
	item, err := pricing.FindItem(doc, f.sectionID, f.itemID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, item.Quantity)
	assert.Equal(t, 400.0, item.TotalAmount)
	assert.Equal(t, 400.0, doc.Subtotal)
}

func TestHandleItemPatch_QuotationDiscount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedQuotation(t, app)
	handler := HandleItemPatch(app, config.Default(), QuotationDocs)

	serve(t, app, handler, docRequest(http.MethodPatch, "/", url.Values{"discount": {"10"}}, f))
	serve(t, app, handler, docRequest(http.MethodPatch, "/", url.Values{"tax": {"18"}}, f))

	doc := reload(t, app, QuotationDocs, f.record.Id)
	item, err := pricing.FindItem(doc, f.sectionID, f.itemID)
	require.NoError(t, err)
	// 1000 less 10% is 900, plus 18% tax is 1062.
	assert.InDelta(t, 1062.0, item.TotalAmount, 0.001)
	assert.InDelta(t, 1062.0, doc.TotalAmount, 0.001)
}

func TestHandleItemPatch_RejectsMultipleFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	form := url.Values{"quantity": {"4"}, "unit_rate": {"50"}}
	rec := serve(t, app, HandleItemPatch(app, config.Default(), BOQDocs), docRequest(http.MethodPatch, "/", form, f))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	item, err := pricing.FindItem(reload(t, app, BOQDocs, f.record.Id), f.sectionID, f.itemID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, item.Quantity)
}

func TestHandleItemPatch_UnknownField(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	rec := serve(t, app, HandleItemPatch(app, config.Default(), BOQDocs),
		docRequest(http.MethodPatch, "/", url.Values{"colour": {"red"}}, f))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleItemPatch_ItemNotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)
	f.itemID = "missing"

	rec := serve(t, app, HandleItemPatch(app, config.Default(), BOQDocs),
		docRequest(http.MethodPatch, "/", url.Values{"quantity": {"1"}}, f))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSectionAdd(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	rec := serve(t, app, HandleSectionAdd(app, config.Default(), BOQDocs),
		docRequest(http.MethodPost, "/", url.Values{"title": {"Plumbing"}}, f))

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Plumbing", "Lighting")

	doc := reload(t, app, BOQDocs, f.record.Id)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Plumbing", doc.Sections[1].Title)
	assert.Equal(t, "2.0", doc.Sections[1].SectionNumber)
}

func TestHandleSectionAdd_DefaultTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	serve(t, app, HandleSectionAdd(app, config.Default(), BOQDocs), docRequest(http.MethodPost, "/", url.Values{}, f))

	doc := reload(t, app, BOQDocs, f.record.Id)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "New Section", doc.Sections[1].Title)
}

func TestHandleSectionRename(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedQuotation(t, app)

	rec := serve(t, app, HandleSectionRename(app, QuotationDocs),
		docRequest(http.MethodPatch, "/", url.Values{"title": {"Lighting & Fans"}}, f))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	doc := reload(t, app, QuotationDocs, f.record.Id)
	assert.Equal(t, "Lighting & Fans", doc.Sections[0].Title)
}

func TestHandleSectionRename_EmptyTitle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedQuotation(t, app)

	rec := serve(t, app, HandleSectionRename(app, QuotationDocs),
		docRequest(http.MethodPatch, "/", url.Values{"title": {"  "}}, f))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSectionDelete_DropsItemsAndTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	rec := serve(t, app, HandleSectionDelete(app, config.Default(), BOQDocs), docRequest(http.MethodDelete, "/", nil, f))

	assert.Equal(t, http.StatusOK, rec.Code)
	doc := reload(t, app, BOQDocs, f.record.Id)
	assert.Empty(t, doc.Sections)
	assert.Zero(t, doc.TotalAmount)
}

func TestHandleItemAdd_QuotationDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedQuotation(t, app)

	rec := serve(t, app, HandleItemAdd(app, config.Default(), QuotationDocs), docRequest(http.MethodPost, "/", nil, f))

	assert.Equal(t, http.StatusOK, rec.Code)
	doc := reload(t, app, QuotationDocs, f.record.Id)
	require.Len(t, doc.Sections[0].Items, 2)
	added := doc.Sections[0].Items[1]
	assert.Equal(t, "Nos", added.Unit)
	assert.Equal(t, 18.0, added.Tax)
	assert.Equal(t, "1.2", added.ItemNumber)
}

func TestHandleItemDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	serve(t, app, HandleItemDelete(app, config.Default(), BOQDocs), docRequest(http.MethodDelete, "/", nil, f))

	doc := reload(t, app, BOQDocs, f.record.Id)
	assert.Empty(t, doc.Sections[0].Items)
	assert.Zero(t, doc.Sections[0].Subtotal)
}

func TestHandleItemProduct_CopiesCatalogData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedQuotation(t, app)
	product := testhelpers.CreateTestProduct(t, app, "LT-001", "Downlight 12W", 250, 12)

	rec := serve(t, app, HandleItemProduct(app, config.Default(), QuotationDocs),
		docRequest(http.MethodPost, "/", url.Values{"product": {product.Id}}, f))

	assert.Equal(t, http.StatusOK, rec.Code)
	item, err := pricing.FindItem(reload(t, app, QuotationDocs, f.record.Id), f.sectionID, f.itemID)
	require.NoError(t, err)
	assert.Equal(t, product.Id, item.ProductID)
	assert.Equal(t, "Downlight 12W", item.Description)
	assert.Equal(t, 250.0, item.UnitRate)
	assert.Equal(t, 12.0, item.Tax)
	assert.Equal(t, 10.0, item.Quantity)
}

func TestHandleItemProduct_MergesDuplicate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)
	product := testhelpers.CreateTestProduct(t, app, "LT-002", "Batten 20W", 300, 18)
	handler := HandleItemProduct(app, config.Default(), BOQDocs)

	serve(t, app, handler, docRequest(http.MethodPost, "/", url.Values{"product": {product.Id}}, f))

	doc := reload(t, app, BOQDocs, f.record.Id)
	doc, second, err := pricing.AddItem(doc, f.sectionID, pricing.ItemDefaults{Unit: "Nos"})
	require.NoError(t, err)
	_, rec, err := services.LoadBOQ(app, f.record.Id)
	require.NoError(t, err)
	_, err = services.SaveDocument(app, rec, doc)
	require.NoError(t, err)

	other := f
	other.itemID = second.ID
	serve(t, app, handler, docRequest(http.MethodPost, "/", url.Values{"product": {product.Id}}, other))

	doc = reload(t, app, BOQDocs, f.record.Id)
	require.Len(t, doc.Sections[0].Items, 1)
	assert.Equal(t, 11.0, doc.Sections[0].Items[0].Quantity)
	assert.Equal(t, 3300.0, doc.TotalAmount)
}

func TestHandleItemProduct_UnknownProduct(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	rec := serve(t, app, HandleItemProduct(app, config.Default(), BOQDocs),
		docRequest(http.MethodPost, "/", url.Values{"product": {"nope"}}, f))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRenumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)

	doc := reload(t, app, BOQDocs, f.record.Id)
	doc, _ = pricing.AddSection(doc, "Cabling")
	doc, err := pricing.RemoveSection(doc, f.sectionID)
	require.NoError(t, err)
	_, rec, err := services.LoadBOQ(app, f.record.Id)
	require.NoError(t, err)
	_, err = services.SaveDocument(app, rec, doc)
	require.NoError(t, err)
	assert.Equal(t, "2.0", reload(t, app, BOQDocs, f.record.Id).Sections[0].SectionNumber)

	resp := serve(t, app, HandleRenumber(app, config.Default(), BOQDocs), docRequest(http.MethodPost, "/", nil, f))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("HX-Trigger"), "Renumbered")
	assert.Equal(t, "1.0", reload(t, app, BOQDocs, f.record.Id).Sections[0].SectionNumber)
}

func TestHandleDocumentDelete_RedirectsToProjectList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := seedBOQ(t, app)
	projectID := f.record.GetString("project")

	req := docRequest(http.MethodDelete, "/", nil, f)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, app, HandleDocumentDelete(app, BOQDocs), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+projectID+"/boq")
	_, err := app.FindRecordById("boqs", f.record.Id)
	assert.Error(t, err)
}
