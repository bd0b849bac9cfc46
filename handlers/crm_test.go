package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildsales/config"
	"buildsales/testhelpers"
)

func TestHandleCustomerSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"name": {"Sunita Rao"}, "company": {"Rao Interiors"}, "email": {"sunita@example.com"}}
	rec := serve(t, app, HandleCustomerSave(app), formRequest(http.MethodPost, "/customers", form))

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/customers")
	customers, err := app.FindAllRecords("customers")
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "Rao Interiors", customers[0].GetString("company"))
}

func TestHandleCustomerSave_InvalidEmail(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"name": {"Sunita Rao"}, "email": {"not-an-email"}}
	rec := serve(t, app, HandleCustomerSave(app), formRequest(http.MethodPost, "/customers", form))

	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	customers, err := app.FindAllRecords("customers")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestHandleCustomerDelete_RefusedWithQuotations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Busy")
	testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-050")

	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.Id, nil)
	req.SetPathValue("id", customer.Id)
	rec := serve(t, app, HandleCustomerDelete(app), req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	_, err := app.FindRecordById("customers", customer.Id)
	assert.NoError(t, err)
}

func TestHandleCustomerDelete(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Idle")

	req := httptest.NewRequest(http.MethodDelete, "/customers/"+customer.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", customer.Id)
	rec := serve(t, app, HandleCustomerDelete(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := app.FindRecordById("customers", customer.Id)
	assert.Error(t, err)
}

func TestHandleLeadConvert_CreatesCustomerAndQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Farah")

	req := httptest.NewRequest(http.MethodPost, "/leads/"+lead.Id+"/convert", nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", lead.Id)
	rec := serve(t, app, HandleLeadConvert(app, config.Default()), req)

	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := app.FindRecordById("leads", lead.Id)
	require.NoError(t, err)
	assert.Equal(t, "won", stored.GetString("status"))
	customerID := stored.GetString("customer")
	require.NotEmpty(t, customerID)

	customer, err := app.FindRecordById("customers", customerID)
	require.NoError(t, err)
	assert.Equal(t, "Farah", customer.GetString("name"))
	assert.Equal(t, "Farah Enterprises", customer.GetString("company"))

	quotes, err := app.FindAllRecords("quotations")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "Quotation for Farah Enterprises", quotes[0].GetString("title"))
	assert.Equal(t, lead.Id, quotes[0].GetString("lead"))
	assert.Equal(t, "draft", quotes[0].GetString("status"))
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/quotations/"+quotes[0].Id)
}

func TestHandleLeadConvert_ReusesLinkedCustomer(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Existing")
	lead := testhelpers.CreateTestLead(t, app, "Repeat")
	lead.Set("customer", customer.Id)
	require.NoError(t, app.Save(lead))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetPathValue("id", lead.Id)
	serve(t, app, HandleLeadConvert(app, config.Default()), req)

	customers, err := app.FindAllRecords("customers")
	require.NoError(t, err)
	assert.Len(t, customers, 1)
	quotes, err := app.FindAllRecords("quotations")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, customer.Id, quotes[0].GetString("customer"))
}

func TestHandleLeadConvert_LostLead(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Gone")
	lead.Set("status", "lost")
	require.NoError(t, app.Save(lead))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetPathValue("id", lead.Id)
	rec := serve(t, app, HandleLeadConvert(app, config.Default()), req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	quotes, err := app.FindAllRecords("quotations")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestHandleLeadConvert_WonLeadIsRefused(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Done Deal")
	lead.Set("status", "won")
	require.NoError(t, app.Save(lead))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetPathValue("id", lead.Id)
	rec := serve(t, app, HandleLeadConvert(app, config.Default()), req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	quotes, err := app.FindAllRecords("quotations")
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestHandleLeadConvert_QuotationFailureRollsBack(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	lead := testhelpers.CreateTestLead(t, app, "Halfway")
	quotations, err := app.FindCollectionByNameOrId("quotations")
	require.NoError(t, err)
	require.NoError(t, app.Delete(quotations))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetPathValue("id", lead.Id)
	rec := serve(t, app, HandleLeadConvert(app, config.Default()), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	stored, err := app.FindRecordById("leads", lead.Id)
	require.NoError(t, err)
	assert.NotEqual(t, "won", stored.GetString("status"))
	assert.Empty(t, stored.GetString("customer"))
	customers, err := app.FindAllRecords("customers")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestHandleLeadList_HidesConvertForClosedLeads(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	open := testhelpers.CreateTestLead(t, app, "Open")
	won := testhelpers.CreateTestLead(t, app, "Won")
	won.Set("status", "won")
	require.NoError(t, app.Save(won))

	req := httptest.NewRequest(http.MethodGet, "/leads", nil)
	req.Header.Set("HX-Request", "true")
	rec := serve(t, app, HandleLeadList(app, config.Default()), req)

	body := rec.Body.String()
	assert.Contains(t, body, "/leads/"+open.Id+"/convert")
	assert.NotContains(t, body, "/leads/"+won.Id+"/convert")
	assert.Contains(t, body, "₹2,50,000.00")
}

func TestHandleLeadSave_RejectsUnknownStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{"name": {"Odd"}, "status": {"maybe"}}
	rec := serve(t, app, HandleLeadSave(app), formRequest(http.MethodPost, "/leads", form))

	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	leads, err := app.FindAllRecords("leads")
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestHandleProductSave_SubCategoryFallsBack(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"name":          {"Copper wire 2.5 sqmm"},
		"sku":           {"EL-WR-25"},
		"unit":          {"Mtr"},
		"rate":          {"1,250"},
		"main_category": {"electrical"},
		"sub_category":  {"tiles"},
	}
	rec := serve(t, app, HandleProductSave(app), formRequest(http.MethodPost, "/products", form))

	assert.Equal(t, http.StatusOK, rec.Code)
	products, err := app.FindAllRecords("products")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1250.0, products[0].GetFloat("rate"))
	assert.Equal(t, "electrical", products[0].GetString("main_category"))
	assert.NotEqual(t, "tiles", products[0].GetString("sub_category"))
}

func TestHandleProductSave_DuplicateSKU(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProduct(t, app, "LT-001", "Downlight", 250, 18)

	form := url.Values{"name": {"Another"}, "sku": {"LT-001"}, "main_category": {"electrical"}}
	rec := serve(t, app, HandleProductSave(app), formRequest(http.MethodPost, "/products", form))

	assert.Empty(t, rec.Header().Get("HX-Redirect"))
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "already uses this SKU")
}

func TestHandleProductUpdate_KeepsOwnSKU(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	product := testhelpers.CreateTestProduct(t, app, "LT-001", "Downlight", 250, 18)

	req := formRequest(http.MethodPost, "/", url.Values{
		"name": {"Downlight 15W"}, "sku": {"LT-001"}, "rate": {"275"}, "main_category": {"electrical"},
	})
	req.SetPathValue("id", product.Id)
	rec := serve(t, app, HandleProductUpdate(app), req)

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/products")
	stored, err := app.FindRecordById("products", product.Id)
	require.NoError(t, err)
	assert.Equal(t, "Downlight 15W", stored.GetString("name"))
	assert.Equal(t, 275.0, stored.GetFloat("rate"))
}

func TestHandleProductImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProduct(t, app, "LT-001", "Old name", 100, 18)

	rows := `[{"name":"Downlight","sku":"LT-001","rate":"300"},{"name":"Switch plate","sku":"SW-002","rate":"85"}]`
	req := formRequest(http.MethodPost, "/products/import/commit", url.Values{"parsed_rows_json": {rows}})
	rec := serve(t, app, HandleProductImportCommit(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "2 products imported")

	products, err := app.FindAllRecords("products")
	require.NoError(t, err)
	assert.Len(t, products, 2)
	updated, err := app.FindFirstRecordByData("products", "sku", "LT-001")
	require.NoError(t, err)
	assert.Equal(t, "Downlight", updated.GetString("name"))
	assert.Equal(t, 300.0, updated.GetFloat("rate"))
}

func TestHandleProductImportCommit_MissingData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := serve(t, app, HandleProductImportCommit(app), formRequest(http.MethodPost, "/", url.Values{}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleProductImportValidate_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Name,SKU,Rate\nDownlight,LT-001,300\n,SW-002,85\n"
	req := multipartRequest(t, "/products/import", "file", "catalog.csv", csv)
	rec := serve(t, app, HandleProductImportValidate(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "catalog.csv", "2 rows", "errors_json")
}

func TestHandleProductImportValidate_UnsupportedFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := multipartRequest(t, "/products/import", "file", "catalog.txt", "Name\nX\n")
	rec := serve(t, app, HandleProductImportValidate(app), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleProductTemplateDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := serve(t, app, HandleProductTemplateDownload(app), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestHandleProductImportErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	errs := `[{"row":3,"field":"Name","message":"Name is required"}]`
	rec := serve(t, app, HandleProductImportErrorReport(app),
		formRequest(http.MethodPost, "/", url.Values{"errors_json": {errs}}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Product_Import_Errors_")
}

func TestHandleProductImportErrorReport_BadJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rec := serve(t, app, HandleProductImportErrorReport(app),
		formRequest(http.MethodPost, "/", url.Values{"errors_json": {"{"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
