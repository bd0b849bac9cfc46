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
	"buildsales/templates"
	"buildsales/testhelpers"
)

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func TestHandleProjectSave_CreatesProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Anand")

	form := url.Values{
		"name":       {"Lakeview Villas"},
		"customer":   {customer.Id},
		"status":     {"active"},
		"start_date": {"2026-01-10"},
		"end_date":   {"2026-06-30"},
	}
	rec := serve(t, app, HandleProjectSave(app), formRequest(http.MethodPost, "/projects", form))

	assert.Equal(t, http.StatusOK, rec.Code)
	projects, err := app.FindAllRecords("projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Lakeview Villas", projects[0].GetString("name"))
	assert.Equal(t, customer.Id, projects[0].GetString("customer"))
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+projects[0].Id)
}

func TestHandleProjectSave_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Existing")

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing name", url.Values{"status": {"active"}}, "is required"},
		{"duplicate name", url.Values{"name": {"Existing"}, "status": {"active"}}, "already exists"},
		{"unknown customer", url.Values{"name": {"New"}, "status": {"active"}, "customer": {"ghost"}}, "Customer not found"},
		{"end before start", url.Values{
			"name": {"Dates"}, "status": {"active"},
			"start_date": {"2026-05-01"}, "end_date": {"2026-04-01"},
		}, "must not be before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, app, HandleProjectSave(app), formRequest(http.MethodPost, "/projects", tt.form))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Empty(t, rec.Header().Get("HX-Redirect"))
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want)
		})
	}

	projects, err := app.FindAllRecords("projects")
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestHandleProjectUpdate_KeepsOwnName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Harbour Office")

	req := formRequest(http.MethodPost, "/", url.Values{
		"name":          {"Harbour Office"},
		"status":        {"on_hold"},
		"site_location": {"Pier 4"},
	})
	req.SetPathValue("id", project.Id)
	rec := serve(t, app, HandleProjectUpdate(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	stored, err := app.FindRecordById("projects", project.Id)
	require.NoError(t, err)
	assert.Equal(t, "on_hold", stored.GetString("status"))
	assert.Equal(t, "Pier 4", stored.GetString("site_location"))
}

func TestHandleProjectDelete_CascadesBOQsAndUnlinksQuotations(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Doomed")
	boq := testhelpers.CreateTestBOQ(t, app, project.Id, "Civil")
	customer := testhelpers.CreateTestCustomer(t, app, "Kiran")
	quote := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-009")
	quote.Set("project", project.Id)
	require.NoError(t, app.Save(quote))

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+project.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", project.Id)
	rec := serve(t, app, HandleProjectDelete(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects")

	_, err := app.FindRecordById("projects", project.Id)
	assert.Error(t, err)
	_, err = app.FindRecordById("boqs", boq.Id)
	assert.Error(t, err, "BOQs are deleted with their project")

	stored, err := app.FindRecordById("quotations", quote.Id)
	require.NoError(t, err, "quotations survive project deletion")
	assert.Empty(t, stored.GetString("project"))
}

func TestHandleProjectDelete_ClearsActiveCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Active One")

	req := newRequestWithProject("/projects/"+project.Id, &templates.ActiveProject{ID: project.Id, Name: "Active One"})
	req.Method = http.MethodDelete
	req.SetPathValue("id", project.Id)
	rec := serve(t, app, HandleProjectDelete(app), req)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == activeProjectCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "active project cookie should be cleared")
}

func TestHandleProjectDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/projects/nope", nil)
	req.SetPathValue("id", "nope")
	rec := serve(t, app, HandleProjectDelete(app), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleProjectActivate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Switch Me")

	req := httptest.NewRequest(http.MethodPost, "/projects/"+project.Id+"/activate", nil)
	req.SetPathValue("id", project.Id)
	rec := serve(t, app, HandleProjectActivate(app), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects/"+project.Id)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	var value string
	for _, c := range cookies {
		if c.Name == activeProjectCookie {
			value = c.Value
		}
	}
	assert.Equal(t, project.Id, value)
}

func TestHandleProjectActivate_UnknownProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/projects/ghost/activate", nil)
	req.SetPathValue("id", "ghost")
	rec := serve(t, app, HandleProjectActivate(app), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleProjectView_ListsRelatedDocuments(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Riverside")
	testhelpers.CreateTestBOQ(t, app, project.Id, "Finishes")
	customer := testhelpers.CreateTestCustomer(t, app, "Devi")
	quote := testhelpers.CreateTestQuotation(t, app, customer.Id, "QT-2026-021")
	quote.Set("project", project.Id)
	require.NoError(t, app.Save(quote))

	req := httptest.NewRequest(http.MethodGet, "/projects/"+project.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", project.Id)
	rec := serve(t, app, HandleProjectView(app, config.Default()), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Riverside", "Finishes", "QT-2026-021")
}
