package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"buildsales/config"
	"buildsales/templates"
	"buildsales/testhelpers"
)

func TestGetActiveProject_FromContext(t *testing.T) {
	expected := &templates.ActiveProject{ID: "test123", Name: "Test Project"}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), ActiveProjectKey, expected)
	req = req.WithContext(ctx)

	got := GetActiveProject(req)
	if got == nil {
		t.Fatal("expected active project, got nil")
	}
	if got.ID != expected.ID {
		t.Errorf("expected ID %q, got %q", expected.ID, got.ID)
	}
}

func TestGetActiveProject_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetActiveProject(req)
	if got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestGetHeaderData_FromContext(t *testing.T) {
	expected := templates.HeaderData{
		ActiveProject: &templates.ActiveProject{ID: "p1", Name: "Proj"},
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), HeaderDataKey, expected)
	req = req.WithContext(ctx)

	got := GetHeaderData(req)
	if got.ActiveProject == nil {
		t.Fatal("expected active project in header data")
	}
	if got.ActiveProject.ID != "p1" {
		t.Errorf("expected ID 'p1', got %q", got.ActiveProject.ID)
	}
}

func TestGetHeaderData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetHeaderData(req)
	if got.ActiveProject != nil {
		t.Error("expected nil active project")
	}
}

func TestGetSidebarData_FromContext(t *testing.T) {
	expected := templates.SidebarData{
		ActiveProject: &templates.ActiveProject{ID: "p1", Name: "Test"},
		ActivePath:    "/projects",
		BOQCount:      5,
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), SidebarDataKey, expected)
	req = req.WithContext(ctx)

	got := GetSidebarData(req)
	if got.ActiveProject == nil || got.ActiveProject.ID != "p1" {
		t.Error("expected active project with ID p1")
	}
	if got.BOQCount != 5 {
		t.Errorf("expected BOQCount 5, got %d", got.BOQCount)
	}
}

func TestGetSidebarData_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	got := GetSidebarData(req)
	if got.ActiveProject != nil {
		t.Error("expected nil active project in empty sidebar data")
	}
}

func TestActiveProjectMiddleware_NoCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "MW Test Project")

	middleware := ActiveProjectMiddleware(app, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	// The middleware calls e.Next() which we can't easily mock with core.RequestEvent
	// Instead, just verify it doesn't panic and returns nil when Next is the default no-op
	err := middleware(e)
	// e.Next() with no handler set will return nil in PocketBase
	_ = err
}

func TestActiveProjectMiddleware_WithCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Cookie MW Project")

	middleware := ActiveProjectMiddleware(app, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: project.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	err := middleware(e)
	_ = err

	// After middleware runs, the request context should have the active project
	activeProject := GetActiveProject(e.Request)
	if activeProject == nil {
		t.Fatal("expected active project in context after middleware")
	}
	if activeProject.Name != "Cookie MW Project" {
		t.Errorf("expected 'Cookie MW Project', got %q", activeProject.Name)
	}

	// Header data should also be in context
	headerData := GetHeaderData(e.Request)
	if headerData.ActiveProject == nil {
		t.Error("expected active project in header data")
	}
}

func TestActiveProjectMiddleware_InvalidCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	middleware := ActiveProjectMiddleware(app, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: "nonexistent_id"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	err := middleware(e)
	_ = err

	// Active project should be nil for invalid cookie
	activeProject := GetActiveProject(e.Request)
	if activeProject != nil {
		t.Error("expected nil active project for invalid cookie")
	}
}

func TestActiveProjectMiddleware_HeaderListsProjectsSorted(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Zenith Towers")
	active := testhelpers.CreateTestProject(t, app, "Alpine Heights")

	cfg := config.Default()
	cfg.AppName = "Acme Sales"
	middleware := ActiveProjectMiddleware(app, cfg)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: active.Id})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	_ = middleware(e)

	header := GetHeaderData(e.Request)
	if header.AppName != "Acme Sales" {
		t.Errorf("expected AppName 'Acme Sales', got %q", header.AppName)
	}
	if len(header.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(header.Projects))
	}
	if header.Projects[0].Name != "Alpine Heights" || !header.Projects[0].IsActive {
		t.Errorf("expected active 'Alpine Heights' first, got %+v", header.Projects[0])
	}
	if header.Projects[1].IsActive {
		t.Error("expected second project to be inactive")
	}
}

func TestActiveProjectMiddleware_InvalidCookieIsCleared(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	middleware := ActiveProjectMiddleware(app, config.Default())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: "missing"})
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	_ = middleware(e)

	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected active_project cookie to be cleared")
	}
}
