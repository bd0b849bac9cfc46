package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/templates"
)

type contextKey string

const ActiveProjectKey contextKey = "activeProject"
const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"

const activeProjectCookie = "active_project"

// GetActiveProject extracts the active project from the request context.
func GetActiveProject(r *http.Request) *templates.ActiveProject {
	if val, ok := r.Context().Value(ActiveProjectKey).(*templates.ActiveProject); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{}
}

// ActiveProjectMiddleware reads the "active_project" cookie, loads the project
// record, builds HeaderData with the full project list, and stores both in the
// request context so handlers and templates can use them.
func ActiveProjectMiddleware(app *pocketbase.PocketBase, cfg config.Config) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeProj *templates.ActiveProject

		cookie, err := e.Request.Cookie(activeProjectCookie)
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("projects", cookie.Value)
			if err == nil {
				activeProj = &templates.ActiveProject{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active project %s not found, clearing cookie", cookie.Value)
				clearActiveProject(e)
			}
		}

		var selectorItems []templates.ProjectSelectorItem
		records, err := app.FindAllRecords("projects")
		if err != nil {
			log.Printf("middleware: could not list projects: %v", err)
		}
		for _, rec := range records {
			selectorItems = append(selectorItems, templates.ProjectSelectorItem{
				ID:       rec.Id,
				Name:     rec.GetString("name"),
				IsActive: activeProj != nil && rec.Id == activeProj.ID,
			})
		}
		sort.Slice(selectorItems, func(i, j int) bool {
			return selectorItems[i].Name < selectorItems[j].Name
		})

		headerData := templates.HeaderData{
			AppName:       cfg.AppName,
			ActiveProject: activeProj,
			Projects:      selectorItems,
		}

		ctx := context.WithValue(e.Request.Context(), ActiveProjectKey, activeProj)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		// Sidebar counts need the active project in context first.
		sidebarData := BuildSidebarData(e.Request, app)
		ctx = context.WithValue(e.Request.Context(), SidebarDataKey, sidebarData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

func clearActiveProject(e *core.RequestEvent) {
	http.SetCookie(e.Response, &http.Cookie{
		Name:   activeProjectCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// render writes partial for HTMX navigation and page for full loads.
func render(e *core.RequestEvent, page, partial templ.Component) error {
	c := page
	if isHTMX(e) {
		c = partial
	}
	return c.Render(e.Request.Context(), e.Response)
}
