package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"

	"buildsales/collections"
	"buildsales/templates"
)

// BuildSidebarData constructs the SidebarData from the current request context.
// Document counts are scoped to the active project; the open lead count is
// global because leads come before projects.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	data := templates.SidebarData{
		ActivePath:    r.URL.Path,
		OpenLeadCount: countOpenLeads(app),
	}

	activeProj := GetActiveProject(r)
	if activeProj == nil {
		return data
	}
	data.ActiveProject = activeProj

	params := map[string]any{"pid": activeProj.ID}
	if boqs, err := app.FindRecordsByFilter(collections.BOQs, "project = {:pid}", "", 0, 0, params); err == nil {
		data.BOQCount = len(boqs)
	}
	if quotes, err := app.FindRecordsByFilter(collections.Quotations, "project = {:pid}", "", 0, 0, params); err == nil {
		data.QuotationCount = len(quotes)
	}
	return data
}

func countOpenLeads(app *pocketbase.PocketBase) int {
	leads, err := app.FindRecordsByFilter("leads", "status != 'won' && status != 'lost'", "", 0, 0)
	if err != nil {
		return 0
	}
	return len(leads)
}
