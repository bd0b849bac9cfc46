package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/templates"
)

// HandleProjectView shows a project with its BOQs and quotations.
func HandleProjectView(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_view: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		params := map[string]any{"pid": projectID}
		boqs, _ := app.FindRecordsByFilter(collections.BOQs, "project = {:pid}", "-created", 0, 0, params)
		quotes, _ := app.FindRecordsByFilter(collections.Quotations, "project = {:pid}", "-created", 0, 0, params)

		customerID := record.GetString("customer")
		customerName := "—"
		if c, err := app.FindRecordById("customers", customerID); err == nil {
			customerName = c.GetString("name")
		}

		status := record.GetString("status")
		data := templates.DetailData{
			Title:  record.GetString("name"),
			Status: status,
			Label:  humanize(status),
			Actions: []templates.Action{
				{Label: "Activate", URL: "/projects/" + projectID + "/activate", Method: "post"},
				{Label: "Edit", URL: "/projects/" + projectID + "/edit"},
			},
			Fields: []templates.Detail{
				{Label: "Reference", Value: record.GetString("reference_number")},
				{Label: "Customer", Value: customerName},
				{Label: "Site", Value: record.GetString("site_location")},
				{Label: "Start", Value: displayDate(record, "start_date")},
				{Label: "End", Value: displayDate(record, "end_date")},
				{Label: "Created", Value: displayDate(record, "created")},
				{Label: "Notes", Value: record.GetString("notes")},
			},
		}

		boqList := templates.ListData{
			Title:     "BOQs",
			Actions:   []templates.Action{{Label: "New BOQ", URL: "/projects/" + projectID + "/boq/create"}},
			EmptyText: "No BOQs for this project yet.",
		}
		fillBOQRows(app, cfg, &boqList, boqs, false)

		newQuote := "/quotations/create?project=" + projectID
		if customerID != "" {
			newQuote += "&customer=" + customerID
		}
		quoteList := templates.ListData{
			Title:     "Quotations",
			Actions:   []templates.Action{{Label: "New Quotation", URL: newQuote}},
			EmptyText: "No quotations for this project yet.",
		}
		fillQuotationRows(app, cfg, &quoteList, quotes)

		data.Related = []templates.ListData{boqList, quoteList}
		return render(e,
			templates.DetailPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			templates.DetailContent(data))
	}
}
