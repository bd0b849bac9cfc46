package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/templates"
)

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "name", 0, 0)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		customers := customerNames(app)
		data := templates.ListData{
			Title:      "Projects",
			Actions:    []templates.Action{{Label: "New Project", URL: "/projects/create"}},
			Columns:    []string{"Name", "Reference", "Customer", "Status", "BOQs", "Quotations"},
			EmptyText:  "No projects yet. Create one to start pricing.",
			TotalCount: len(records),
		}
		for _, rec := range records {
			params := map[string]any{"pid": rec.Id}
			boqs, _ := app.FindRecordsByFilter(collections.BOQs, "project = {:pid}", "", 0, 0, params)
			quotes, _ := app.FindRecordsByFilter(collections.Quotations, "project = {:pid}", "", 0, 0, params)

			status := rec.GetString("status")
			data.Rows = append(data.Rows, templates.ListRow{
				ID: rec.Id,
				Cells: []templates.Cell{
					{Text: rec.GetString("name"), Link: "/projects/" + rec.Id},
					{Text: rec.GetString("reference_number")},
					{Text: customers[rec.GetString("customer")]},
					{Text: humanize(status), Badge: status},
					{Text: strconv.Itoa(len(boqs)), Right: true},
					{Text: strconv.Itoa(len(quotes)), Right: true},
				},
				Actions: []templates.Action{
					{Label: "Activate", URL: "/projects/" + rec.Id + "/activate", Method: "post"},
					{Label: "Edit", URL: "/projects/" + rec.Id + "/edit"},
					{Label: "Delete", URL: "/projects/" + rec.Id, Method: "delete",
						Confirm: "Delete project " + rec.GetString("name") + " and all of its BOQs?"},
				},
			})
		}
		return renderList(e, data)
	}
}

// customerNames maps customer ids to names for list cells.
func customerNames(app *pocketbase.PocketBase) map[string]string {
	names := map[string]string{}
	records, err := app.FindAllRecords("customers")
	if err != nil {
		return names
	}
	for _, r := range records {
		names[r.Id] = r.GetString("name")
	}
	return names
}
