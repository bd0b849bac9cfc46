package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/templates"
)

// HandleBOQList lists the BOQs of the {projectId} project, or every BOQ when
// the route has no project.
func HandleBOQList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")

		data := templates.ListData{Title: "All BOQs", EmptyText: "No BOQs yet."}
		filter, params := "id != ''", map[string]any{}
		if projectID != "" {
			project, err := app.FindRecordById("projects", projectID)
			if err != nil {
				return ErrorToast(e, http.StatusNotFound, "Project not found")
			}
			filter, params = "project = {:pid}", map[string]any{"pid": projectID}
			data.Title = "BOQs"
			data.Subtitle = project.GetString("name")
			data.Actions = []templates.Action{{Label: "New BOQ", URL: "/projects/" + projectID + "/boq/create"}}
		}

		records, err := app.FindRecordsByFilter(collections.BOQs, filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("boq_list: could not query boqs: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		fillBOQRows(app, cfg, &data, records, projectID == "")
		return renderList(e, data)
	}
}

func fillBOQRows(app *pocketbase.PocketBase, cfg config.Config, data *templates.ListData, records []*core.Record, showProject bool) {
	cur := services.CurrencyFrom(cfg)
	projects := map[string]string{}
	data.Columns = []string{"Number", "Title"}
	if showProject {
		data.Columns = append(data.Columns, "Project")
		if all, err := app.FindAllRecords("projects"); err == nil {
			for _, p := range all {
				projects[p.Id] = p.GetString("name")
			}
		}
	}
	data.Columns = append(data.Columns, "Status", "Total", "Updated")
	data.TotalCount = len(records)

	for _, rec := range records {
		status := pricing.Status(rec.GetString("status"))
		cells := []templates.Cell{
			{Text: rec.GetString("boq_number"), Link: "/boq/" + rec.Id},
			{Text: rec.GetString("title")},
		}
		if showProject {
			cells = append(cells, templates.Cell{Text: projects[rec.GetString("project")]})
		}
		cells = append(cells,
			templates.Cell{Text: pricing.StatusLabel(status), Badge: string(status)},
			templates.Cell{Text: cur.Format(rec.GetFloat("total_amount")), Right: true},
			templates.Cell{Text: displayDate(rec, "updated")},
		)
		data.Rows = append(data.Rows, templates.ListRow{
			ID:    rec.Id,
			Cells: cells,
			Actions: []templates.Action{
				{Label: "Excel", URL: "/boq/" + rec.Id + "/export/excel"},
				{Label: "PDF", URL: "/boq/" + rec.Id + "/export/pdf"},
				{Label: "Delete", URL: "/boq/" + rec.Id, Method: "delete", Confirm: "Delete BOQ " + rec.GetString("boq_number") + "?"},
			},
		})
	}
}
