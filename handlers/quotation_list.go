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

// HandleQuotationList lists quotations, newest first. A ?status= query
// narrows the list to one workflow state.
func HandleQuotationList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		filter, params := "id != ''", map[string]any{}
		subtitle := ""
		if s := pricing.Status(e.Request.URL.Query().Get("status")); s != "" {
			if !pricing.IsStatus(pricing.ModelQuotation, s) {
				return ErrorToast(e, http.StatusBadRequest, "Unknown status")
			}
			filter, params = "status = {:status}", map[string]any{"status": string(s)}
			subtitle = pricing.StatusLabel(s)
		}

		records, err := app.FindRecordsByFilter(collections.Quotations, filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("quotation_list: could not query quotations: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.ListData{
			Title:     "Quotations",
			Subtitle:  subtitle,
			Actions:   []templates.Action{{Label: "New Quotation", URL: "/quotations/create"}},
			EmptyText: "No quotations yet.",
		}
		fillQuotationRows(app, cfg, &data, records)
		return renderList(e, data)
	}
}

func fillQuotationRows(app *pocketbase.PocketBase, cfg config.Config, data *templates.ListData, records []*core.Record) {
	cur := services.CurrencyFrom(cfg)
	customers := customerNames(app)
	data.Columns = []string{"Number", "Title", "Customer", "Status", "Total", "Valid Until"}
	data.TotalCount = len(records)

	for _, rec := range records {
		status := pricing.Status(rec.GetString("status"))
		data.Rows = append(data.Rows, templates.ListRow{
			ID: rec.Id,
			Cells: []templates.Cell{
				{Text: rec.GetString("quotation_number"), Link: "/quotations/" + rec.Id},
				{Text: rec.GetString("title")},
				{Text: customers[rec.GetString("customer")]},
				{Text: pricing.StatusLabel(status), Badge: string(status)},
				{Text: cur.Format(rec.GetFloat("total_amount")), Right: true},
				{Text: displayDate(rec, "valid_until")},
			},
			Actions: []templates.Action{
				{Label: "Excel", URL: "/quotations/" + rec.Id + "/export/excel"},
				{Label: "PDF", URL: "/quotations/" + rec.Id + "/export/pdf"},
				{Label: "Delete", URL: "/quotations/" + rec.Id, Method: "delete", Confirm: "Delete quotation " + rec.GetString("quotation_number") + "?"},
			},
		})
	}
}
