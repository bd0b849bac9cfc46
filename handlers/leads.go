package handlers

import (
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/services"
	"buildsales/templates"
)

func leadInputFromForm(e *core.RequestEvent) services.LeadInput {
	return services.LeadInput{
		Name:           formValue(e, "name"),
		Company:        formValue(e, "company"),
		Email:          formValue(e, "email"),
		Phone:          formValue(e, "phone"),
		Source:         formValue(e, "source"),
		Status:         formValue(e, "status"),
		EstimatedValue: formAmount(e, "estimated_value"),
		Notes:          formValue(e, "notes"),
	}
}

func leadInputFromRecord(rec *core.Record) services.LeadInput {
	return services.LeadInput{
		Name:           rec.GetString("name"),
		Company:        rec.GetString("company"),
		Email:          rec.GetString("email"),
		Phone:          rec.GetString("phone"),
		Source:         rec.GetString("source"),
		Status:         rec.GetString("status"),
		EstimatedValue: rec.GetFloat("estimated_value"),
		Notes:          rec.GetString("notes"),
	}
}

func applyLead(rec *core.Record, in services.LeadInput) {
	rec.Set("name", in.Name)
	rec.Set("company", in.Company)
	rec.Set("email", in.Email)
	rec.Set("phone", in.Phone)
	rec.Set("source", in.Source)
	rec.Set("status", in.Status)
	rec.Set("estimated_value", in.EstimatedValue)
	rec.Set("notes", in.Notes)
}

func leadForm(title, action string, in services.LeadInput, errs map[string]string) templates.FormData {
	return templates.FormData{
		Title:     title,
		Action:    action,
		CancelURL: "/leads",
		Errors:    errs,
		Fields: []templates.FormField{
			{Name: "name", Label: "Contact Name", Value: in.Name, Required: true},
			{Name: "company", Label: "Company", Value: in.Company},
			{Name: "email", Label: "Email", Type: "email", Value: in.Email},
			{Name: "phone", Label: "Phone", Value: in.Phone},
			{Name: "source", Label: "Source", Type: "select", Value: in.Source, Options: codeOptions(collections.LeadSources)},
			{Name: "status", Label: "Status", Type: "select", Value: in.Status, Options: codeOptions(collections.LeadStatuses), Required: true},
			{Name: "estimated_value", Label: "Estimated Value", Type: "number", Step: "0.01", Value: inputNumber(in.EstimatedValue)},
			{Name: "notes", Label: "Notes", Type: "textarea", Value: in.Notes},
		},
	}
}

// HandleLeadList lists leads, newest first.
func HandleLeadList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("leads", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("lead_list: could not query leads: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		cur := services.CurrencyFrom(cfg)
		data := templates.ListData{
			Title:      "Leads",
			Actions:    []templates.Action{{Label: "New Lead", URL: "/leads/create"}},
			Columns:    []string{"Name", "Company", "Source", "Status", "Estimated Value"},
			EmptyText:  "No leads yet.",
			TotalCount: len(records),
		}
		for _, rec := range records {
			status := rec.GetString("status")
			actions := []templates.Action{}
			if !leadClosed(status) {
				actions = append(actions, templates.Action{
					Label: "Convert", URL: "/leads/" + rec.Id + "/convert", Method: "post",
					Confirm: "Create a customer and a draft quotation from this lead?",
				})
			}
			actions = append(actions,
				templates.Action{Label: "Edit", URL: "/leads/" + rec.Id + "/edit"},
				templates.Action{Label: "Delete", URL: "/leads/" + rec.Id, Method: "delete", Confirm: "Delete lead " + rec.GetString("name") + "?"},
			)
			data.Rows = append(data.Rows, templates.ListRow{
				ID: rec.Id,
				Cells: []templates.Cell{
					{Text: rec.GetString("name"), Link: "/leads/" + rec.Id + "/edit"},
					{Text: rec.GetString("company")},
					{Text: humanize(rec.GetString("source"))},
					{Text: humanize(status), Badge: status},
					{Text: cur.Format(rec.GetFloat("estimated_value")), Right: true},
				},
				Actions: actions,
			})
		}
		return renderList(e, data)
	}
}

func leadClosed(status string) bool {
	return slices.Contains([]string{"won", "lost"}, status)
}

// HandleLeadCreate renders the empty lead form.
func HandleLeadCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderForm(e, leadForm("New Lead", "/leads", services.LeadInput{Status: "new"}, nil))
	}
}

// HandleLeadSave validates and creates a lead.
func HandleLeadSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := leadInputFromForm(e)
		if errs := services.Validate(in); len(errs) > 0 {
			return renderInvalid(e, leadForm("New Lead", "/leads", in, errs))
		}

		col, err := app.FindCollectionByNameOrId("leads")
		if err != nil {
			log.Printf("lead_create: could not find leads collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		rec := core.NewRecord(col)
		applyLead(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("lead_create: could not save lead: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Lead created")
		return redirect(e, "/leads")
	}
}

// HandleLeadEdit renders the lead form filled from the record.
func HandleLeadEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		return renderForm(e, leadForm("Edit Lead", "/leads/"+rec.Id+"/save", leadInputFromRecord(rec), nil))
	}
}

// HandleLeadUpdate validates and saves an edited lead.
func HandleLeadUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := leadInputFromForm(e)
		if errs := services.Validate(in); len(errs) > 0 {
			return renderInvalid(e, leadForm("Edit Lead", "/leads/"+rec.Id+"/save", in, errs))
		}

		applyLead(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("lead_edit: could not save lead %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Lead updated")
		return redirect(e, "/leads")
	}
}

// HandleLeadDelete deletes a lead. Quotations raised from it keep existing.
func HandleLeadDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("lead_delete: failed to delete lead %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete lead")
		}
		SetToast(e, ToastSuccess, "Lead deleted")
		return redirect(e, "/leads")
	}
}

// HandleLeadConvert turns a lead into a customer, marks it won and opens a
// new draft quotation for that customer, all in one transaction. A lead
// already linked to a customer reuses it. Won and lost leads are refused.
func HandleLeadConvert(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		lead, err := app.FindRecordById("leads", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Lead not found")
		}
		switch lead.GetString("status") {
		case "lost":
			return ErrorToast(e, http.StatusConflict, "A lost lead cannot be converted")
		case "won":
			return ErrorToast(e, http.StatusConflict, "This lead has already been converted")
		}

		title := "Quotation for " + lead.GetString("name")
		if company := lead.GetString("company"); company != "" {
			title = "Quotation for " + company
		}

		var quote *core.Record
		err = app.RunInTransaction(func(txApp core.App) error {
			customerID := lead.GetString("customer")
			if customerID == "" {
				col, err := txApp.FindCollectionByNameOrId("customers")
				if err != nil {
					return err
				}
				customer := core.NewRecord(col)
				customer.Set("name", lead.GetString("name"))
				customer.Set("company", lead.GetString("company"))
				customer.Set("email", lead.GetString("email"))
				customer.Set("phone", lead.GetString("phone"))
				if err := txApp.Save(customer); err != nil {
					return err
				}
				customerID = customer.Id
			}
			lead.Set("customer", customerID)
			lead.Set("status", "won")
			if err := txApp.Save(lead); err != nil {
				return err
			}

			quote, err = services.NewQuotationRecord(txApp, cfg, services.QuotationHeader{
				CustomerID: customerID,
				LeadID:     lead.Id,
				Title:      title,
			}, time.Now())
			return err
		})
		if err != nil {
			log.Printf("lead_convert: could not convert lead %s: %v", lead.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Lead converted")
		return redirect(e, "/quotations/"+quote.Id)
	}
}
