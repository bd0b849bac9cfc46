package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/services"
	"buildsales/templates"
)

func quotationForm(e *core.RequestEvent, in services.QuotationInput, errs map[string]string) templates.FormData {
	return templates.FormData{
		Title:       "New Quotation",
		Action:      "/quotations",
		SubmitLabel: "Create Quotation",
		CancelURL:   "/quotations",
		Errors:      errs,
		Fields: []templates.FormField{
			{Name: "customer", Label: "Customer", Type: "select", Value: in.CustomerID, Options: recordOptions(e, "customers"), Required: true},
			{Name: "project", Label: "Project", Type: "select", Value: in.ProjectID, Options: recordOptions(e, "projects")},
			{Name: "lead", Label: "Lead", Type: "select", Value: in.LeadID, Options: recordOptions(e, "leads")},
			{Name: "title", Label: "Title", Value: in.Title},
			{Name: "terms", Label: "Terms & Conditions", Type: "textarea", Value: in.Terms},
		},
	}
}

// HandleQuotationCreate renders the new-quotation form. The customer,
// project and lead query parameters preselect their fields.
func HandleQuotationCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q := e.Request.URL.Query()
		in := services.QuotationInput{
			CustomerID: q.Get("customer"),
			ProjectID:  q.Get("project"),
			LeadID:     q.Get("lead"),
		}
		return renderForm(e, quotationForm(e, in, nil))
	}
}

// HandleQuotationSave creates a draft quotation and opens it.
func HandleQuotationSave(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in := services.QuotationInput{
			CustomerID: formValue(e, "customer"),
			ProjectID:  formValue(e, "project"),
			LeadID:     formValue(e, "lead"),
			Title:      formValue(e, "title"),
			Terms:      formValue(e, "terms"),
		}
		errs := services.Validate(in)
		if in.CustomerID != "" {
			if _, err := app.FindRecordById("customers", in.CustomerID); err != nil {
				errs["customer"] = "Customer not found"
			}
		}
		if in.ProjectID != "" {
			if _, err := app.FindRecordById("projects", in.ProjectID); err != nil {
				errs["project"] = "Project not found"
			}
		}
		if in.LeadID != "" {
			if _, err := app.FindRecordById("leads", in.LeadID); err != nil {
				errs["lead"] = "Lead not found"
			}
		}
		if len(errs) > 0 {
			return renderInvalid(e, quotationForm(e, in, errs))
		}

		rec, err := services.NewQuotationRecord(app, cfg, services.QuotationHeader{
			CustomerID: in.CustomerID,
			ProjectID:  in.ProjectID,
			LeadID:     in.LeadID,
			Title:      in.Title,
			Terms:      in.Terms,
		}, time.Now())
		if err != nil {
			log.Printf("quotation_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Quotation "+rec.GetString("quotation_number")+" created")
		return redirect(e, "/quotations/"+rec.Id)
	}
}
