package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/services"
	"buildsales/templates"
)

func projectInputFromForm(e *core.RequestEvent) services.ProjectInput {
	return services.ProjectInput{
		Name:            formValue(e, "name"),
		ReferenceNumber: formValue(e, "reference_number"),
		CustomerID:      formValue(e, "customer"),
		SiteLocation:    formValue(e, "site_location"),
		Status:          formValue(e, "status"),
		StartDate:       formValue(e, "start_date"),
		EndDate:         formValue(e, "end_date"),
		Notes:           formValue(e, "notes"),
	}
}

func applyProject(rec *core.Record, in services.ProjectInput) {
	rec.Set("name", in.Name)
	rec.Set("reference_number", in.ReferenceNumber)
	rec.Set("customer", in.CustomerID)
	rec.Set("site_location", in.SiteLocation)
	rec.Set("status", in.Status)
	rec.Set("start_date", in.StartDate)
	rec.Set("end_date", in.EndDate)
	rec.Set("notes", in.Notes)
}

func projectForm(e *core.RequestEvent, title, action, cancel string, in services.ProjectInput, errs map[string]string) templates.FormData {
	return templates.FormData{
		Title:     title,
		Action:    action,
		CancelURL: cancel,
		Errors:    errs,
		Fields: []templates.FormField{
			{Name: "name", Label: "Project Name", Value: in.Name, Required: true},
			{Name: "reference_number", Label: "Reference Number", Value: in.ReferenceNumber},
			{Name: "customer", Label: "Customer", Type: "select", Value: in.CustomerID, Options: recordOptions(e, "customers")},
			{Name: "site_location", Label: "Site Location", Value: in.SiteLocation},
			{Name: "status", Label: "Status", Type: "select", Value: in.Status, Options: codeOptions(collections.ProjectStatuses), Required: true},
			{Name: "start_date", Label: "Start Date", Type: "date", Value: in.StartDate},
			{Name: "end_date", Label: "End Date", Type: "date", Value: in.EndDate},
			{Name: "notes", Label: "Notes", Type: "textarea", Value: in.Notes},
		},
	}
}

// validateProject runs the tag rules plus the checks that need the store.
// excludeID skips the project being edited in the duplicate-name check.
func validateProject(app *pocketbase.PocketBase, in services.ProjectInput, excludeID string) map[string]string {
	errs := services.Validate(in)
	if in.Name != "" {
		existing, _ := app.FindRecordsByFilter(
			"projects",
			"name = {:name} && id != {:id}",
			"", 1, 0,
			map[string]any{"name": in.Name, "id": excludeID},
		)
		if len(existing) > 0 {
			errs["name"] = "A project with this name already exists"
		}
	}
	if in.CustomerID != "" {
		if _, err := app.FindRecordById("customers", in.CustomerID); err != nil {
			errs["customer"] = "Customer not found"
		}
	}
	if in.StartDate != "" && in.EndDate != "" && in.EndDate < in.StartDate {
		errs["end_date"] = "End date must not be before the start date"
	}
	return errs
}

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in := services.ProjectInput{Status: "active"}
		return renderForm(e, projectForm(e, "New Project", "/projects", "/projects", in, nil))
	}
}

func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in := projectInputFromForm(e)
		if errs := validateProject(app, in, ""); len(errs) > 0 {
			return renderInvalid(e, projectForm(e, "New Project", "/projects", "/projects", in, errs))
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		record := core.NewRecord(projectsCol)
		applyProject(record, in)
		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Project created successfully")
		return redirect(e, "/projects/"+record.Id)
	}
}
