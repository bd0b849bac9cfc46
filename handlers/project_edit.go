package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/services"
)

func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		in := services.ProjectInput{
			Name:            record.GetString("name"),
			ReferenceNumber: record.GetString("reference_number"),
			CustomerID:      record.GetString("customer"),
			SiteLocation:    record.GetString("site_location"),
			Status:          record.GetString("status"),
			StartDate:       dateInput(record, "start_date"),
			EndDate:         dateInput(record, "end_date"),
			Notes:           record.GetString("notes"),
		}
		path := "/projects/" + record.Id
		return renderForm(e, projectForm(e, "Edit Project", path+"/save", path, in, nil))
	}
}

func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		path := "/projects/" + record.Id
		in := projectInputFromForm(e)
		if errs := validateProject(app, in, record.Id); len(errs) > 0 {
			return renderInvalid(e, projectForm(e, "Edit Project", path+"/save", path, in, errs))
		}

		applyProject(record, in)
		if err := app.Save(record); err != nil {
			log.Printf("project_edit: could not save project %s: %v", record.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Project updated")
		return redirect(e, path)
	}
}
