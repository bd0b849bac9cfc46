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

func boqForm(projectID string, in services.BOQInput, errs map[string]string) templates.FormData {
	return templates.FormData{
		Title:       "New BOQ",
		Action:      "/projects/" + projectID + "/boq",
		SubmitLabel: "Create BOQ",
		CancelURL:   "/projects/" + projectID + "/boq",
		Errors:      errs,
		Fields: []templates.FormField{
			{Name: "title", Label: "Title", Value: in.Title, Required: true, Placeholder: "e.g. Civil & Interior Works"},
			{Name: "notes", Label: "Notes", Type: "textarea", Value: in.Notes},
		},
	}
}

// HandleBOQCreate renders the new-BOQ form for a project.
func HandleBOQCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		return renderForm(e, boqForm(projectID, services.BOQInput{ProjectID: projectID}, nil))
	}
}

// HandleBOQSave creates a draft BOQ with a generated number and opens it.
func HandleBOQSave(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in := services.BOQInput{
			ProjectID: projectID,
			Title:     formValue(e, "title"),
			Notes:     formValue(e, "notes"),
		}
		if errs := services.Validate(in); len(errs) > 0 {
			return renderInvalid(e, boqForm(projectID, in, errs))
		}

		rec, err := services.NewBOQRecord(app, cfg, services.BOQHeader{
			ProjectID: in.ProjectID,
			Title:     in.Title,
			Notes:     in.Notes,
		}, time.Now())
		if err != nil {
			log.Printf("boq_create: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "BOQ "+rec.GetString("boq_number")+" created")
		return redirect(e, "/boq/"+rec.Id)
	}
}
