package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
)

// HandleProjectDelete deletes a project. Its BOQs go with it; quotations are
// kept and only lose the project link.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		projectRecord, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		var unlinked int
		err = app.RunInTransaction(func(txApp core.App) error {
			quotes, err := txApp.FindRecordsByFilter(collections.Quotations, "project = {:pid}", "", 0, 0, map[string]any{"pid": projectID})
			if err != nil {
				return err
			}
			for _, q := range quotes {
				q.Set("project", "")
				if err := txApp.Save(q); err != nil {
					return err
				}
			}
			unlinked = len(quotes)
			return txApp.Delete(projectRecord)
		})
		if err != nil {
			log.Printf("project_delete: failed to delete project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete project")
		}

		log.Printf("project_delete: deleted project %s (quotations unlinked=%d)", projectID, unlinked)

		if active := GetActiveProject(e.Request); active != nil && active.ID == projectID {
			clearActiveProject(e)
		}
		SetToast(e, ToastSuccess, "Project deleted")
		return redirect(e, "/projects")
	}
}
