package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectActivate sets the active project cookie and returns a full page
// redirect via HX-Redirect so the entire shell (header + sidebar) re-renders.
func HandleProjectActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		// 30-day expiry
		http.SetCookie(e.Response, &http.Cookie{
			Name:     activeProjectCookie,
			Value:    projectID,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, ToastSuccess, "Project activated")
		e.Response.Header().Set("HX-Redirect", "/projects/"+projectID)
		return e.String(http.StatusOK, "OK")
	}
}

// HandleProjectDeactivate clears the active project cookie and redirects to /projects.
func HandleProjectDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		clearActiveProject(e)
		SetToast(e, ToastSuccess, "Project deactivated")
		e.Response.Header().Set("HX-Redirect", "/projects")
		return e.String(http.StatusOK, "OK")
	}
}
