package handlers

import (
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"buildsales/pricing"
	"buildsales/templates"
)

var titleCaser = cases.Title(language.English)

// humanize turns a select code such as "walk_in" into "Walk In".
func humanize(code string) string {
	return titleCaser.String(strings.ReplaceAll(code, "_", " "))
}

// codeOptions builds select options from stored codes.
func codeOptions(codes []string) []templates.Option {
	opts := make([]templates.Option, 0, len(codes))
	for _, c := range codes {
		opts = append(opts, templates.Option{Value: c, Label: humanize(c)})
	}
	return opts
}

func formValue(e *core.RequestEvent, name string) string {
	return strings.TrimSpace(e.Request.FormValue(name))
}

func formAmount(e *core.RequestEvent, name string) float64 {
	return pricing.ParseAmount(e.Request.FormValue(name))
}

// renderForm renders a create or edit form, as a partial for HTMX requests.
func renderForm(e *core.RequestEvent, data templates.FormData) error {
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	return render(e,
		templates.FormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		templates.FormContent(data))
}

// renderInvalid re-renders a form with its validation errors.
func renderInvalid(e *core.RequestEvent, data templates.FormData) error {
	SetToast(e, "warning", "Please fix the errors below")
	return renderForm(e, data)
}

func renderList(e *core.RequestEvent, data templates.ListData) error {
	return render(e,
		templates.ListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
		templates.ListContent(data))
}

// recordOptions lists records of a collection as select options labelled by
// their "name" field.
func recordOptions(e *core.RequestEvent, collection string) []templates.Option {
	records, err := e.App.FindRecordsByFilter(collection, "id != ''", "name", 0, 0)
	if err != nil {
		return nil
	}
	opts := make([]templates.Option, 0, len(records))
	for _, r := range records {
		opts = append(opts, templates.Option{Value: r.Id, Label: r.GetString("name")})
	}
	return opts
}

// dateInput formats a stored date for an <input type="date">.
func dateInput(rec *core.Record, field string) string {
	dt := rec.GetDateTime(field)
	if dt.IsZero() {
		return ""
	}
	return dt.Time().Format("2006-01-02")
}

// displayDate formats a stored date for tables, or "—" when unset.
func displayDate(rec *core.Record, field string) string {
	dt := rec.GetDateTime(field)
	if dt.IsZero() {
		return "—"
	}
	return dt.Time().Format("02 Jan 2006")
}
