// Package templates renders pages and HTMX partials as templ components.
package templates

import (
	"strings"

	"github.com/a-h/templ"

	"buildsales/services"
)

// Option is a value/label pair for a select element.
type Option = services.Option

func badgeClass(status string) string {
	switch status {
	case "active", "approved", "accepted", "won":
		return "badge-success"
	case "completed", "sent", "sent_to_client", "qualified", "proposal":
		return "badge-info"
	case "on_hold", "under_review", "contacted":
		return "badge-warning"
	case "rejected", "expired", "cancelled", "lost":
		return "badge-error"
	default:
		return "badge-ghost"
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// navActive reports whether path is href or a page below it.
func navActive(path, href string) bool {
	return path == href || strings.HasPrefix(path, href+"/")
}

// hxAttrs maps a non-GET action onto its hx-<method> attribute.
func (a Action) hxAttrs() templ.Attributes {
	attrs := templ.Attributes{"hx-" + a.Method: a.URL}
	if a.Confirm != "" {
		attrs["hx-confirm"] = a.Confirm
	}
	return attrs
}

func (a Action) isLink() bool {
	return a.Method == "" || a.Method == "get"
}

func itemPath(data DocumentData, sectionID, itemID string) string {
	return data.BasePath + "/sections/" + sectionID + "/items/" + itemID
}
