package handlers

import (
	"math"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/templates"
)

// HandleDocumentStatus moves a document to the status in the "status" form
// value. Disallowed moves answer 409 and leave the record untouched.
func HandleDocumentStatus(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rec, err := services.LoadDocument(app, kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, kind, "document_status", err)
		}

		from := pricing.Status(rec.GetString("status"))
		to := pricing.Status(e.Request.FormValue("status"))
		if err := pricing.Transition(kind.Model, from, to, cfg.StrictStatusFlow); err != nil {
			return documentError(e, kind, "document_status", err)
		}

		rec.Set("status", string(to))
		doc, err = services.SaveDocument(app, rec, doc)
		if err != nil {
			return documentError(e, kind, "document_status", err)
		}
		SetToast(e, ToastSuccess, kind.Label+" marked "+pricing.StatusLabel(to))
		return renderEditor(e, app, cfg, kind, doc, rec)
	}
}

// HandleBOQTotals sets the document-level discount and tax percentages of a
// BOQ and replies with the refreshed totals panel.
func HandleBOQTotals(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rec, err := services.LoadBOQ(app, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, BOQDocs, "boq_totals", err)
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		if raw, ok := e.Request.PostForm["discount_percentage"]; ok && len(raw) > 0 {
			doc.DiscountPercentage = clampPercent(pricing.ParseAmount(raw[0]))
		}
		if raw, ok := e.Request.PostForm["tax_percentage"]; ok && len(raw) > 0 {
			doc.TaxPercentage = clampPercent(pricing.ParseAmount(raw[0]))
		}

		doc, err = services.SaveDocument(app, rec, doc)
		if err != nil {
			return documentError(e, BOQDocs, "boq_totals", err)
		}
		return renderTotals(e, cfg, BOQDocs, rec.Id, doc)
	}
}

// HandleQuotationServiceCharges sets the flat service charges added on top
// of a quotation's subtotal.
func HandleQuotationServiceCharges(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rec, err := services.LoadQuotation(app, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, QuotationDocs, "quotation_service_charges", err)
		}

		doc.ServiceCharges = pricing.ParseAmount(e.Request.FormValue("service_charges"))
		doc, err = services.SaveDocument(app, rec, doc)
		if err != nil {
			return documentError(e, QuotationDocs, "quotation_service_charges", err)
		}
		return renderTotals(e, cfg, QuotationDocs, rec.Id, doc)
	}
}

func renderTotals(e *core.RequestEvent, cfg config.Config, kind DocKind, id string, doc pricing.Document) error {
	panel := templates.TotalsPanel(totalsView(kind, id, doc, services.CurrencyFrom(cfg)), false)
	return panel.Render(e.Request.Context(), e.Response)
}

func clampPercent(p float64) float64 {
	return math.Min(math.Max(p, 0), 100)
}
