package handlers

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/templates"
)

// DocKind binds the shared document handlers to one collection.
type DocKind struct {
	Collection string
	Model      pricing.Model
	Path       string // URL prefix, e.g. "/boq"
	Label      string
}

var (
	BOQDocs       = DocKind{Collection: collections.BOQs, Model: pricing.ModelBOQ, Path: "/boq", Label: "BOQ"}
	QuotationDocs = DocKind{Collection: collections.Quotations, Model: pricing.ModelQuotation, Path: "/quotations", Label: "Quotation"}
)

func (k DocKind) basePath(id string) string {
	return k.Path + "/" + id
}

// listURL is where a document's back link and post-delete redirect point.
func (k DocKind) listURL(rec *core.Record) string {
	if k.Model == pricing.ModelBOQ {
		if pid := rec.GetString("project"); pid != "" {
			return "/projects/" + pid + "/boq"
		}
		return "/boq"
	}
	return "/quotations"
}

// HandleDocumentView renders the BOQ or quotation editor.
func HandleDocumentView(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rec, err := services.LoadDocument(app, kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, kind, "document_view", err)
		}
		data := buildDocumentData(app, cfg, kind, pricing.Recalculate(doc), rec)
		return render(e,
			templates.DocumentPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)),
			templates.DocumentContent(data))
	}
}

// HandleDocumentDelete removes a BOQ or quotation and sends the browser back
// to its list.
func HandleDocumentDelete(app *pocketbase.PocketBase, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById(kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, kind.Label+" not found")
		}
		back := kind.listURL(rec)
		if err := app.Delete(rec); err != nil {
			log.Printf("document_delete: could not delete %s %s: %v", kind.Collection, rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		SetToast(e, ToastSuccess, kind.Label+" deleted")
		return redirect(e, back)
	}
}

// documentError maps store and pricing errors onto toast responses.
func documentError(e *core.RequestEvent, kind DocKind, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrDocumentNotFound):
		return ErrorToast(e, http.StatusNotFound, kind.Label+" not found")
	case errors.Is(err, pricing.ErrSectionNotFound):
		return ErrorToast(e, http.StatusNotFound, "Section not found")
	case errors.Is(err, pricing.ErrItemNotFound):
		return ErrorToast(e, http.StatusNotFound, "Item not found")
	case errors.Is(err, pricing.ErrUnknownField):
		return ErrorToast(e, http.StatusBadRequest, "Unknown field")
	case errors.Is(err, pricing.ErrInvalidTransition):
		return ErrorToast(e, http.StatusConflict, "That status change is not allowed")
	}
	log.Printf("%s: %s: %v", op, kind.Collection, err)
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// buildDocumentData turns a priced document and its record into the editor
// view model.
func buildDocumentData(app *pocketbase.PocketBase, cfg config.Config, kind DocKind, doc pricing.Document, rec *core.Record) templates.DocumentData {
	cur := services.CurrencyFrom(cfg)
	status := pricing.Status(rec.GetString("status"))
	if status == "" {
		status = pricing.StatusDraft
	}

	data := templates.DocumentData{
		IsQuotation:    kind.Model == pricing.ModelQuotation,
		Kind:           kind.Label,
		BasePath:       kind.basePath(rec.Id),
		BackURL:        kind.listURL(rec),
		ID:             rec.Id,
		Number:         rec.GetString(collections.NumberField(kind.Model)),
		Title:          rec.GetString("title"),
		Status:         string(status),
		StatusLabel:    pricing.StatusLabel(status),
		StatusOptions:  services.StatusOptions(kind.Model, status, cfg.StrictStatusFlow),
		Units:          services.UOMOptions,
		MainCategories: services.MainCategoryOptions(),
		Products:       productOptions(app),
	}

	if kind.Model == pricing.ModelBOQ {
		data.PartyLabel = "Project"
		data.Notes = rec.GetString("notes")
		if p, err := app.FindRecordById("projects", rec.GetString("project")); err == nil {
			data.PartyName = p.GetString("name")
			data.PartyURL = "/projects/" + p.Id
		}
	} else {
		data.PartyLabel = "Customer"
		data.Notes = rec.GetString("terms")
		if c, err := app.FindRecordById("customers", rec.GetString("customer")); err == nil {
			data.PartyName = c.GetString("name")
			data.PartyURL = "/customers/" + c.Id + "/edit"
		}
		if vu := rec.GetDateTime("valid_until"); !vu.IsZero() {
			data.ValidUntil = vu.Time().Format("02 Jan 2006")
		}
	}

	for _, s := range doc.Sections {
		data.Sections = append(data.Sections, sectionView(s, cur))
	}
	data.Totals = totalsView(kind, rec.Id, doc, cur)
	return data
}

func sectionView(s pricing.Section, cur services.Currency) templates.SectionView {
	v := templates.SectionView{
		ID:       s.ID,
		Number:   s.SectionNumber,
		Title:    s.Title,
		Subtotal: cur.Format(s.Subtotal),
	}
	for _, it := range s.Items {
		v.Items = append(v.Items, itemView(it, cur))
	}
	return v
}

func itemView(it pricing.LineItem, cur services.Currency) templates.ItemView {
	return templates.ItemView{
		ID:             it.ID,
		Number:         it.ItemNumber,
		Description:    it.Description,
		ProductID:      it.ProductID,
		Unit:           it.Unit,
		Quantity:       inputNumber(it.Quantity),
		UnitRate:       inputNumber(it.UnitRate),
		Discount:       inputNumber(it.Discount),
		DiscountType:   string(it.DiscountType),
		Tax:            inputNumber(it.Tax),
		TaxType:        string(it.TaxType),
		ServiceCharges: inputNumber(it.ServiceCharges),
		MainCategory:   string(it.MainCategory),
		SubCategory:    string(it.SubCategory),
		SubCategories:  services.SubCategoryOptions(it.MainCategory),
		Category:       it.Category,
		Total:          cur.Format(it.TotalAmount),
	}
}

func totalsView(kind DocKind, id string, doc pricing.Document, cur services.Currency) templates.TotalsView {
	return templates.TotalsView{
		IsQuotation:        kind.Model == pricing.ModelQuotation,
		BasePath:           kind.basePath(id),
		Subtotal:           cur.Format(doc.Subtotal),
		DiscountPercentage: inputNumber(doc.DiscountPercentage),
		DiscountAmount:     cur.Format(doc.DiscountAmount),
		TaxPercentage:      inputNumber(doc.TaxPercentage),
		TaxAmount:          cur.Format(doc.TaxAmount),
		ServiceCharges:     inputNumber(doc.ServiceCharges),
		Total:              cur.Format(doc.TotalAmount),
		AmountInWords:      cur.Words(doc.TotalAmount),
	}
}

// inputNumber formats a number for an input's value attribute: no grouping,
// no trailing zeros.
func inputNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// productOptions lists the catalog for the per-item product picker.
func productOptions(app *pocketbase.PocketBase) []templates.Option {
	records, err := app.FindAllRecords("products")
	if err != nil {
		log.Printf("document_edit: could not list products: %v", err)
		return nil
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].GetString("name") < records[j].GetString("name")
	})
	opts := make([]templates.Option, 0, len(records))
	for _, r := range records {
		label := r.GetString("name")
		if sku := r.GetString("sku"); sku != "" {
			label += " (" + sku + ")"
		}
		opts = append(opts, templates.Option{Value: r.Id, Label: label})
	}
	return opts
}

// renderEditor re-renders the whole editor after a structural change.
func renderEditor(e *core.RequestEvent, app *pocketbase.PocketBase, cfg config.Config, kind DocKind, doc pricing.Document, rec *core.Record) error {
	data := buildDocumentData(app, cfg, kind, doc, rec)
	return templates.DocumentContent(data).Render(e.Request.Context(), e.Response)
}
