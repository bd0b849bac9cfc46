package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/templates"
)

// mutateDocument loads the document named by the {id} path value, applies
// change, saves it and re-renders the editor.
func mutateDocument(app *pocketbase.PocketBase, cfg config.Config, kind DocKind, op string,
	change func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error)) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, rec, err := services.LoadDocument(app, kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, kind, op, err)
		}
		doc, err = change(e, doc)
		if err != nil {
			return documentError(e, kind, op, err)
		}
		doc, err = services.SaveDocument(app, rec, doc)
		if err != nil {
			return documentError(e, kind, op, err)
		}
		return renderEditor(e, app, cfg, kind, doc, rec)
	}
}

// HandleSectionAdd appends a section titled from the "title" form value.
func HandleSectionAdd(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return mutateDocument(app, cfg, kind, "section_add", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
		title := strings.TrimSpace(e.Request.FormValue("title"))
		if title == "" {
			title = "New Section"
		}
		doc, _ = pricing.AddSection(doc, title)
		return doc, nil
	})
}

// HandleSectionDelete removes a section with all of its items.
func HandleSectionDelete(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return mutateDocument(app, cfg, kind, "section_delete", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
		return pricing.RemoveSection(doc, e.Request.PathValue("sectionId"))
	})
}

// HandleSectionRename saves an edited section title. The title input swaps
// nothing, so the reply is empty.
func HandleSectionRename(app *pocketbase.PocketBase, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		title := strings.TrimSpace(e.Request.FormValue("title"))
		if title == "" {
			return ErrorToast(e, http.StatusBadRequest, "Section title is required")
		}

		doc, rec, err := services.LoadDocument(app, kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, kind, "section_rename", err)
		}
		doc, err = pricing.RenameSection(doc, e.Request.PathValue("sectionId"), title)
		if err != nil {
			return documentError(e, kind, "section_rename", err)
		}
		if _, err := services.SaveDocument(app, rec, doc); err != nil {
			return documentError(e, kind, "section_rename", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleItemAdd appends a blank line item to a section.
func HandleItemAdd(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return mutateDocument(app, cfg, kind, "item_add", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
		doc, _, err := pricing.AddItem(doc, e.Request.PathValue("sectionId"), pricing.ItemDefaults{
			Unit: "Nos",
			Tax:  cfg.DefaultTaxPercentage,
		})
		return doc, err
	})
}

// HandleItemDelete removes one line item. Remaining items keep their numbers
// until the document is renumbered.
func HandleItemDelete(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return mutateDocument(app, cfg, kind, "item_delete", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
		return pricing.RemoveItem(doc, e.Request.PathValue("sectionId"), e.Request.PathValue("itemId"))
	})
}

// HandleItemPatch applies a single-field edit to a line item. The body must
// carry exactly one form field; its name selects the update. The reply is
// the re-rendered row plus out-of-band subtotal and totals.
func HandleItemPatch(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if len(e.Request.PostForm) != 1 {
			return ErrorToast(e, http.StatusBadRequest, "Send exactly one field per update")
		}
		var field, raw string
		for k := range e.Request.PostForm {
			field, raw = k, e.Request.PostForm.Get(k)
		}

		update, err := pricing.ParseUpdate(field, raw)
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}

		doc, rec, err := services.LoadDocument(app, kind.Collection, e.Request.PathValue("id"))
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}
		sectionID := e.Request.PathValue("sectionId")
		doc, item, err := pricing.UpdateItem(doc, sectionID, e.Request.PathValue("itemId"), update)
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}
		doc, err = services.SaveDocument(app, rec, doc)
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}

		section, err := pricing.FindSection(doc, sectionID)
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}
		// SaveDocument recalculated; take the stored item so its total is fresh.
		item, err = pricing.FindItem(doc, sectionID, item.ID)
		if err != nil {
			return documentError(e, kind, "item_patch", err)
		}

		cur := services.CurrencyFrom(cfg)
		data := buildDocumentData(app, cfg, kind, doc, rec)
		component := templates.ItemPatchResponse(data, sectionView(section, cur), itemView(item, cur))
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleItemProduct assigns a catalog product to a line item. When another
// item already holds the product the two are merged, so the whole editor is
// re-rendered.
func HandleItemProduct(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		productID := strings.TrimSpace(e.Request.FormValue("product"))
		if productID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Choose a product")
		}
		product, err := services.FindProduct(app, productID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}

		return mutateDocument(app, cfg, kind, "item_product", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
			return pricing.SelectProduct(doc, e.Request.PathValue("sectionId"), e.Request.PathValue("itemId"), product)
		})(e)
	}
}

// HandleRenumber rewrites section and item numbers from their positions.
func HandleRenumber(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return mutateDocument(app, cfg, kind, "renumber", func(e *core.RequestEvent, doc pricing.Document) (pricing.Document, error) {
		SetToast(e, ToastSuccess, "Renumbered")
		return pricing.Renumber(doc), nil
	})
}
