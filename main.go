package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/handlers"
)

func main() {
	app := pocketbase.New()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: config load failed, using defaults: %v", err)
	}

	app.RootCmd.AddCommand(newRecalcCommand(app))

	// Create collections, seed data and upgrade stored documents on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateDocumentItems(app); err != nil {
			log.Printf("Warning: document item migration failed: %v", err)
		}
		if err := collections.MigrateQuotationValidity(app, cfg.QuotationValidityDays); err != nil {
			log.Printf("Warning: quotation validity migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active project middleware globally
		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app, cfg))

		// ── Project activation ───────────────────────────────────
		se.Router.POST("/projects/{id}/activate", handlers.HandleProjectActivate(app))
		se.Router.POST("/projects/deactivate", handlers.HandleProjectDeactivate(app))

		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.GET("/projects/create", handlers.HandleProjectCreate(app))
		se.Router.POST("/projects", handlers.HandleProjectSave(app))
		se.Router.GET("/projects/{id}/edit", handlers.HandleProjectEdit(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.GET("/projects/{id}", handlers.HandleProjectView(app, cfg))

		// ── Project-scoped BOQ routes ───────────────────────────
		se.Router.GET("/projects/{projectId}/boq", handlers.HandleBOQList(app, cfg))
		se.Router.GET("/projects/{projectId}/boq/create", handlers.HandleBOQCreate(app))
		se.Router.POST("/projects/{projectId}/boq", handlers.HandleBOQSave(app, cfg))

		// ── BOQ and quotation lists ─────────────────────────────
		se.Router.GET("/boq", handlers.HandleBOQList(app, cfg))
		se.Router.GET("/quotations", handlers.HandleQuotationList(app, cfg))
		se.Router.GET("/quotations/create", handlers.HandleQuotationCreate(app))
		se.Router.POST("/quotations", handlers.HandleQuotationSave(app, cfg))

		// ── Document editor (shared by BOQs and quotations) ─────
		for _, k := range []handlers.DocKind{handlers.BOQDocs, handlers.QuotationDocs} {
			p := k.Path + "/{id}"

			se.Router.POST(p+"/sections", handlers.HandleSectionAdd(app, cfg, k))
			se.Router.PATCH(p+"/sections/{sectionId}", handlers.HandleSectionRename(app, k))
			se.Router.DELETE(p+"/sections/{sectionId}", handlers.HandleSectionDelete(app, cfg, k))

			se.Router.POST(p+"/sections/{sectionId}/items", handlers.HandleItemAdd(app, cfg, k))
			se.Router.PATCH(p+"/sections/{sectionId}/items/{itemId}", handlers.HandleItemPatch(app, cfg, k))
			se.Router.DELETE(p+"/sections/{sectionId}/items/{itemId}", handlers.HandleItemDelete(app, cfg, k))
			se.Router.POST(p+"/sections/{sectionId}/items/{itemId}/product", handlers.HandleItemProduct(app, cfg, k))

			se.Router.POST(p+"/renumber", handlers.HandleRenumber(app, cfg, k))
			se.Router.POST(p+"/status", handlers.HandleDocumentStatus(app, cfg, k))

			se.Router.GET(p+"/export/excel", handlers.HandleExportExcel(app, cfg, k))
			se.Router.GET(p+"/export/pdf", handlers.HandleExportPDF(app, cfg, k))

			// View and delete (after specific /{id}/* routes)
			se.Router.GET(p, handlers.HandleDocumentView(app, cfg, k))
			se.Router.DELETE(p, handlers.HandleDocumentDelete(app, k))
		}
		se.Router.POST("/boq/{id}/totals", handlers.HandleBOQTotals(app, cfg))
		se.Router.POST("/quotations/{id}/service-charges", handlers.HandleQuotationServiceCharges(app, cfg))

		// ── Customer CRUD ────────────────────────────────────────
		se.Router.GET("/customers", handlers.HandleCustomerList(app))
		se.Router.GET("/customers/create", handlers.HandleCustomerCreate(app))
		se.Router.POST("/customers", handlers.HandleCustomerSave(app))
		se.Router.GET("/customers/{id}/edit", handlers.HandleCustomerEdit(app))
		se.Router.POST("/customers/{id}/save", handlers.HandleCustomerUpdate(app))
		se.Router.DELETE("/customers/{id}", handlers.HandleCustomerDelete(app))

		// ── Leads ────────────────────────────────────────────────
		se.Router.GET("/leads", handlers.HandleLeadList(app, cfg))
		se.Router.GET("/leads/create", handlers.HandleLeadCreate(app))
		se.Router.POST("/leads", handlers.HandleLeadSave(app))
		se.Router.GET("/leads/{id}/edit", handlers.HandleLeadEdit(app))
		se.Router.POST("/leads/{id}/save", handlers.HandleLeadUpdate(app))
		se.Router.POST("/leads/{id}/convert", handlers.HandleLeadConvert(app, cfg))
		se.Router.DELETE("/leads/{id}", handlers.HandleLeadDelete(app))

		// ── Product catalog ──────────────────────────────────────
		se.Router.GET("/products", handlers.HandleProductList(app, cfg))
		se.Router.GET("/products/create", handlers.HandleProductCreate(app, cfg))
		se.Router.POST("/products", handlers.HandleProductSave(app))

		// Product import (before /products/{id}/* routes)
		se.Router.GET("/products/import", handlers.HandleProductImportPage(app))
		se.Router.POST("/products/import", handlers.HandleProductImportValidate(app))
		se.Router.POST("/products/import/commit", handlers.HandleProductImportCommit(app))
		se.Router.GET("/products/import/template", handlers.HandleProductTemplateDownload(app))
		se.Router.POST("/products/import/errors", handlers.HandleProductImportErrorReport(app))

		se.Router.GET("/products/{id}/edit", handlers.HandleProductEdit(app))
		se.Router.POST("/products/{id}/save", handlers.HandleProductUpdate(app))
		se.Router.DELETE("/products/{id}", handlers.HandleProductDelete(app))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
