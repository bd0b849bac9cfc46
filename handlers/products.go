package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/pricing"
	"buildsales/services"
	"buildsales/templates"
)

// productInputFromForm reads the product form. A sub-category outside the
// chosen main category falls back to that category's default.
func productInputFromForm(e *core.RequestEvent) services.ProductInput {
	main := pricing.MainCategory(formValue(e, "main_category"))
	sub := pricing.SubCategory(formValue(e, "sub_category"))
	if pricing.IsMainCategory(main) && !pricing.BelongsTo(main, sub) {
		sub = pricing.DefaultSubCategory(main)
	}
	return services.ProductInput{
		Name:          formValue(e, "name"),
		SKU:           formValue(e, "sku"),
		Unit:          formValue(e, "unit"),
		Rate:          formAmount(e, "rate"),
		TaxPercentage: formAmount(e, "tax_percentage"),
		MainCategory:  string(main),
		SubCategory:   string(sub),
		Description:   formValue(e, "description"),
	}
}

func productInputFromRecord(rec *core.Record) services.ProductInput {
	return services.ProductInput{
		Name:          rec.GetString("name"),
		SKU:           rec.GetString("sku"),
		Unit:          rec.GetString("unit"),
		Rate:          rec.GetFloat("rate"),
		TaxPercentage: rec.GetFloat("tax_percentage"),
		MainCategory:  rec.GetString("main_category"),
		SubCategory:   rec.GetString("sub_category"),
		Description:   rec.GetString("description"),
	}
}

func productForm(title, action string, in services.ProductInput, errs map[string]string) templates.FormData {
	unitOpts := make([]templates.Option, 0, len(services.UOMOptions))
	for _, u := range services.UOMOptions {
		unitOpts = append(unitOpts, templates.Option{Value: u, Label: u})
	}
	main := pricing.MainCategory(in.MainCategory)
	if main == "" {
		main = pricing.Other
	}
	return templates.FormData{
		Title:     title,
		Action:    action,
		CancelURL: "/products",
		Errors:    errs,
		Fields: []templates.FormField{
			{Name: "name", Label: "Name", Value: in.Name, Required: true},
			{Name: "sku", Label: "SKU", Value: in.SKU},
			{Name: "unit", Label: "Unit", Type: "select", Value: in.Unit, Options: unitOpts},
			{Name: "rate", Label: "Rate", Type: "number", Step: "0.01", Value: inputNumber(in.Rate)},
			{Name: "tax_percentage", Label: "Tax %", Type: "number", Step: "0.01", Value: inputNumber(in.TaxPercentage)},
			{Name: "main_category", Label: "Main Category", Type: "select", Value: string(main), Options: services.MainCategoryOptions(), Required: true},
			{Name: "sub_category", Label: "Sub Category", Type: "select", Value: in.SubCategory, Options: services.SubCategoryOptions(main)},
			{Name: "description", Label: "Description", Type: "textarea", Value: in.Description},
		},
	}
}

// validateProduct adds the SKU uniqueness check to the tag rules.
func validateProduct(app *pocketbase.PocketBase, in services.ProductInput, excludeID string) map[string]string {
	errs := services.Validate(in)
	if in.SKU != "" {
		existing, _ := app.FindRecordsByFilter("products", "sku = {:sku} && id != {:id}", "", 1, 0,
			map[string]any{"sku": in.SKU, "id": excludeID})
		if len(existing) > 0 {
			errs["sku"] = "Another product already uses this SKU"
		}
	}
	return errs
}

// HandleProductList lists the catalog alphabetically.
func HandleProductList(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("products", "id != ''", "name", 0, 0)
		if err != nil {
			log.Printf("product_list: could not query products: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		cur := services.CurrencyFrom(cfg)
		data := templates.ListData{
			Title: "Products",
			Actions: []templates.Action{
				{Label: "Import", URL: "/products/import"},
				{Label: "New Product", URL: "/products/create"},
			},
			Columns:    []string{"Name", "SKU", "Category", "Unit", "Rate", "Tax"},
			EmptyText:  "The catalog is empty. Add products or import a file.",
			TotalCount: len(records),
		}
		for _, rec := range records {
			p := services.ProductFromRecord(rec)
			data.Rows = append(data.Rows, templates.ListRow{
				ID: rec.Id,
				Cells: []templates.Cell{
					{Text: p.Name, Link: "/products/" + rec.Id + "/edit"},
					{Text: rec.GetString("sku")},
					{Text: pricing.CategoryString(p.MainCategory, p.SubCategory)},
					{Text: p.Unit},
					{Text: cur.Format(p.Rate), Right: true},
					{Text: services.FormatPercent(p.TaxPercentage), Right: true},
				},
				Actions: []templates.Action{
					{Label: "Edit", URL: "/products/" + rec.Id + "/edit"},
					{Label: "Delete", URL: "/products/" + rec.Id, Method: "delete", Confirm: "Delete product " + p.Name + "?"},
				},
			})
		}
		return renderList(e, data)
	}
}

// HandleProductCreate renders the empty product form.
func HandleProductCreate(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		in := services.ProductInput{Unit: "Nos", TaxPercentage: cfg.DefaultTaxPercentage}
		return renderForm(e, productForm("New Product", "/products", in, nil))
	}
}

// HandleProductSave validates and creates a product.
func HandleProductSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := productInputFromForm(e)
		if errs := validateProduct(app, in, ""); len(errs) > 0 {
			return renderInvalid(e, productForm("New Product", "/products", in, errs))
		}

		col, err := app.FindCollectionByNameOrId("products")
		if err != nil {
			log.Printf("product_create: could not find products collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		rec := core.NewRecord(col)
		services.ApplyProductInput(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("product_create: could not save product: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Product created")
		return redirect(e, "/products")
	}
}

// HandleProductEdit renders the product form filled from the record.
func HandleProductEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}
		return renderForm(e, productForm("Edit Product", "/products/"+rec.Id+"/save", productInputFromRecord(rec), nil))
	}
}

// HandleProductUpdate validates and saves an edited product. Line items that
// already copied the product keep their own values.
func HandleProductUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := productInputFromForm(e)
		if errs := validateProduct(app, in, rec.Id); len(errs) > 0 {
			return renderInvalid(e, productForm("Edit Product", "/products/"+rec.Id+"/save", in, errs))
		}

		services.ApplyProductInput(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("product_edit: could not save product %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Product updated")
		return redirect(e, "/products")
	}
}

// HandleProductDelete removes a product from the catalog.
func HandleProductDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("products", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Product not found")
		}
		if err := app.Delete(rec); err != nil {
			log.Printf("product_delete: failed to delete product %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete product")
		}
		SetToast(e, ToastSuccess, "Product deleted")
		return redirect(e, "/products")
	}
}
