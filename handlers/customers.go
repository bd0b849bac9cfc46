package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/services"
	"buildsales/templates"
)

func customerInputFromForm(e *core.RequestEvent) services.CustomerInput {
	return services.CustomerInput{
		Name:    formValue(e, "name"),
		Company: formValue(e, "company"),
		Email:   formValue(e, "email"),
		Phone:   formValue(e, "phone"),
		Address: formValue(e, "address"),
		TaxID:   formValue(e, "tax_id"),
	}
}

func customerInputFromRecord(rec *core.Record) services.CustomerInput {
	return services.CustomerInput{
		Name:    rec.GetString("name"),
		Company: rec.GetString("company"),
		Email:   rec.GetString("email"),
		Phone:   rec.GetString("phone"),
		Address: rec.GetString("address"),
		TaxID:   rec.GetString("tax_id"),
	}
}

func applyCustomer(rec *core.Record, in services.CustomerInput) {
	rec.Set("name", in.Name)
	rec.Set("company", in.Company)
	rec.Set("email", in.Email)
	rec.Set("phone", in.Phone)
	rec.Set("address", in.Address)
	rec.Set("tax_id", in.TaxID)
}

func customerForm(title, action string, in services.CustomerInput, errs map[string]string) templates.FormData {
	return templates.FormData{
		Title:     title,
		Action:    action,
		CancelURL: "/customers",
		Errors:    errs,
		Fields: []templates.FormField{
			{Name: "name", Label: "Name", Value: in.Name, Required: true},
			{Name: "company", Label: "Company", Value: in.Company},
			{Name: "email", Label: "Email", Type: "email", Value: in.Email},
			{Name: "phone", Label: "Phone", Value: in.Phone},
			{Name: "address", Label: "Address", Type: "textarea", Value: in.Address},
			{Name: "tax_id", Label: "Tax ID (GSTIN)", Value: in.TaxID},
		},
	}
}

// HandleCustomerList lists customers alphabetically.
func HandleCustomerList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("customers", "id != ''", "name", 0, 0)
		if err != nil {
			log.Printf("customer_list: could not query customers: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.ListData{
			Title:      "Customers",
			Actions:    []templates.Action{{Label: "New Customer", URL: "/customers/create"}},
			Columns:    []string{"Name", "Company", "Email", "Phone"},
			EmptyText:  "No customers yet.",
			TotalCount: len(records),
		}
		for _, rec := range records {
			data.Rows = append(data.Rows, templates.ListRow{
				ID: rec.Id,
				Cells: []templates.Cell{
					{Text: rec.GetString("name"), Link: "/customers/" + rec.Id + "/edit"},
					{Text: rec.GetString("company")},
					{Text: rec.GetString("email")},
					{Text: rec.GetString("phone")},
				},
				Actions: []templates.Action{
					{Label: "Quote", URL: "/quotations/create?customer=" + rec.Id},
					{Label: "Edit", URL: "/customers/" + rec.Id + "/edit"},
					{Label: "Delete", URL: "/customers/" + rec.Id, Method: "delete", Confirm: "Delete customer " + rec.GetString("name") + "?"},
				},
			})
		}
		return renderList(e, data)
	}
}

// HandleCustomerCreate renders the empty customer form.
func HandleCustomerCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return renderForm(e, customerForm("New Customer", "/customers", services.CustomerInput{}, nil))
	}
}

// HandleCustomerSave validates and creates a customer.
func HandleCustomerSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := customerInputFromForm(e)
		if errs := services.Validate(in); len(errs) > 0 {
			return renderInvalid(e, customerForm("New Customer", "/customers", in, errs))
		}

		col, err := app.FindCollectionByNameOrId("customers")
		if err != nil {
			log.Printf("customer_create: could not find customers collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		rec := core.NewRecord(col)
		applyCustomer(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_create: could not save customer: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Customer created")
		return redirect(e, "/customers")
	}
}

// HandleCustomerEdit renders the customer form filled from the record.
func HandleCustomerEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}
		return renderForm(e, customerForm("Edit Customer", "/customers/"+rec.Id+"/save", customerInputFromRecord(rec), nil))
	}
}

// HandleCustomerUpdate validates and saves an edited customer.
func HandleCustomerUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		in := customerInputFromForm(e)
		if errs := services.Validate(in); len(errs) > 0 {
			return renderInvalid(e, customerForm("Edit Customer", "/customers/"+rec.Id+"/save", in, errs))
		}

		applyCustomer(rec, in)
		if err := app.Save(rec); err != nil {
			log.Printf("customer_edit: could not save customer %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, ToastSuccess, "Customer updated")
		return redirect(e, "/customers")
	}
}

// HandleCustomerDelete deletes a customer that no quotation refers to.
func HandleCustomerDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("customers", e.Request.PathValue("id"))
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Customer not found")
		}

		quotes, err := app.FindRecordsByFilter(collections.Quotations, "customer = {:cid}", "", 1, 0, map[string]any{"cid": rec.Id})
		if err == nil && len(quotes) > 0 {
			return ErrorToast(e, http.StatusConflict, "This customer has quotations; delete those first")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("customer_delete: failed to delete customer %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete customer")
		}

		SetToast(e, ToastSuccess, "Customer deleted")
		return redirect(e, "/customers")
	}
}
