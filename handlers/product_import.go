package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/services"
	"buildsales/templates"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleProductImportPage renders the catalog upload page.
func HandleProductImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return render(e,
			templates.ProductImportPage(GetHeaderData(e.Request), GetSidebarData(e.Request)),
			templates.ProductImportContent())
	}
}

// HandleProductImportValidate parses and validates an uploaded CSV or XLSX
// file without writing anything.
func HandleProductImportValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateProductFile(file, header.Filename)
		if err != nil {
			log.Printf("product_import_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		var parsedRowsJSON, errorsJSON string
		if result.ErrorRows == 0 {
			b, err := json.Marshal(result.ParsedRows)
			if err != nil {
				log.Printf("product_import_validate: marshal parsed rows: %v", err)
			} else {
				parsedRowsJSON = string(b)
			}
		} else {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("product_import_validate: marshal errors: %v", err)
			} else {
				errorsJSON = string(b)
			}
		}

		component := templates.ImportValidationResults(result, parsedRowsJSON, errorsJSON)
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleProductImportCommit upserts the rows accepted by the validate step.
func HandleProductImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		parsedJSON := e.Request.FormValue("parsed_rows_json")
		if parsedJSON == "" {
			return ErrorToast(e, http.StatusBadRequest,
				"File data missing. Please re-upload and try again.")
		}

		var parsedRows []map[string]string
		if err := json.Unmarshal([]byte(parsedJSON), &parsedRows); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}

		result, err := services.CommitProductImport(app, parsedRows)
		if err != nil {
			log.Printf("product_import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if result.Failed == 0 {
			SetToast(e, ToastSuccess, fmt.Sprintf("%d products imported", result.Created+result.Updated))
		}
		return templates.ImportFinished(result).Render(e.Request.Context(), e.Response)
	}
}

// HandleProductTemplateDownload serves the blank import workbook.
func HandleProductTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateProductTemplate()
		if err != nil {
			log.Printf("product_template: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Product_Import_Template.xlsx"`)
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleProductImportErrorReport turns the validation errors posted back by
// the results page into a downloadable workbook.
func HandleProductImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errs []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("product_error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Product_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}
