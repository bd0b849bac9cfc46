package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/config"
	"buildsales/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	return strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "").Replace(s)
}

// exportFilename is "<number>_<title>.<ext>", or just the number when the
// title repeats it.
func exportFilename(data services.ExportData, ext string) string {
	name := data.Number
	if data.Title != "" && data.Title != data.Number {
		name += "_" + data.Title
	}
	return sanitizeFilename(name) + "." + ext
}

// loadExport reads the export data for the {id} path value. When ok is false
// the error response has already been written and err is its result.
func loadExport(e *core.RequestEvent, app *pocketbase.PocketBase, cfg config.Config, kind DocKind, op string) (data services.ExportData, ok bool, err error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return data, false, e.String(http.StatusBadRequest, "Missing "+kind.Label+" ID")
	}
	data, err = services.LoadExportData(app, cfg, kind.Collection, id)
	if err != nil {
		log.Printf("%s: %v", op, err)
		if errors.Is(err, services.ErrDocumentNotFound) {
			return data, false, e.String(http.StatusNotFound, kind.Label+" not found")
		}
		return data, false, e.String(http.StatusInternalServerError, "Could not read "+kind.Label)
	}
	return data, true, nil
}

// HandleExportExcel returns a handler that generates and downloads an Excel
// file for a BOQ or quotation.
func HandleExportExcel(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok, err := loadExport(e, app, cfg, kind, "export_excel")
		if !ok {
			return err
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", xlsxContentType)
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		_, err = e.Response.Write(xlsxBytes)
		return err
	}
}

// HandleExportPDF returns a handler that generates and downloads a PDF file
// for a BOQ or quotation.
func HandleExportPDF(app *pocketbase.PocketBase, cfg config.Config, kind DocKind) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, ok, err := loadExport(e, app, cfg, kind, "export_pdf")
		if !ok {
			return err
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		_, err = e.Response.Write(pdfBytes)
		return err
	}
}
