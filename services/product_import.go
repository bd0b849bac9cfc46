package services

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"

	"buildsales/pricing"
)

const importBatchSize = 100

// TemplateField describes one column of the product import template.
type TemplateField struct {
	Key          string // products column name
	Label        string // header shown in the file
	Description  string // shown on the Instructions sheet
	ExampleValue string
	Required     bool
}

// ProductTemplateFields is the ordered column list of a catalog import file.
var ProductTemplateFields = []TemplateField{
	{Key: "name", Label: "Name", Description: "Product or work item name", ExampleValue: "LED panel light 18W", Required: true},
	{Key: "sku", Label: "SKU", Description: "Unique code; rows with an existing SKU update that product", ExampleValue: "EL-LGT-01"},
	{Key: "unit", Label: "Unit", Description: "Unit of measurement", ExampleValue: "Nos"},
	{Key: "rate", Label: "Rate", Description: "Unit rate; non-numeric values import as 0", ExampleValue: "1250"},
	{Key: "main_category", Label: "Main Category", Description: "Category code or label; unknown values import as Other", ExampleValue: "electrical"},
	{Key: "sub_category", Label: "Sub Category", Description: "Must belong to the main category, otherwise its default is used", ExampleValue: "lighting"},
	{Key: "tax_percentage", Label: "Tax %", Description: "0 to 100", ExampleValue: "18"},
	{Key: "description", Label: "Description", Description: "Optional notes", ExampleValue: ""},
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ValidationError   `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// ImportResult holds the outcome of a catalog import.
type ImportResult struct {
	TotalRows  int               `json:"total_rows"`
	Created    int               `json:"created"`
	Updated    int               `json:"updated"`
	Failed     int               `json:"failed"`
	Errors     []ValidationError `json:"errors,omitempty"`
	RolledBack bool              `json:"rolled_back"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to TemplateField keys.
// Returns ordered list of field keys (one per column) and any unrecognized columns.
func mapHeadersToFields(headers []string, fields []TemplateField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateProductFile parses an uploaded .csv or .xlsx catalog and validates
// every row. Rows with errors are reported, not dropped; CommitProductImport
// skips them.
func ValidateProductFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeadersToFields(headers, ProductTemplateFields)
	if !slices.Contains(columnKeys, "name") {
		return nil, fmt.Errorf("missing required column %q", "Name")
	}

	result := &ValidationResult{
		TotalRows:  len(dataRows),
		FileName:   fileName,
		ParsedRows: make([]map[string]string, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowData := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}
		result.ParsedRows = append(result.ParsedRows, rowData)
		result.Errors = append(result.Errors, validateProductRow(rowIdx+2, rowData)...)
	}

	result.ErrorRows = countRows(result.Errors)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

// ProductInputFromRow converts one parsed import row into a product input,
// coercing numbers and normalising categories.
func ProductInputFromRow(row map[string]string) ProductInput {
	main := normalizeMainCategory(row["main_category"])
	sub := pricing.SubCategory(codeOf(row["sub_category"]))
	if !pricing.BelongsTo(main, sub) {
		sub = pricing.DefaultSubCategory(main)
	}
	return ProductInput{
		Name:          row["name"],
		SKU:           row["sku"],
		Unit:          row["unit"],
		Rate:          pricing.ParseAmount(row["rate"]),
		TaxPercentage: pricing.ParseAmount(strings.TrimSuffix(row["tax_percentage"], "%")),
		MainCategory:  string(main),
		SubCategory:   string(sub),
		Description:   row["description"],
	}
}

func validateProductRow(rowNum int, row map[string]string) []ValidationError {
	var errs []ValidationError
	for key, msg := range Validate(ProductInputFromRow(row)) {
		errs = append(errs, ValidationError{Row: rowNum, Field: templateLabel(key), Message: msg})
	}
	return errs
}

// CommitProductImport re-validates parsed rows and upserts the valid ones by
// SKU. Rows are written in chunks of importBatchSize; a failing save rolls
// back its chunk only.
func CommitProductImport(app *pocketbase.PocketBase, parsedRows []map[string]string) (*ImportResult, error) {
	col, err := app.FindCollectionByNameOrId("products")
	if err != nil {
		return nil, fmt.Errorf("products collection not found: %w", err)
	}

	result := &ImportResult{TotalRows: len(parsedRows)}

	type pending struct {
		rowNum int
		input  ProductInput
	}
	var valid []pending
	for i, row := range parsedRows {
		rowNum := i + 2
		if errs := validateProductRow(rowNum, row); len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			result.Failed++
			continue
		}
		valid = append(valid, pending{rowNum: rowNum, input: ProductInputFromRow(row)})
	}

	for start := 0; start < len(valid); start += importBatchSize {
		chunk := valid[start:min(start+importBatchSize, len(valid))]

		var created, updated int
		var chunkErr *ValidationError
		err := app.RunInTransaction(func(txApp core.App) error {
			for _, p := range chunk {
				isNew, err := upsertProduct(txApp, col, p.input)
				if err != nil {
					chunkErr = &ValidationError{Row: p.rowNum, Message: fmt.Sprintf("Failed to save: %s", err.Error())}
					return fmt.Errorf("save failed at row %d: %w", p.rowNum, err)
				}
				if isNew {
					created++
				} else {
					updated++
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("product_import: chunk rolled back: %v", err)
			if chunkErr != nil {
				result.Errors = append(result.Errors, *chunkErr)
			}
			result.Failed += len(chunk)
			result.RolledBack = true
			continue
		}
		result.Created += created
		result.Updated += updated
	}

	return result, nil
}

func upsertProduct(txApp core.App, col *core.Collection, in ProductInput) (bool, error) {
	record := core.NewRecord(col)
	isNew := true
	if in.SKU != "" {
		existing, err := txApp.FindFirstRecordByData(col, "sku", in.SKU)
		switch {
		case err == nil:
			record = existing
			isNew = false
		case !errors.Is(err, sql.ErrNoRows):
			return false, err
		}
	}

	ApplyProductInput(record, in)
	return isNew, txApp.Save(record)
}

// ApplyProductInput copies a validated product input onto a record.
func ApplyProductInput(record *core.Record, in ProductInput) {
	record.Set("name", in.Name)
	record.Set("sku", in.SKU)
	record.Set("unit", in.Unit)
	record.Set("rate", in.Rate)
	record.Set("tax_percentage", in.TaxPercentage)
	record.Set("main_category", in.MainCategory)
	record.Set("sub_category", in.SubCategory)
	record.Set("description", in.Description)
}

// GenerateProductTemplate creates a downloadable .xlsx import template with
// a main-category dropdown and a hidden Instructions sheet.
func GenerateProductTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	columns := columnLetters(len(ProductTemplateFields))
	for i, field := range ProductTemplateFields {
		cell := columns[i] + "1"
		header, style := field.Label, optionalHeaderStyle
		if field.Required {
			header, style = header+" *", requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
		f.SetColWidth(sheetName, columns[i], columns[i], max(float64(len(field.Label))*1.3, 15))

		if field.Key == "main_category" {
			var codes []string
			for _, m := range pricing.MainCategories {
				codes = append(codes, string(m))
			}
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])
			dv.SetDropList(codes)
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Product Catalog Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(4)
	for i, h := range []string{"Column", "Required?", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range ProductTemplateFields {
		row := fmt.Sprintf("%d", i+4)
		req := "Optional"
		if field.Required {
			req = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, req)
		f.SetCellValue(instSheet, cols[2]+row, field.Description)
		f.SetCellValue(instSheet, cols[3]+row, field.ExampleValue)
	}

	for i, w := range []float64{18, 12, 60, 22} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}
	f.SetSheetVisible(instSheet, false)
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(e.Field))
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// normalizeMainCategory accepts a code ("civil_works") or a label
// ("Civil Works"); anything unknown becomes Other.
func normalizeMainCategory(raw string) pricing.MainCategory {
	main := pricing.MainCategory(codeOf(raw))
	if pricing.IsMainCategory(main) {
		return main
	}
	return pricing.Other
}

func codeOf(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), "_")
}

func templateLabel(key string) string {
	for _, f := range ProductTemplateFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

func countRows(errs []ValidationError) int {
	rows := make(map[int]bool)
	for _, e := range errs {
		rows[e.Row] = true
	}
	return len(rows)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
