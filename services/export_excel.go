package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"buildsales/pricing"
)

type excelColumn struct {
	header string
	width  float64
	value  func(r ExportRow, cur Currency) any
}

func boqColumns() []excelColumn {
	return []excelColumn{
		{"#", 7, func(r ExportRow, _ Currency) any { return r.Index }},
		{"Description", 44, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Description) }},
		{"Category", 24, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Category) }},
		{"Unit", 9, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Unit) }},
		{"Qty", 10, func(r ExportRow, _ Currency) any { return qtyCell(r) }},
		{"Rate", 16, func(r ExportRow, c Currency) any { return moneyCell(r, r.Rate, c) }},
		{"Amount", 18, func(r ExportRow, c Currency) any { return totalCell(r, c) }},
	}
}

func quotationColumns() []excelColumn {
	return []excelColumn{
		{"#", 7, func(r ExportRow, _ Currency) any { return r.Index }},
		{"Description", 40, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Description) }},
		{"Category", 22, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Category) }},
		{"Unit", 9, func(r ExportRow, _ Currency) any { return sanitizeExcelCell(r.Unit) }},
		{"Qty", 10, func(r ExportRow, _ Currency) any { return qtyCell(r) }},
		{"Rate", 16, func(r ExportRow, c Currency) any { return moneyCell(r, r.Rate, c) }},
		{"Discount", 12, func(r ExportRow, _ Currency) any { return r.Discount }},
		{"Tax", 12, func(r ExportRow, _ Currency) any { return r.Tax }},
		{"Service", 14, func(r ExportRow, c Currency) any { return moneyCell(r, r.Service, c) }},
		{"Amount", 18, func(r ExportRow, c Currency) any { return totalCell(r, c) }},
	}
}

func qtyCell(r ExportRow) any {
	if r.Kind != RowItem {
		return ""
	}
	return r.Qty
}

func moneyCell(r ExportRow, v float64, cur Currency) any {
	if r.Kind != RowItem {
		return ""
	}
	return cur.Format(v)
}

func totalCell(r ExportRow, cur Currency) any {
	if r.Kind == RowSection {
		return ""
	}
	return cur.Format(r.Amount)
}

// GenerateExcel creates an Excel workbook from BOQ or quotation export data.
// It returns the raw .xlsx bytes or an error.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := excelSheetName(data.Title, data.Model)
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := boqColumns()
	if data.Model == pricing.ModelQuotation {
		columns = quotationColumns()
	}
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	amountCol := lastCol
	labelCol, _ := excelize.ColumnNumberToName(len(columns) - 1)

	for i, c := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, c.width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	// Section heading: bold on a light band.
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EDEDED"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	subtotalStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Italic: true, Size: 10},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create subtotal style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows ─────────────────────────────────────────────────────

	type headerLine struct {
		text  string
		style int
	}
	headerLines := []headerLine{
		{data.Title, titleStyle},
		{data.Number + "  ·  " + data.Status, subtitleStyle},
	}
	if data.PartyName != "" {
		headerLines = append(headerLines, headerLine{data.PartyLabel + ": " + data.PartyName, subtitleStyle})
	}
	dateLine := "Date: " + data.CreatedDate
	if data.ValidUntil != "" {
		dateLine += "    Valid until: " + data.ValidUntil
	}
	headerLines = append(headerLines, headerLine{dateLine, subtitleStyle})

	row := 1
	for _, hl := range headerLines {
		start := fmt.Sprintf("A%d", row)
		end := fmt.Sprintf("%s%d", lastCol, row)
		if err := f.MergeCell(sheetName, start, end); err != nil {
			return nil, fmt.Errorf("merge header row %d: %w", row, err)
		}
		f.SetCellValue(sheetName, start, sanitizeExcelCell(hl.text))
		f.SetCellStyle(sheetName, start, end, hl.style)
		row++
	}
	row++

	// ── Column Headers ──────────────────────────────────────────────────

	headerRow := row
	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheetName, cell, c.header)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), headerStyle)
	row++

	// ── Data Rows ───────────────────────────────────────────────────────

	for _, r := range data.Rows {
		for i, c := range columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, c.value(r, data.Currency))
		}

		style := itemStyle
		switch r.Kind {
		case RowSection:
			style = sectionStyle
		case RowSubtotal:
			style = subtotalStyle
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "")
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", labelCol, row), sanitizeExcelCell(r.Description))
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), "")
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), style)
		row++
	}

	// ── Summary ─────────────────────────────────────────────────────────

	row++
	for _, s := range data.Summary {
		label := fmt.Sprintf("%s%d", labelCol, row)
		value := fmt.Sprintf("%s%d", amountCol, row)
		f.SetCellValue(sheetName, label, s.Label+":")
		f.SetCellStyle(sheetName, label, label, summaryLabelStyle)
		f.SetCellValue(sheetName, value, data.Currency.Format(s.Amount))
		f.SetCellStyle(sheetName, value, value, summaryValueStyle)
		row++
	}

	if data.AmountInWords != "" {
		row++
		start := fmt.Sprintf("A%d", row)
		f.MergeCell(sheetName, start, fmt.Sprintf("%s%d", lastCol, row))
		f.SetCellValue(sheetName, start, "Amount in words: "+data.AmountInWords)
		f.SetCellStyle(sheetName, start, start, subtitleStyle)
		row++
	}

	if strings.TrimSpace(data.Notes) != "" {
		row++
		start := fmt.Sprintf("A%d", row)
		f.MergeCell(sheetName, start, fmt.Sprintf("%s%d", lastCol, row))
		f.SetCellValue(sheetName, start, sanitizeExcelCell(data.Notes))
		f.SetCellStyle(sheetName, start, start, subtitleStyle)
	}

	// Keep the column headers visible while scrolling.
	topLeft, _ := excelize.CoordinatesToCellName(1, headerRow+1)
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomLeft",
	})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// excelSheetName trims a title to a valid worksheet name: at most 31
// characters and none of : \ / ? * [ ].
func excelSheetName(title string, model pricing.Model) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if name == "" {
		if model == pricing.ModelQuotation {
			return "Quotation"
		}
		return "BOQ"
	}
	return name
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
