package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"buildsales/pricing"
)

var (
	pdfMuted    = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfFaint    = &props.Color{Red: 140, Green: 140, Blue: 140}
	pdfHeaderBg = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfSection  = &props.Color{Red: 237, Green: 237, Blue: 237}
	pdfSummary  = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// pdfColumn is one table column; widths across a layout sum to 12.
type pdfColumn struct {
	header string
	width  int
	align  align.Type
	value  func(r ExportRow, cur Currency) string
}

func pdfColumns(model pricing.Model) []pdfColumn {
	index := pdfColumn{"#", 1, align.Center, func(r ExportRow, _ Currency) string { return r.Index }}
	unit := pdfColumn{"Unit", 1, align.Center, func(r ExportRow, _ Currency) string { return r.Unit }}
	qty := pdfColumn{"Qty", 1, align.Right, func(r ExportRow, _ Currency) string { return FormatQty(r.Qty) }}
	rate := pdfColumn{"Rate", 2, align.Right, func(r ExportRow, c Currency) string { return c.Format(r.Rate) }}
	amount := pdfColumn{"Amount", 2, align.Right, func(r ExportRow, c Currency) string { return c.Format(r.Amount) }}

	if model == pricing.ModelQuotation {
		return []pdfColumn{
			index,
			{"Description", 3, align.Left, pdfDescription},
			unit, qty,
			{"Rate", 1, align.Right, rate.value},
			{"Disc.", 1, align.Center, func(r ExportRow, _ Currency) string { return r.Discount }},
			{"Tax", 1, align.Center, func(r ExportRow, _ Currency) string { return r.Tax }},
			{"Service", 1, align.Right, func(r ExportRow, c Currency) string { return c.Format(r.Service) }},
			amount,
		}
	}
	return []pdfColumn{
		index,
		{"Description", 5, align.Left, pdfDescription},
		unit, qty, rate, amount,
	}
}

func pdfDescription(r ExportRow, _ Currency) string {
	if r.Category == "" {
		return r.Description
	}
	return r.Description + " (" + r.Category + ")"
}

// GeneratePDF creates a PDF document from BOQ or quotation export data using
// maroto/v2. It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)
	columns := pdfColumns(data.Model)

	addHeader(m, data)
	addTableHeader(m, columns)
	for _, r := range data.Rows {
		addTableRow(m, columns, r, data.Currency)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the issuer, title, number, party and dates.
func addHeader(m core.Maroto, data ExportData) {
	if data.Issuer != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(data.Issuer, props.Text{Size: 10, Style: fontstyle.Bold, Color: pdfMuted}),
				),
			),
		)
	}

	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	meta := props.Text{Size: 9, Align: align.Left, Color: pdfMuted}
	metaRight := meta
	metaRight.Align = align.Right

	left := data.Number
	if data.Status != "" {
		left += "  ·  " + data.Status
	}
	right := "Date: " + data.CreatedDate
	if data.ValidUntil != "" {
		right += "   Valid until: " + data.ValidUntil
	}
	m.AddRows(
		row.New(6).Add(
			col.New(6).Add(text.New(left, meta)),
			col.New(6).Add(text.New(right, metaRight)),
		),
	)
	if data.PartyName != "" {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(text.New(data.PartyLabel+": "+data.PartyName, meta)),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row.
func addTableHeader(m core.Maroto, columns []pdfColumn) {
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.width).Add(
			text.New(c.header, props.Text{
				Size:  8,
				Style: fontstyle.Bold,
				Align: c.align,
				Color: pdfWhite,
			}),
		).WithStyle(headerCell))
	}
	m.AddRows(row.New(8).Add(cols...))
}

// addTableRow adds a section heading, an item or a section subtotal.
func addTableRow(m core.Maroto, columns []pdfColumn, r ExportRow, cur Currency) {
	switch r.Kind {
	case RowSection:
		m.AddRows(
			row.New(7).Add(
				col.New(1).Add(text.New(r.Index, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center})).
					WithStyle(&props.Cell{BackgroundColor: pdfSection}),
				col.New(11).Add(text.New(r.Description, props.Text{Size: 8, Style: fontstyle.Bold})).
					WithStyle(&props.Cell{BackgroundColor: pdfSection}),
			),
		)
		return
	case RowSubtotal:
		style := props.Text{Size: 8, Style: fontstyle.BoldItalic, Align: align.Right}
		m.AddRows(
			row.New(7).Add(
				col.New(10).Add(text.New(r.Description, style)),
				col.New(2).Add(text.New(cur.Format(r.Amount), style)),
			),
		)
		return
	}

	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(c.width).Add(
			text.New(c.value(r, cur), props.Text{Size: 7, Align: c.align}),
		))
	}
	m.AddRows(row.New(7).Add(cols...))
}

// addSummary adds the summary lines and the amount in words.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: pdfSummary}
	for _, s := range data.Summary {
		size := 9.0
		if s.Grand {
			size = 11
		}
		style := props.Text{Size: size, Style: fontstyle.Bold, Align: align.Right}
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(s.Label, style)).WithStyle(summaryCell),
				col.New(4).Add(text.New(data.Currency.Format(s.Amount), style)).WithStyle(summaryCell),
			),
		)
	}

	if data.AmountInWords != "" {
		m.AddRows(
			row.New(8).Add(
				col.New(12).Add(text.New("Amount in words: "+data.AmountInWords, props.Text{
					Size:  8,
					Style: fontstyle.Italic,
					Top:   2,
				})),
			),
		)
	}
}

// addFooter adds notes or terms and the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	if notes := strings.TrimSpace(data.Notes); notes != "" {
		heading := "Notes"
		if data.Model == pricing.ModelQuotation {
			heading = "Terms & Conditions"
		}
		m.AddRows(row.New(4))
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(heading, props.Text{Size: 8, Style: fontstyle.Bold}))))
		m.AddAutoRow(col.New(12).Add(text.New(notes, props.Text{Size: 8})))
	}

	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: pdfFaint,
					},
				),
			),
		),
	)
}
