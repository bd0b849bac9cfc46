package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/pricing"
)

// RowKind distinguishes the three kinds of rows in an exported table.
type RowKind int

const (
	RowSection RowKind = iota
	RowItem
	RowSubtotal
)

// ExportRow is one table row of an exported BOQ or quotation.
type ExportRow struct {
	Kind        RowKind
	Index       string // "1.0" for sections, "1.2" for items
	Description string
	Category    string
	Unit        string
	Qty         float64
	Rate        float64
	Discount    string // quotation only, already formatted
	Tax         string // quotation only, already formatted
	Service     float64
	Amount      float64
}

// SummaryLine is one labelled amount below the table.
type SummaryLine struct {
	Label  string
	Amount float64
	Grand  bool
}

// ExportData holds all data needed for export.
type ExportData struct {
	Model         pricing.Model
	Issuer        string
	Title         string
	Number        string
	Status        string
	PartyLabel    string // "Project" or "Customer"
	PartyName     string
	CreatedDate   string
	ValidUntil    string
	Notes         string
	Rows          []ExportRow
	Summary       []SummaryLine
	Total         float64
	AmountInWords string
	Currency      Currency
}

// ExportHeader carries the record fields that are not part of the priced
// document.
type ExportHeader struct {
	Issuer      string
	Title       string
	Number      string
	Status      pricing.Status
	PartyLabel  string
	PartyName   string
	CreatedDate string
	ValidUntil  string
	Notes       string
}

// BuildExportData flattens a priced document into export rows and summary
// lines. doc is recalculated first so stale stored totals never leak out.
func BuildExportData(doc pricing.Document, h ExportHeader, cur Currency) ExportData {
	doc = pricing.Recalculate(doc)

	data := ExportData{
		Model:         doc.Model,
		Issuer:        h.Issuer,
		Title:         h.Title,
		Number:        h.Number,
		Status:        pricing.StatusLabel(h.Status),
		PartyLabel:    h.PartyLabel,
		PartyName:     h.PartyName,
		CreatedDate:   h.CreatedDate,
		ValidUntil:    h.ValidUntil,
		Notes:         h.Notes,
		Rows:          []ExportRow{},
		Total:         doc.TotalAmount,
		AmountInWords: cur.Words(doc.TotalAmount),
		Currency:      cur,
	}

	for _, s := range doc.Sections {
		data.Rows = append(data.Rows, ExportRow{
			Kind:        RowSection,
			Index:       s.SectionNumber,
			Description: s.Title,
		})
		for _, it := range s.Items {
			row := ExportRow{
				Kind:        RowItem,
				Index:       it.ItemNumber,
				Description: it.Description,
				Category:    it.Category,
				Unit:        it.Unit,
				Qty:         it.Quantity,
				Rate:        it.UnitRate,
				Amount:      it.TotalAmount,
			}
			if doc.Model == pricing.ModelQuotation {
				row.Discount = formatAdjustment(cur, it.Discount, it.DiscountType)
				row.Tax = formatAdjustment(cur, it.Tax, it.TaxType)
				row.Service = it.ServiceCharges
			}
			data.Rows = append(data.Rows, row)
		}
		data.Rows = append(data.Rows, ExportRow{
			Kind:        RowSubtotal,
			Description: "Subtotal: " + s.Title,
			Amount:      s.Subtotal,
		})
	}

	data.Summary = append(data.Summary, SummaryLine{Label: "Subtotal", Amount: doc.Subtotal})
	if doc.Model == pricing.ModelBOQ {
		if doc.DiscountAmount > 0 {
			data.Summary = append(data.Summary,
				SummaryLine{Label: fmt.Sprintf("Discount (%s)", FormatPercent(doc.DiscountPercentage)), Amount: -doc.DiscountAmount},
				SummaryLine{Label: "After Discount", Amount: doc.Subtotal - doc.DiscountAmount},
			)
		}
		data.Summary = append(data.Summary,
			SummaryLine{Label: fmt.Sprintf("Tax (%s)", FormatPercent(doc.TaxPercentage)), Amount: doc.TaxAmount})
	} else if doc.ServiceCharges != 0 {
		data.Summary = append(data.Summary, SummaryLine{Label: "Service Charges", Amount: doc.ServiceCharges})
	}
	data.Summary = append(data.Summary, SummaryLine{Label: "Grand Total", Amount: doc.TotalAmount, Grand: true})

	return data
}

func formatAdjustment(cur Currency, value float64, typ pricing.AdjustmentType) string {
	if value == 0 {
		return "-"
	}
	if typ == pricing.Fixed {
		return cur.Format(value)
	}
	return FormatPercent(value)
}

// LoadExportData loads a boq or quotation by id and builds its export data,
// resolving the linked project or customer name.
func LoadExportData(app *pocketbase.PocketBase, cfg config.Config, collection, id string) (ExportData, error) {
	doc, rec, err := LoadDocument(app, collection, id)
	if err != nil {
		return ExportData{}, err
	}

	h := ExportHeader{
		Issuer:      cfg.AppName,
		Title:       rec.GetString("title"),
		Number:      rec.GetString(collections.NumberField(doc.Model)),
		Status:      pricing.Status(rec.GetString("status")),
		CreatedDate: rec.GetDateTime("created").Time().Format("02 Jan 2006"),
	}

	if doc.Model == pricing.ModelBOQ {
		h.PartyLabel = "Project"
		h.Notes = rec.GetString("notes")
		if p, err := app.FindRecordById("projects", rec.GetString("project")); err == nil {
			h.PartyName = p.GetString("name")
		}
	} else {
		h.PartyLabel = "Customer"
		h.Notes = rec.GetString("terms")
		if c, err := app.FindRecordById("customers", rec.GetString("customer")); err == nil {
			h.PartyName = c.GetString("name")
			if company := c.GetString("company"); company != "" {
				h.PartyName += ", " + company
			}
		}
		if vu := rec.GetDateTime("valid_until"); !vu.IsZero() {
			h.ValidUntil = vu.Time().Format("02 Jan 2006")
		}
	}
	if h.Title == "" {
		h.Title = h.Number
	}

	return BuildExportData(doc, h, CurrencyFrom(cfg)), nil
}
