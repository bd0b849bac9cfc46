package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/collections"
	"buildsales/config"
	"buildsales/pricing"
)

// ErrDocumentNotFound is returned when a boq or quotation id does not exist.
var ErrDocumentNotFound = errors.New("document not found")

// LoadBOQ fetches a BOQ record and decodes its pricing document.
func LoadBOQ(app *pocketbase.PocketBase, id string) (pricing.Document, *core.Record, error) {
	return LoadDocument(app, collections.BOQs, id)
}

// LoadQuotation fetches a quotation record and decodes its pricing document.
func LoadQuotation(app *pocketbase.PocketBase, id string) (pricing.Document, *core.Record, error) {
	return LoadDocument(app, collections.Quotations, id)
}

// LoadDocument fetches a record from a document collection and decodes it.
func LoadDocument(app *pocketbase.PocketBase, collection, id string) (pricing.Document, *core.Record, error) {
	rec, err := app.FindRecordById(collection, id)
	if err != nil {
		return pricing.Document{}, nil, fmt.Errorf("%w: %s %s", ErrDocumentNotFound, collection, id)
	}
	doc, err := collections.ReadDocument(rec)
	if err != nil {
		return pricing.Document{}, nil, err
	}
	return doc, rec, nil
}

// SaveDocument recalculates doc, writes it onto rec and persists the record.
// The recalculated document is returned so callers render fresh totals.
func SaveDocument(app core.App, rec *core.Record, doc pricing.Document) (pricing.Document, error) {
	doc = pricing.Recalculate(doc)
	collections.WriteDocument(rec, doc)
	if err := app.Save(rec); err != nil {
		return doc, fmt.Errorf("save %s %s: %w", rec.Collection().Name, rec.Id, err)
	}
	return doc, nil
}

// BOQHeader holds the user-entered fields of a new BOQ.
type BOQHeader struct {
	ProjectID string
	Title     string
	Notes     string
}

// NewBOQRecord creates a draft BOQ with a generated number, no sections and
// the configured default tax percentage.
func NewBOQRecord(app core.App, cfg config.Config, h BOQHeader, now time.Time) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collections.BOQs)
	if err != nil {
		return nil, fmt.Errorf("new boq: %w", err)
	}
	number, err := GenerateDocumentNumber(app, collections.BOQs, "boq_number", cfg.BOQPrefix, now)
	if err != nil {
		return nil, fmt.Errorf("new boq: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("boq_number", number)
	rec.Set("title", h.Title)
	rec.Set("project", h.ProjectID)
	rec.Set("notes", h.Notes)
	rec.Set("status", string(pricing.StatusDraft))

	doc := pricing.NewDocument(pricing.ModelBOQ)
	doc.TaxPercentage = cfg.DefaultTaxPercentage
	if _, err := SaveDocument(app, rec, doc); err != nil {
		return nil, fmt.Errorf("new boq: %w", err)
	}
	return rec, nil
}

// QuotationHeader holds the user-entered fields of a new quotation.
type QuotationHeader struct {
	CustomerID string
	ProjectID  string
	LeadID     string
	Title      string
	Terms      string
}

// NewQuotationRecord creates a draft quotation with a generated number, no
// sections and a validity window of cfg.QuotationValidityDays. app may be a
// transaction app.
func NewQuotationRecord(app core.App, cfg config.Config, h QuotationHeader, now time.Time) (*core.Record, error) {
	col, err := app.FindCollectionByNameOrId(collections.Quotations)
	if err != nil {
		return nil, fmt.Errorf("new quotation: %w", err)
	}
	number, err := GenerateDocumentNumber(app, collections.Quotations, "quotation_number", cfg.QuotationPrefix, now)
	if err != nil {
		return nil, fmt.Errorf("new quotation: %w", err)
	}

	rec := core.NewRecord(col)
	rec.Set("quotation_number", number)
	rec.Set("title", h.Title)
	rec.Set("customer", h.CustomerID)
	rec.Set("project", h.ProjectID)
	rec.Set("lead", h.LeadID)
	rec.Set("terms", h.Terms)
	rec.Set("status", string(pricing.StatusDraft))
	rec.Set("valid_until", now.AddDate(0, 0, cfg.QuotationValidityDays))

	if _, err := SaveDocument(app, rec, pricing.NewDocument(pricing.ModelQuotation)); err != nil {
		return nil, fmt.Errorf("new quotation: %w", err)
	}
	return rec, nil
}

// RecalcResult reports what RecalculateAll did.
type RecalcResult struct {
	Processed int
	Changed   int
	Failed    int
}

// RecalculateAll reloads every document of a collection, recomputes its
// totals and saves those whose stored values differ. Per-document failures
// are logged and counted, not returned.
func RecalculateAll(app *pocketbase.PocketBase, collection string) (RecalcResult, error) {
	var res RecalcResult
	if _, ok := collections.ModelFor(collection); !ok {
		return res, fmt.Errorf("recalculate: %q is not a document collection", collection)
	}

	records, err := app.FindAllRecords(collection)
	if err != nil {
		return res, fmt.Errorf("recalculate %s: %w", collection, err)
	}

	for _, rec := range records {
		res.Processed++
		doc, err := collections.ReadDocument(rec)
		if err != nil {
			log.Printf("recalc: %s %s: %v", collection, rec.Id, err)
			res.Failed++
			continue
		}
		fresh := pricing.Recalculate(doc)
		if sameTotals(doc, fresh) {
			continue
		}
		if _, err := SaveDocument(app, rec, fresh); err != nil {
			log.Printf("recalc: %v", err)
			res.Failed++
			continue
		}
		res.Changed++
	}
	return res, nil
}

func sameTotals(a, b pricing.Document) bool {
	if a.Subtotal != b.Subtotal || a.DiscountAmount != b.DiscountAmount ||
		a.TaxAmount != b.TaxAmount || a.TotalAmount != b.TotalAmount ||
		len(a.Sections) != len(b.Sections) {
		return false
	}
	for i := range a.Sections {
		if a.Sections[i].Subtotal != b.Sections[i].Subtotal || len(a.Sections[i].Items) != len(b.Sections[i].Items) {
			return false
		}
		for j := range a.Sections[i].Items {
			if a.Sections[i].Items[j].TotalAmount != b.Sections[i].Items[j].TotalAmount {
				return false
			}
		}
	}
	return true
}
