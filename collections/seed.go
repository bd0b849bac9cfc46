package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/pricing"
)

// ── Definition structs ───────────────────────────────────────────────────

type customerDef struct {
	name    string
	company string
	email   string
	phone   string
	address string
	taxID   string
}

type productDef struct {
	sku  string
	name string
	unit string
	rate float64
	tax  float64
	main pricing.MainCategory
	sub  pricing.SubCategory
}

type itemDef struct {
	sku      string
	qty      float64
	discount float64
	charges  float64
}

type sectionDef struct {
	title string
	items []itemDef
}

type leadDef struct {
	name    string
	company string
	email   string
	phone   string
	source  string
	status  string
	value   float64
}

// ── Data ─────────────────────────────────────────────────────────────────

var seedCustomers = []customerDef{
	{
		name: "Anita Deshmukh", company: "Skyline Residency LLP",
		email: "anita@skylineresidency.in", phone: "9820011223",
		address: "Plot 14, Baner Road, Pune 411045", taxID: "27AAKFS1234L1Z2",
	},
	{
		name: "Rahul Menon", company: "Menon Retail Pvt. Ltd.",
		email: "rahul.menon@menonretail.com", phone: "9845098450",
		address: "21 Church Street, Bangalore 560001", taxID: "29AAECM5678K1Z9",
	},
}

var seedProducts = []productDef{
	{"CW-EXC-01", "Earth excavation in ordinary soil", "Cum", 450, 18, pricing.CivilWorks, "excavation"},
	{"CW-CON-01", "PCC M15 in foundation", "Cum", 5200, 18, pricing.CivilWorks, "concrete"},
	{"CW-MAS-01", "230mm brick masonry in CM 1:6", "Cum", 6400, 18, pricing.CivilWorks, "masonry"},
	{"EL-WIR-01", "Point wiring with 1.5 sq.mm FR copper wire", "Point", 850, 18, pricing.Electrical, "wiring"},
	{"EL-LGT-01", "LED panel light 18W recessed", "Nos", 1250, 18, pricing.Electrical, "lighting"},
	{"PL-WS-01", "CPVC pipe 25mm with fittings", "Rmt", 320, 18, pricing.Plumbing, "water_supply"},
	{"FN-PNT-01", "Acrylic emulsion paint, two coats", "Sqm", 180, 18, pricing.Finishing, "painting"},
	{"FN-FLR-01", "Vitrified tile flooring 600x600", "Sqm", 1450, 18, pricing.Finishing, "flooring"},
}

var seedLeads = []leadDef{
	{"Kavita Rao", "Rao Clinics", "kavita@raoclinics.in", "9900112233", "referral", "qualified", 850000},
	{"Sameer Shaikh", "", "sameer.s@gmail.com", "9767012345", "website", "new", 120000},
}

// Seed populates the store with a small but complete dataset: customers,
// a product catalog, one project with a BOQ, a quotation and two leads.
// It returns early if any project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	cols := map[string]*core.Collection{}
	for _, name := range []string{"customers", "products", "leads", BOQs, Quotations} {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			return fmt.Errorf("seed: could not find %s collection: %w", name, err)
		}
		cols[name] = col
	}

	// ── customers ────────────────────────────────────────────────────
	var customers []*core.Record
	for _, d := range seedCustomers {
		r := core.NewRecord(cols["customers"])
		r.Set("name", d.name)
		r.Set("company", d.company)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("address", d.address)
		r.Set("tax_id", d.taxID)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: customer %q: %w", d.name, err)
		}
		customers = append(customers, r)
	}

	// ── product catalog ──────────────────────────────────────────────
	catalog := map[string]pricing.Product{}
	for _, d := range seedProducts {
		r := core.NewRecord(cols["products"])
		r.Set("sku", d.sku)
		r.Set("name", d.name)
		r.Set("unit", d.unit)
		r.Set("rate", d.rate)
		r.Set("tax_percentage", d.tax)
		r.Set("main_category", string(d.main))
		r.Set("sub_category", string(d.sub))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: product %q: %w", d.sku, err)
		}
		catalog[d.sku] = pricing.Product{
			ID:            r.Id,
			Name:          d.name,
			Unit:          d.unit,
			Rate:          d.rate,
			TaxPercentage: d.tax,
			MainCategory:  d.main,
			SubCategory:   d.sub,
		}
	}

	// ── project ──────────────────────────────────────────────────────
	project := core.NewRecord(projectsCol)
	project.Set("name", "Skyline Residency – Tower B")
	project.Set("reference_number", "SKY-TB-2026")
	project.Set("customer", customers[0].Id)
	project.Set("site_location", "Baner, Pune")
	project.Set("status", "active")
	project.Set("start_date", "2026-04-01 00:00:00.000Z")
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: project: %w", err)
	}

	// ── BOQ ──────────────────────────────────────────────────────────
	boqDoc, err := seedDocument(pricing.ModelBOQ, catalog, []sectionDef{
		{title: "Substructure", items: []itemDef{
			{sku: "CW-EXC-01", qty: 120},
			{sku: "CW-CON-01", qty: 18.5},
		}},
		{title: "Superstructure", items: []itemDef{
			{sku: "CW-MAS-01", qty: 42},
			{sku: "EL-WIR-01", qty: 64},
			{sku: "FN-PNT-01", qty: 860},
		}},
	})
	if err != nil {
		return err
	}
	boqDoc.DiscountPercentage = 5
	boqDoc.TaxPercentage = 18
	boqDoc = pricing.Recalculate(boqDoc)

	boq := core.NewRecord(cols[BOQs])
	boq.Set("boq_number", "BOQ-2026-101")
	boq.Set("title", "Tower B civil and electrical works")
	boq.Set("project", project.Id)
	boq.Set("status", string(pricing.StatusDraft))
	WriteDocument(boq, boqDoc)
	if err := app.Save(boq); err != nil {
		return fmt.Errorf("seed: boq: %w", err)
	}

	// ── quotation ────────────────────────────────────────────────────
	quoteDoc, err := seedDocument(pricing.ModelQuotation, catalog, []sectionDef{
		{title: "Store lighting", items: []itemDef{
			{sku: "EL-LGT-01", qty: 40, discount: 10},
			{sku: "EL-WIR-01", qty: 40, charges: 1500},
		}},
		{title: "Flooring", items: []itemDef{
			{sku: "FN-FLR-01", qty: 210, discount: 5},
		}},
	})
	if err != nil {
		return err
	}
	quoteDoc.ServiceCharges = 2500
	quoteDoc = pricing.Recalculate(quoteDoc)

	quote := core.NewRecord(cols[Quotations])
	quote.Set("quotation_number", "QT-2026-101")
	quote.Set("title", "Menon Retail – Church Street fit-out")
	quote.Set("customer", customers[1].Id)
	quote.Set("status", string(pricing.StatusSent))
	quote.Set("valid_until", time.Now().AddDate(0, 0, 30))
	quote.Set("terms", "50% advance, balance on completion. Prices valid for 30 days.")
	WriteDocument(quote, quoteDoc)
	if err := app.Save(quote); err != nil {
		return fmt.Errorf("seed: quotation: %w", err)
	}

	// ── leads ────────────────────────────────────────────────────────
	for _, d := range seedLeads {
		r := core.NewRecord(cols["leads"])
		r.Set("name", d.name)
		r.Set("company", d.company)
		r.Set("email", d.email)
		r.Set("phone", d.phone)
		r.Set("source", d.source)
		r.Set("status", d.status)
		r.Set("estimated_value", d.value)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: lead %q: %w", d.name, err)
		}
	}

	log.Printf("seed: all seed data inserted successfully (1 project, 1 BOQ, 1 quotation, %d products, %d leads)\n",
		len(seedProducts), len(seedLeads))
	return nil
}

// seedDocument builds a priced document by running the same section, item
// and product operations the editor uses.
func seedDocument(model pricing.Model, catalog map[string]pricing.Product, sections []sectionDef) (pricing.Document, error) {
	doc := pricing.NewDocument(model)
	for _, sd := range sections {
		var s pricing.Section
		doc, s = pricing.AddSection(doc, sd.title)
		for _, id := range sd.items {
			p, ok := catalog[id.sku]
			if !ok {
				return doc, fmt.Errorf("seed: unknown product %q", id.sku)
			}
			var item pricing.LineItem
			var err error
			doc, item, err = pricing.AddItem(doc, s.ID, pricing.ItemDefaults{})
			if err != nil {
				return doc, fmt.Errorf("seed: add item: %w", err)
			}
			if doc, err = pricing.SelectProduct(doc, s.ID, item.ID, p); err != nil {
				return doc, fmt.Errorf("seed: select %s: %w", id.sku, err)
			}
			updates := []pricing.Update{pricing.SetQuantity{Value: id.qty}}
			if id.discount > 0 {
				updates = append(updates, pricing.SetDiscount{Value: id.discount})
			}
			if id.charges > 0 {
				updates = append(updates, pricing.SetServiceCharges{Value: id.charges})
			}
			for _, u := range updates {
				if doc, _, err = pricing.UpdateItem(doc, s.ID, item.ID, u); err != nil {
					return doc, fmt.Errorf("seed: update %s: %w", id.sku, err)
				}
			}
		}
	}
	return doc, nil
}
