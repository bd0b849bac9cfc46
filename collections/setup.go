package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"buildsales/pricing"
)

// Setup programmatically creates/ensures the customers, projects, leads,
// products, boqs and quotations collections exist.
//
// Sections and line items are not collections of their own: they are stored
// as JSON inside their boq or quotation record.
func Setup(app *pocketbase.PocketBase) {
	customers := ensureCollection(app, "customers", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "tax_id"})
		addTimestamps(c)
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "reference_number"})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "site_location"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    ProjectStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.DateField{Name: "start_date"})
		c.Fields.Add(&core.DateField{Name: "end_date"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		addTimestamps(c)
	})

	leads := ensureCollection(app, "leads", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.SelectField{
			Name:      "source",
			Values:    LeadSources,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    LeadStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "estimated_value"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		addTimestamps(c)
	})

	ensureCollection(app, "products", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "sku"})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "rate"})
		c.Fields.Add(&core.TextField{Name: "main_category"})
		c.Fields.Add(&core.TextField{Name: "sub_category"})
		c.Fields.Add(&core.NumberField{Name: "tax_percentage"})
		c.Fields.Add(&core.TextField{Name: "description"})
		c.AddIndex("idx_products_sku", true, "sku", "sku != ''")
		addTimestamps(c)
	})

	ensureCollection(app, "boqs", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "boq_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "title", Required: true})
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    statusValues(pricing.ModelBOQ),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "sections", MaxSize: 5 << 20})
		c.Fields.Add(&core.NumberField{Name: "discount_percentage"})
		c.Fields.Add(&core.NumberField{Name: "tax_percentage"})
		addTotals(c)
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.AddIndex("idx_boqs_number", true, "boq_number", "")
		addTimestamps(c)
	})

	ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "quotation_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "title"})
		c.Fields.Add(&core.RelationField{
			Name:         "customer",
			Required:     true,
			CollectionId: customers.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "project",
			CollectionId: projects.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "lead",
			CollectionId: leads.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    statusValues(pricing.ModelQuotation),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "sections", MaxSize: 5 << 20})
		c.Fields.Add(&core.NumberField{Name: "service_charges"})
		addTotals(c)
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.TextField{Name: "terms"})
		c.AddIndex("idx_quotations_number", true, "quotation_number", "")
		addTimestamps(c)
	})
}

// Select values shared with handlers and templates.
var (
	ProjectStatuses = []string{"active", "on_hold", "completed", "cancelled"}
	LeadSources     = []string{"website", "referral", "walk_in", "phone", "other"}
	LeadStatuses    = []string{"new", "contacted", "qualified", "proposal", "won", "lost"}
)

func statusValues(model pricing.Model) []string {
	var out []string
	for _, s := range pricing.Statuses(model) {
		out = append(out, string(s))
	}
	return out
}

func addTotals(c *core.Collection) {
	c.Fields.Add(&core.NumberField{Name: "subtotal"})
	c.Fields.Add(&core.NumberField{Name: "discount_amount"})
	c.Fields.Add(&core.NumberField{Name: "tax_amount"})
	c.Fields.Add(&core.NumberField{Name: "total_amount"})
}

func addTimestamps(c *core.Collection) {
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
