package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
)

// MigrateQuotationValidity fills valid_until on quotations that have none,
// counting validityDays from the record's creation date.
// Safe to call on every startup.
func MigrateQuotationValidity(app *pocketbase.PocketBase, validityDays int) error {
	col, err := app.FindCollectionByNameOrId(Quotations)
	if err != nil {
		return fmt.Errorf("migrate_validity: could not find quotations collection: %w", err)
	}

	records, err := app.FindRecordsByFilter(col, "valid_until = ''", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate_validity: could not query quotations: %w", err)
	}

	for _, rec := range records {
		created := rec.GetDateTime("created").Time()
		if created.IsZero() {
			created = time.Now()
		}
		rec.Set("valid_until", created.AddDate(0, 0, validityDays))
		if err := app.Save(rec); err != nil {
			log.Printf("migrate_validity: failed to update quotation %s: %v\n", rec.Id, err)
		}
	}

	if len(records) > 0 {
		log.Printf("migrate_validity: set validity on %d quotation(s).\n", len(records))
	}
	return nil
}
