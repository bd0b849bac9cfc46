package services

import (
	"regexp"
	"testing"
	"time"

	"buildsales/testhelpers"
)

func TestGenerateDocumentNumber_Format(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)

	got, err := GenerateDocumentNumber(app, "boqs", "boq_number", "BOQ", now)
	if err != nil {
		t.Fatalf("GenerateDocumentNumber failed: %v", err)
	}
	if !regexp.MustCompile(`^BOQ-2026-\d{3}$`).MatchString(got) {
		t.Errorf("number = %q, want BOQ-2026-NNN", got)
	}
}

func TestGenerateDocumentNumber_SkipsTakenNumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	customer := testhelpers.CreateTestCustomer(t, app, "Numbering Co")
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 30; i++ {
		number, err := GenerateDocumentNumber(app, "quotations", "quotation_number", "QT", now)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if seen[number] {
			t.Fatalf("number %q generated twice", number)
		}
		seen[number] = true
		testhelpers.CreateTestQuotation(t, app, customer.Id, number)
	}
}

func TestPow10(t *testing.T) {
	if pow10(3) != 1000 || pow10(5) != 100000 {
		t.Errorf("pow10 returned %d, %d", pow10(3), pow10(5))
	}
}
