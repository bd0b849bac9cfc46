package pricing

import "fmt"

// SectionNumber is the display label of the section at index: "1.0", "2.0"…
func SectionNumber(index int) string {
	return fmt.Sprintf("%d.0", index+1)
}

// ItemNumber is the display label of the itemIndex-th item of the
// sectionIndex-th section: "1.1", "1.2", "2.1"…
func ItemNumber(sectionIndex, itemIndex int) string {
	return fmt.Sprintf("%d.%d", sectionIndex+1, itemIndex+1)
}

// DocumentNumber formats a document identifier such as "BOQ-2025-003".
// The suffix is zero-padded to digits places.
func DocumentNumber(prefix string, year, suffix, digits int) string {
	if digits < 1 {
		digits = 3
	}
	return fmt.Sprintf("%s-%d-%0*d", prefix, year, digits, suffix)
}
