package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrSectionNotFound is returned when a section ID is not in the document.
	ErrSectionNotFound = errors.New("section not found")
	// ErrItemNotFound is returned when an item ID is not in the section.
	ErrItemNotFound = errors.New("line item not found")
)

// ItemDefaults seeds a newly added line item.
type ItemDefaults struct {
	Unit         string
	Tax          float64
	MainCategory MainCategory
}

// AddSection appends an empty section numbered after its position.
func AddSection(doc Document, title string) (Document, Section) {
	s := Section{
		ID:            uuid.NewString(),
		SectionNumber: SectionNumber(len(doc.Sections)),
		Title:         title,
		Items:         []LineItem{},
	}
	doc.Sections = append(cloneSections(doc.Sections), s)
	return doc, s
}

// RemoveSection drops a section and every item in it. Remaining sections
// keep their numbers.
func RemoveSection(doc Document, sectionID string) (Document, error) {
	idx := sectionIndex(doc, sectionID)
	if idx < 0 {
		return doc, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	sections := cloneSections(doc.Sections)
	doc.Sections = append(sections[:idx], sections[idx+1:]...)
	return doc, nil
}

// RenameSection changes a section title.
func RenameSection(doc Document, sectionID, title string) (Document, error) {
	idx := sectionIndex(doc, sectionID)
	if idx < 0 {
		return doc, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	doc.Sections = cloneSections(doc.Sections)
	doc.Sections[idx].Title = title
	return doc, nil
}

// AddItem appends a zero-valued line item to a section. Its item number is
// derived from its position at creation time.
func AddItem(doc Document, sectionID string, defaults ItemDefaults) (Document, LineItem, error) {
	idx := sectionIndex(doc, sectionID)
	if idx < 0 {
		return doc, LineItem{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}

	main := defaults.MainCategory
	if main == "" {
		main = Other
	}
	sub := DefaultSubCategory(main)
	item := LineItem{
		ID:           uuid.NewString(),
		ItemNumber:   ItemNumber(idx, len(doc.Sections[idx].Items)),
		Unit:         defaults.Unit,
		DiscountType: Percentage,
		Tax:          defaults.Tax,
		TaxType:      Percentage,
		MainCategory: main,
		SubCategory:  sub,
		Category:     CategoryString(main, sub),
	}
	if doc.Model == ModelBOQ {
		item.Tax = 0
	}

	doc.Sections = cloneSections(doc.Sections)
	s := doc.Sections[idx]
	s.Items = append(cloneItems(s.Items), item)
	doc.Sections[idx] = RecalculateSection(doc.Model, s)
	return doc, item, nil
}

// RemoveItem deletes a line item and refreshes the section subtotal.
func RemoveItem(doc Document, sectionID, itemID string) (Document, error) {
	sIdx, iIdx, err := locate(doc, sectionID, itemID)
	if err != nil {
		return doc, err
	}
	doc.Sections = cloneSections(doc.Sections)
	s := doc.Sections[sIdx]
	items := cloneItems(s.Items)
	s.Items = append(items[:iIdx], items[iIdx+1:]...)
	s.Subtotal = SectionSubtotal(s.Items)
	doc.Sections[sIdx] = s
	return doc, nil
}

// UpdateItem applies u to one item through Reduce and refreshes the owning
// section's subtotal. Document totals are left as they were.
func UpdateItem(doc Document, sectionID, itemID string, u Update) (Document, LineItem, error) {
	sIdx, iIdx, err := locate(doc, sectionID, itemID)
	if err != nil {
		return doc, LineItem{}, err
	}
	doc = UpdateItemAt(doc, sIdx, iIdx, u)
	return doc, doc.Sections[sIdx].Items[iIdx], nil
}

// FindItem returns the item with the given ID.
func FindItem(doc Document, sectionID, itemID string) (LineItem, error) {
	sIdx, iIdx, err := locate(doc, sectionID, itemID)
	if err != nil {
		return LineItem{}, err
	}
	return doc.Sections[sIdx].Items[iIdx], nil
}

// FindSection returns the section with the given ID.
func FindSection(doc Document, sectionID string) (Section, error) {
	idx := sectionIndex(doc, sectionID)
	if idx < 0 {
		return Section{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	return doc.Sections[idx], nil
}

// Renumber reassigns section and item numbers from their current positions.
// Structural edits never renumber on their own.
func Renumber(doc Document) Document {
	doc.Sections = cloneSections(doc.Sections)
	for si := range doc.Sections {
		s := doc.Sections[si]
		s.SectionNumber = SectionNumber(si)
		s.Items = cloneItems(s.Items)
		for ii := range s.Items {
			s.Items[ii].ItemNumber = ItemNumber(si, ii)
		}
		doc.Sections[si] = s
	}
	return doc
}

// ItemCount returns the number of line items across all sections.
func (d Document) ItemCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Items)
	}
	return n
}

func sectionIndex(doc Document, sectionID string) int {
	for i, s := range doc.Sections {
		if s.ID == sectionID {
			return i
		}
	}
	return -1
}

func locate(doc Document, sectionID, itemID string) (int, int, error) {
	sIdx := sectionIndex(doc, sectionID)
	if sIdx < 0 {
		return -1, -1, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	for i, it := range doc.Sections[sIdx].Items {
		if it.ID == itemID {
			return sIdx, i, nil
		}
	}
	return -1, -1, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	copy(out, in)
	return out
}

func cloneItems(in []LineItem) []LineItem {
	out := make([]LineItem, len(in))
	copy(out, in)
	return out
}
