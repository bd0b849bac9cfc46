package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSection_NumbersByPosition(t *testing.T) {
	doc := NewDocument(ModelBOQ)
	doc, first := AddSection(doc, "Substructure")
	doc, second := AddSection(doc, "Superstructure")

	assert.Equal(t, "1.0", first.SectionNumber)
	assert.Equal(t, "2.0", second.SectionNumber)
	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Superstructure", doc.Sections[1].Title)
}

func TestAddItem_Defaults(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")
	doc, item, err := AddItem(doc, s.ID, ItemDefaults{Unit: "Nos", Tax: 18, MainCategory: Electrical})
	require.NoError(t, err)

	assert.Equal(t, "1.1", item.ItemNumber)
	assert.Equal(t, 0.0, item.Quantity)
	assert.Equal(t, 18.0, item.Tax)
	assert.Equal(t, Percentage, item.TaxType)
	assert.Equal(t, SubCategory("wiring"), item.SubCategory)
	assert.Equal(t, "Electrical/Wiring", item.Category)
	assert.Equal(t, 0.0, doc.Sections[0].Subtotal)
}

func TestAddItem_BOQItemsCarryNoTax(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Civil")
	_, item, err := AddItem(doc, s.ID, ItemDefaults{Tax: 18})
	require.NoError(t, err)

	assert.Equal(t, 0.0, item.Tax)
	assert.Equal(t, Other, item.MainCategory)
	assert.Equal(t, Custom, item.SubCategory)
}

func TestAddItem_UnknownSection(t *testing.T) {
	_, _, err := AddItem(NewDocument(ModelBOQ), "missing", ItemDefaults{})

	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRemoveItem_KeepsNumbers(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Civil")
	doc, a, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, b, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, _, _ = UpdateItem(doc, s.ID, a.ID, SetQuantity{Value: 2})
	doc, _, _ = UpdateItem(doc, s.ID, a.ID, SetUnitRate{Value: 50})

	doc, err := RemoveItem(doc, s.ID, a.ID)
	require.NoError(t, err)
	doc, c, err := AddItem(doc, s.ID, ItemDefaults{})
	require.NoError(t, err)

	require.Len(t, doc.Sections[0].Items, 2)
	assert.Equal(t, "1.2", doc.Sections[0].Items[0].ItemNumber)
	assert.Equal(t, b.ID, doc.Sections[0].Items[0].ID)
	assert.Equal(t, "1.2", c.ItemNumber, "numbers come from position at creation")
	assert.Equal(t, 0.0, doc.Sections[0].Subtotal)
}

func TestRemoveItem_Errors(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Civil")

	_, err := RemoveItem(doc, s.ID, "nope")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = RemoveItem(doc, "nope", "nope")
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRemoveSection_CascadesAndKeepsNumbers(t *testing.T) {
	doc := NewDocument(ModelBOQ)
	doc, first := AddSection(doc, "A")
	doc, _ = AddSection(doc, "B")
	doc, _, _ = AddItem(doc, first.ID, ItemDefaults{})

	doc, err := RemoveSection(doc, first.ID)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "2.0", doc.Sections[0].SectionNumber)
	assert.Equal(t, 0, doc.ItemCount())

	_, err = RemoveSection(doc, first.ID)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestRenumber(t *testing.T) {
	doc := NewDocument(ModelBOQ)
	doc, a := AddSection(doc, "A")
	doc, b := AddSection(doc, "B")
	doc, _, _ = AddItem(doc, b.ID, ItemDefaults{})
	doc, x, _ := AddItem(doc, b.ID, ItemDefaults{})
	doc, _, _ = AddItem(doc, b.ID, ItemDefaults{})
	doc, _ = RemoveSection(doc, a.ID)
	doc, _ = RemoveItem(doc, b.ID, x.ID)

	doc = Renumber(doc)

	assert.Equal(t, "1.0", doc.Sections[0].SectionNumber)
	assert.Equal(t, "1.1", doc.Sections[0].Items[0].ItemNumber)
	assert.Equal(t, "1.2", doc.Sections[0].Items[1].ItemNumber)
}

func TestUpdateItem_RefreshesSectionNotDocument(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Civil")
	doc, item, _ := AddItem(doc, s.ID, ItemDefaults{})

	doc, updated, err := UpdateItem(doc, s.ID, item.ID, SetQuantity{Value: 4})
	require.NoError(t, err)
	doc, updated, err = UpdateItem(doc, s.ID, updated.ID, SetUnitRate{Value: 25})
	require.NoError(t, err)

	assert.Equal(t, 100.0, updated.TotalAmount)
	assert.Equal(t, 100.0, doc.Sections[0].Subtotal)
	assert.Equal(t, 0.0, doc.TotalAmount, "document totals are recomputed on demand")

	doc = Recalculate(doc)
	assert.Equal(t, 100.0, doc.TotalAmount)
}

func TestUpdateItem_LeavesOriginalUntouched(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Civil")
	doc, item, _ := AddItem(doc, s.ID, ItemDefaults{})

	_, _, err := UpdateItem(doc, s.ID, item.ID, SetQuantity{Value: 9})
	require.NoError(t, err)

	assert.Equal(t, 0.0, doc.Sections[0].Items[0].Quantity)
}

func TestRenameSection(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Old")
	doc, err := RenameSection(doc, s.ID, "New")
	require.NoError(t, err)

	got, err := FindSection(doc, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
}

func TestDocumentNumber(t *testing.T) {
	assert.Equal(t, "BOQ-2025-003", DocumentNumber("BOQ", 2025, 3, 3))
	assert.Equal(t, "QT-2026-0042", DocumentNumber("QT", 2026, 42, 4))
	assert.Equal(t, "BOQ-2025-999", DocumentNumber("BOQ", 2025, 999, 0))
}

func TestItemAndSectionNumber(t *testing.T) {
	assert.Equal(t, "1.0", SectionNumber(0))
	assert.Equal(t, "3.0", SectionNumber(2))
	assert.Equal(t, "2.5", ItemNumber(1, 4))
}
