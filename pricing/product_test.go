package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cableProduct = Product{
	ID:            "prod-cable",
	Name:          "4 sq.mm Copper Cable",
	Unit:          "Rmt",
	Rate:          85,
	TaxPercentage: 18,
	MainCategory:  Electrical,
	SubCategory:   "cabling",
}

func TestSelectProduct_MergesIntoExistingItem(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")
	doc, existing, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, err := SelectProduct(doc, s.ID, existing.ID, cableProduct)
	require.NoError(t, err)
	doc, _, err = UpdateItem(doc, s.ID, existing.ID, SetQuantity{Value: 3})
	require.NoError(t, err)

	doc, fresh, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, err = SelectProduct(doc, s.ID, fresh.ID, cableProduct)
	require.NoError(t, err)

	require.Len(t, doc.Sections[0].Items, 1)
	got := doc.Sections[0].Items[0]
	assert.Equal(t, existing.ID, got.ID)
	assert.Equal(t, 4.0, got.Quantity)
	assert.InDelta(t, 4*85*1.18, got.TotalAmount, 1e-9)
	assert.Equal(t, got.TotalAmount, doc.Sections[0].Subtotal)
}

func TestSelectProduct_MergesAcrossSections(t *testing.T) {
	doc := NewDocument(ModelQuotation)
	doc, s1 := AddSection(doc, "Ground floor")
	doc, s2 := AddSection(doc, "First floor")
	doc, a, _ := AddItem(doc, s1.ID, ItemDefaults{})
	doc, _ = SelectProduct(doc, s1.ID, a.ID, cableProduct)
	doc, b, _ := AddItem(doc, s2.ID, ItemDefaults{})

	doc, err := SelectProduct(doc, s2.ID, b.ID, cableProduct)
	require.NoError(t, err)

	assert.Empty(t, doc.Sections[1].Items)
	assert.Equal(t, 2.0, doc.Sections[0].Items[0].Quantity)
}

func TestSelectProduct_ExistingAfterTargetInSameSection(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")
	doc, target, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, holder, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, _ = SelectProduct(doc, s.ID, holder.ID, cableProduct)

	doc, err := SelectProduct(doc, s.ID, target.ID, cableProduct)
	require.NoError(t, err)

	require.Len(t, doc.Sections[0].Items, 1)
	assert.Equal(t, holder.ID, doc.Sections[0].Items[0].ID)
	assert.Equal(t, 2.0, doc.Sections[0].Items[0].Quantity)
}

func TestSelectProduct_BOQDoesNotMerge(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Electrical")
	doc, a, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, b, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, err := SelectProduct(doc, s.ID, a.ID, cableProduct)
	require.NoError(t, err)

	doc, err = SelectProduct(doc, s.ID, b.ID, cableProduct)
	require.NoError(t, err)

	items := doc.Sections[0].Items
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, "prod-cable", it.ProductID)
		assert.Equal(t, 1.0, it.Quantity)
		assert.Equal(t, 85.0, it.TotalAmount)
	}
	assert.Equal(t, 170.0, doc.Sections[0].Subtotal)
}

func TestSelectProduct_CopiesCatalogFields(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")
	doc, item, _ := AddItem(doc, s.ID, ItemDefaults{})

	doc, err := SelectProduct(doc, s.ID, item.ID, cableProduct)
	require.NoError(t, err)

	got := doc.Sections[0].Items[0]
	assert.Equal(t, "prod-cable", got.ProductID)
	assert.Equal(t, "4 sq.mm Copper Cable", got.Description)
	assert.Equal(t, "Rmt", got.Unit)
	assert.Equal(t, 1.0, got.Quantity)
	assert.Equal(t, 85.0, got.UnitRate)
	assert.Equal(t, 18.0, got.Tax)
	assert.Equal(t, "Electrical/Cabling", got.Category)
	assert.InDelta(t, 100.3, got.TotalAmount, 1e-9)
}

func TestSelectProduct_ReselectingSameItemDoesNotMerge(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")
	doc, item, _ := AddItem(doc, s.ID, ItemDefaults{})
	doc, _ = SelectProduct(doc, s.ID, item.ID, cableProduct)

	doc, err := SelectProduct(doc, s.ID, item.ID, cableProduct)
	require.NoError(t, err)

	require.Len(t, doc.Sections[0].Items, 1)
	assert.Equal(t, 1.0, doc.Sections[0].Items[0].Quantity)
}

func TestSelectProduct_MismatchedSubCategoryFallsBackToDefault(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelBOQ), "Mixed")
	doc, item, _ := AddItem(doc, s.ID, ItemDefaults{})
	p := Product{ID: "p", Name: "Odd", MainCategory: Plumbing, SubCategory: "wiring", Rate: 10}

	doc, err := SelectProduct(doc, s.ID, item.ID, p)
	require.NoError(t, err)

	got := doc.Sections[0].Items[0]
	assert.Equal(t, SubCategory("water_supply"), got.SubCategory)
	assert.Equal(t, 0.0, got.Tax)
	assert.Equal(t, 10.0, got.TotalAmount)
}

func TestSelectProduct_UnknownItem(t *testing.T) {
	doc, s := AddSection(NewDocument(ModelQuotation), "Electrical")

	_, err := SelectProduct(doc, s.ID, "missing", cableProduct)

	assert.ErrorIs(t, err, ErrItemNotFound)
}
