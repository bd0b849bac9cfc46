package pricing

// Product is the catalog data copied onto a line item when it is selected.
type Product struct {
	ID            string
	Name          string
	Unit          string
	Rate          float64
	TaxPercentage float64
	MainCategory  MainCategory
	SubCategory   SubCategory
}

// SelectProduct assigns product p to a line item.
//
// In a quotation, if another line item anywhere in the document already
// holds p, the target item is removed instead and the existing item's
// quantity goes up by one. Otherwise (and always for a BOQ) the product's
// description, unit, rate, tax and categories are copied onto the target
// item, and a zero quantity becomes 1.
func SelectProduct(doc Document, sectionID, itemID string, p Product) (Document, error) {
	sIdx, iIdx, err := locate(doc, sectionID, itemID)
	if err != nil {
		return doc, err
	}

	if doc.Model == ModelQuotation {
		if merged, ok, err := mergeProduct(doc, sIdx, iIdx, sectionID, itemID, p.ID); ok || err != nil {
			return merged, err
		}
	}

	doc.Sections = cloneSections(doc.Sections)
	s := doc.Sections[sIdx]
	s.Items = cloneItems(s.Items)
	it := s.Items[iIdx]
	it.ProductID = p.ID
	it.Description = p.Name
	it.Unit = p.Unit
	it.UnitRate = p.Rate
	if doc.Model == ModelQuotation {
		it.Tax = p.TaxPercentage
		it.TaxType = Percentage
	}
	main := p.MainCategory
	if main == "" {
		main = Other
	}
	sub := p.SubCategory
	if sub == "" || !BelongsTo(main, sub) {
		sub = DefaultSubCategory(main)
	}
	it.MainCategory = main
	it.SubCategory = sub
	it.Category = CategoryString(main, sub)
	if it.Quantity == 0 {
		it.Quantity = 1
	}
	it.TotalAmount = LineTotal(doc.Model, it)
	s.Items[iIdx] = it
	s.Subtotal = SectionSubtotal(s.Items)
	doc.Sections[sIdx] = s
	return doc, nil
}

// mergeProduct folds the target item into an existing item holding the same
// product. ok reports whether such an item was found.
func mergeProduct(doc Document, sIdx, iIdx int, sectionID, itemID, productID string) (Document, bool, error) {
	for si, s := range doc.Sections {
		for ii, it := range s.Items {
			if it.ID == itemID || it.ProductID == "" || it.ProductID != productID {
				continue
			}
			removed, err := RemoveItem(doc, sectionID, itemID)
			if err != nil {
				return doc, false, err
			}
			// Removal may shift the existing item within the same section.
			if si == sIdx && ii > iIdx {
				ii--
			}
			return UpdateItemAt(removed, si, ii, SetQuantity{Value: it.Quantity + 1}), true, nil
		}
	}
	return doc, false, nil
}

// UpdateItemAt applies u to the item at the given position. Positions must
// be valid.
func UpdateItemAt(doc Document, sectionIdx, itemIdx int, u Update) Document {
	doc.Sections = cloneSections(doc.Sections)
	s := doc.Sections[sectionIdx]
	s.Items = cloneItems(s.Items)
	s.Items[itemIdx] = Reduce(doc.Model, s.Items[itemIdx], u)
	s.Subtotal = SectionSubtotal(s.Items)
	doc.Sections[sectionIdx] = s
	return doc
}
