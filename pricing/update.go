package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned by ParseUpdate for a field name that has no
// corresponding update.
var ErrUnknownField = errors.New("unknown line item field")

// Update is a single edit to a line item. The set of implementations is
// closed; Reduce is the only place that applies them.
type Update interface {
	isUpdate()
}

type (
	SetDescription    struct{ Value string }
	SetUnit           struct{ Value string }
	SetQuantity       struct{ Value float64 }
	SetUnitRate       struct{ Value float64 }
	SetDiscount       struct{ Value float64 }
	SetDiscountType   struct{ Value AdjustmentType }
	SetTax            struct{ Value float64 }
	SetTaxType        struct{ Value AdjustmentType }
	SetServiceCharges struct{ Value float64 }
	SetMainCategory   struct{ Value MainCategory }
	SetSubCategory    struct{ Value SubCategory }
)

func (SetDescription) isUpdate()    {}
func (SetUnit) isUpdate()           {}
func (SetQuantity) isUpdate()       {}
func (SetUnitRate) isUpdate()       {}
func (SetDiscount) isUpdate()       {}
func (SetDiscountType) isUpdate()   {}
func (SetTax) isUpdate()            {}
func (SetTaxType) isUpdate()        {}
func (SetServiceCharges) isUpdate() {}
func (SetMainCategory) isUpdate()   {}
func (SetSubCategory) isUpdate()    {}

// Reduce applies u to item and returns the edited item.
//
// Changing the main category resets the sub-category to the new main's
// default. Either category change rebuilds the combined category string.
// The item total is recomputed only when an input of the model's formula
// changed: quantity and rate for BOQs, plus discount, tax and service
// charges for quotations.
func Reduce(model Model, item LineItem, u Update) LineItem {
	repriced := false
	switch u := u.(type) {
	case SetDescription:
		item.Description = u.Value
	case SetUnit:
		item.Unit = u.Value
	case SetQuantity:
		item.Quantity = u.Value
		repriced = true
	case SetUnitRate:
		item.UnitRate = u.Value
		repriced = true
	case SetDiscount:
		item.Discount = u.Value
		repriced = model == ModelQuotation
	case SetDiscountType:
		item.DiscountType = u.Value
		repriced = model == ModelQuotation
	case SetTax:
		item.Tax = u.Value
		repriced = model == ModelQuotation
	case SetTaxType:
		item.TaxType = u.Value
		repriced = model == ModelQuotation
	case SetServiceCharges:
		item.ServiceCharges = u.Value
		repriced = model == ModelQuotation
	case SetMainCategory:
		item.MainCategory = u.Value
		item.SubCategory = DefaultSubCategory(u.Value)
		item.Category = CategoryString(item.MainCategory, item.SubCategory)
	case SetSubCategory:
		item.SubCategory = u.Value
		item.Category = CategoryString(item.MainCategory, item.SubCategory)
	}
	if repriced {
		item.TotalAmount = LineTotal(model, item)
	}
	return item
}

// ParseUpdate builds an Update from a form field name and its raw value.
// Numeric values are coerced with ParseAmount and never fail.
func ParseUpdate(field, raw string) (Update, error) {
	switch field {
	case "description":
		return SetDescription{Value: strings.TrimSpace(raw)}, nil
	case "unit":
		return SetUnit{Value: strings.TrimSpace(raw)}, nil
	case "quantity", "qty":
		return SetQuantity{Value: ParseAmount(raw)}, nil
	case "unitRate", "unit_rate", "rate":
		return SetUnitRate{Value: ParseAmount(raw)}, nil
	case "discount":
		return SetDiscount{Value: ParseAmount(raw)}, nil
	case "discountType", "discount_type":
		return SetDiscountType{Value: ParseAdjustmentType(raw)}, nil
	case "tax":
		return SetTax{Value: ParseAmount(raw)}, nil
	case "taxType", "tax_type":
		return SetTaxType{Value: ParseAdjustmentType(raw)}, nil
	case "serviceCharges", "service_charges":
		return SetServiceCharges{Value: ParseAmount(raw)}, nil
	case "mainCategory", "main_category":
		return SetMainCategory{Value: MainCategory(strings.TrimSpace(raw))}, nil
	case "subCategory", "sub_category":
		return SetSubCategory{Value: SubCategory(strings.TrimSpace(raw))}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}
