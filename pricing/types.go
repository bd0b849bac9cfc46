// Package pricing derives line, section and document totals for bills of
// quantities (BOQs) and quotations.
//
// Every function in this package is pure: documents are passed in by value
// and a new value is returned. Nothing here performs I/O.
package pricing

// Model selects which line-item formula applies to a document.
type Model string

const (
	// ModelBOQ prices items as quantity × unit rate and applies discount and
	// tax once, at the document level.
	ModelBOQ Model = "boq"
	// ModelQuotation prices each item with its own discount, tax and service
	// charges; the document only adds flat service charges on top.
	ModelQuotation Model = "quotation"
)

// AdjustmentType tells whether a discount or tax value is a percentage or an
// absolute currency amount.
type AdjustmentType string

const (
	Percentage AdjustmentType = "percentage"
	Fixed      AdjustmentType = "fixed"
)

// LineItem is one priced row inside a section. TotalAmount is derived and is
// overwritten on every recalculation.
type LineItem struct {
	ID             string         `json:"id"`
	ItemNumber     string         `json:"itemNumber"`
	Description    string         `json:"description"`
	ProductID      string         `json:"productId,omitempty"`
	Unit           string         `json:"unit"`
	Quantity       float64        `json:"quantity"`
	UnitRate       float64        `json:"unitRate"`
	Discount       float64        `json:"discount"`
	DiscountType   AdjustmentType `json:"discountType"`
	Tax            float64        `json:"tax"`
	TaxType        AdjustmentType `json:"taxType"`
	ServiceCharges float64        `json:"serviceCharges"`
	MainCategory   MainCategory   `json:"mainCategory"`
	SubCategory    SubCategory    `json:"subCategory"`
	Category       string         `json:"category"`
	TotalAmount    float64        `json:"totalAmount"`
}

// Section is an ordered, named group of line items.
type Section struct {
	ID            string     `json:"id"`
	SectionNumber string     `json:"sectionNumber"`
	Title         string     `json:"title"`
	Items         []LineItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
}

// Document is a BOQ or a quotation. The totals fields are only refreshed by
// Recalculate.
type Document struct {
	Model              Model     `json:"model"`
	Sections           []Section `json:"sections"`
	DiscountPercentage float64   `json:"discountPercentage"`
	TaxPercentage      float64   `json:"taxPercentage"`
	ServiceCharges     float64   `json:"serviceCharges"`
	Subtotal           float64   `json:"subtotal"`
	DiscountAmount     float64   `json:"discountAmount"`
	TaxAmount          float64   `json:"taxAmount"`
	TotalAmount        float64   `json:"totalAmount"`
}

// NewDocument returns an empty document priced with the given model.
func NewDocument(model Model) Document {
	return Document{Model: model, Sections: []Section{}}
}

// ParseAdjustmentType maps a form value to an AdjustmentType. Anything other
// than "fixed" is treated as a percentage.
func ParseAdjustmentType(s string) AdjustmentType {
	if AdjustmentType(s) == Fixed {
		return Fixed
	}
	return Percentage
}
