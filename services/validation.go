package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"buildsales/collections"
	"buildsales/pricing"
)

var contactPhonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return contactPhonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = v.RegisterValidation("main_category", func(fl validator.FieldLevel) bool {
		return pricing.IsMainCategory(pricing.MainCategory(fl.Field().String()))
	})
	_ = v.RegisterValidation("project_status", oneOf(collections.ProjectStatuses))
	_ = v.RegisterValidation("lead_source", oneOf(collections.LeadSources))
	_ = v.RegisterValidation("lead_status", oneOf(collections.LeadStatuses))
	return v
}

func oneOf(values []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(values, fl.Field().String())
	}
}

// CustomerInput is the customer form.
type CustomerInput struct {
	Name    string `form:"name" validate:"required,max=200"`
	Company string `form:"company" validate:"max=200"`
	Email   string `form:"email" validate:"omitempty,email"`
	Phone   string `form:"phone" validate:"omitempty,phone"`
	Address string `form:"address" validate:"max=1000"`
	TaxID   string `form:"tax_id" validate:"omitempty,alphanum,max=30"`
}

// LeadInput is the lead form.
type LeadInput struct {
	Name           string  `form:"name" validate:"required,max=200"`
	Company        string  `form:"company" validate:"max=200"`
	Email          string  `form:"email" validate:"omitempty,email"`
	Phone          string  `form:"phone" validate:"omitempty,phone"`
	Source         string  `form:"source" validate:"omitempty,lead_source"`
	Status         string  `form:"status" validate:"required,lead_status"`
	EstimatedValue float64 `form:"estimated_value" validate:"gte=0"`
	Notes          string  `form:"notes" validate:"max=4000"`
}

// ProjectInput is the project form.
type ProjectInput struct {
	Name            string `form:"name" validate:"required,max=200"`
	ReferenceNumber string `form:"reference_number" validate:"max=60"`
	CustomerID      string `form:"customer"`
	SiteLocation    string `form:"site_location" validate:"max=300"`
	Status          string `form:"status" validate:"required,project_status"`
	StartDate       string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes           string `form:"notes" validate:"max=4000"`
}

// ProductInput is the product form and one row of a catalog import.
type ProductInput struct {
	Name          string  `form:"name" validate:"required,max=300"`
	SKU           string  `form:"sku" validate:"max=60"`
	Unit          string  `form:"unit" validate:"max=30"`
	Rate          float64 `form:"rate" validate:"gte=0"`
	TaxPercentage float64 `form:"tax_percentage" validate:"gte=0,lte=100"`
	MainCategory  string  `form:"main_category" validate:"omitempty,main_category"`
	SubCategory   string  `form:"sub_category"`
	Description   string  `form:"description" validate:"max=2000"`
}

// BOQInput is the new-BOQ form.
type BOQInput struct {
	ProjectID string `form:"project" validate:"required"`
	Title     string `form:"title" validate:"required,max=200"`
	Notes     string `form:"notes" validate:"max=4000"`
}

// QuotationInput is the new-quotation form.
type QuotationInput struct {
	CustomerID string `form:"customer" validate:"required"`
	ProjectID  string `form:"project"`
	LeadID     string `form:"lead"`
	Title      string `form:"title" validate:"max=200"`
	Terms      string `form:"terms" validate:"max=4000"`
}

// Validate checks input against its validate tags and returns a map of
// form field name -> message. The map is empty when input is valid.
func Validate(input any) map[string]string {
	errs := make(map[string]string)

	err := validate.Struct(input)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_form"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = fieldMessage(fe)
		}
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email format"
	case "phone":
		return "Invalid phone number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	case "alphanum":
		return label + " may only contain letters and digits"
	default:
		return label + " is invalid"
	}
}

// fieldLabel turns "tax_percentage" into "Tax percentage".
func fieldLabel(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
