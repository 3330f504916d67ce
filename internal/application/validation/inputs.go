package validation

import "github.com/garyjia/invoice-wizard/internal/domain/entity"

// strictClientInput is the client step under the strict rules
type strictClientInput struct {
	CompanyName    string `json:"companyName" validate:"min=2"`
	TRNNumber      string `json:"trnNumber" validate:"trn"`
	ContactPerson  string `json:"contactPerson" validate:"min=2"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"min=8"`
	BillingAddress string `json:"billingAddress" validate:"min=10"`
	InvoiceNumber  string `json:"invoiceNumber" validate:"required"`
	InvoiceDate    string `json:"invoiceDate" validate:"required,datetime=2006-01-02"`
	ValidUntil     string `json:"validUntil" validate:"required,datetime=2006-01-02"`
}

// looseClientInput is the client step under the loose rules
type looseClientInput struct {
	CompanyName    string `json:"companyName" validate:"min=2"`
	TRNNumber      string `json:"trnNumber" validate:"required"`
	ContactPerson  string `json:"contactPerson"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone"`
	BillingAddress string `json:"billingAddress"`
	InvoiceNumber  string `json:"invoiceNumber" validate:"required"`
	InvoiceDate    string `json:"invoiceDate" validate:"required,datetime=2006-01-02"`
	ValidUntil     string `json:"validUntil" validate:"required,datetime=2006-01-02"`
}

type lineItemInput struct {
	Description string   `json:"description" validate:"min=3"`
	UnitPrice   *float64 `json:"unitPrice" validate:"omitempty,min=0"`
	Quantity    int      `json:"quantity" validate:"min=1"`
}

type serviceInput struct {
	LineItems []lineItemInput `json:"lineItems" validate:"min=1,dive"`
	Discount  float64         `json:"discount" validate:"min=0"`
}

type termsInput struct {
	BankName        string `json:"bankName" validate:"min=2"`
	AccountName     string `json:"accountName" validate:"min=2"`
	AccountNumber   string `json:"accountNumber" validate:"min=5"`
	IBAN            string `json:"iban" validate:"min=15"`
	SwiftCode       string `json:"swiftCode" validate:"omitempty,max=11"`
	AdditionalNotes string `json:"additionalNotes"`
}

func serviceInputFrom(details *entity.ServiceDetails) serviceInput {
	if details == nil {
		return serviceInput{}
	}
	in := serviceInput{
		LineItems: make([]lineItemInput, len(details.LineItems)),
		Discount:  details.Discount,
	}
	for i, item := range details.LineItems {
		in.LineItems[i] = lineItemInput{
			Description: item.Description,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}
	return in
}

func termsInputFrom(terms *entity.TermsConditions) termsInput {
	if terms == nil {
		return termsInput{}
	}
	return termsInput(*terms)
}

var messages = map[string]string{
	"companyName.min":        "Company name must be at least 2 characters",
	"trnNumber.trn":          "TRN must be 15 digits",
	"trnNumber.required":     "TRN is required",
	"contactPerson.min":      "Contact person name is required",
	"email.required":         "Invalid email address",
	"email.email":            "Invalid email address",
	"phone.min":              "Phone number must be at least 8 characters",
	"billingAddress.min":     "Billing address must be at least 10 characters",
	"invoiceNumber.required": "Invoice number is required",
	"invoiceDate.required":   "Invoice date is required",
	"invoiceDate.datetime":   "Invoice date must be a YYYY-MM-DD date",
	"validUntil.required":    "Valid until date is required",
	"validUntil.datetime":    "Valid until date must be a YYYY-MM-DD date",
	"lineItems.min":          "At least one line item is required",
	"description.min":        "Description must be at least 3 characters",
	"unitPrice.min":          "Unit price must be non-negative",
	"quantity.min":           "Quantity must be at least 1",
	"discount.min":           "Discount must be non-negative",
	"bankName.min":           "Bank name is required",
	"accountName.min":        "Account name is required",
	"accountNumber.min":      "Account number is required",
	"iban.min":               "IBAN must be at least 15 characters",
	"swiftCode.max":          "SWIFT code must be at most 11 characters",
}
