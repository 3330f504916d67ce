// Package validation checks each wizard step before the wizard may move on.
// Failures are reported as messages keyed by field path, never as errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/pkg/utils"
	"github.com/go-playground/validator/v10"
)

// Errors maps a field path such as "lineItems[0].description" to its messages
type Errors map[string][]string

// Add appends a message for field
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Empty reports whether there are no failures
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field paths in order
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Merge copies other into e
func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// Validator validates snapshot sections
type Validator interface {
	// ValidateStep checks what the given step collects. Steps without inputs always pass.
	ValidateStep(step entity.Step, snap entity.Snapshot) Errors
	// ValidateDocument checks every step that collects input
	ValidateDocument(snap entity.Snapshot) Errors
}

type stepValidator struct {
	validate     *validator.Validate
	strictClient bool
}

// Option configures the validator
type Option func(*stepValidator)

// WithStrictClient selects the strict client rules: 15 digit TRN and
// required contact details. The loose rules only need a company name and a
// non-empty TRN.
func WithStrictClient(strict bool) Option {
	return func(v *stepValidator) { v.strictClient = strict }
}

// New creates a validator; strict client rules are the default
func New(opts ...Option) Validator {
	validate := validator.New()
	validate.RegisterTagNameFunc(jsonName)
	if err := registerTRN(validate); err != nil {
		panic(fmt.Sprintf("validation: %v", err))
	}

	v := &stepValidator{validate: validate, strictClient: true}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// registerTRN adds the "trn" tag checking a 15 digit tax registration number
func registerTRN(validate *validator.Validate) error {
	err := validate.RegisterValidation("trn", func(fl validator.FieldLevel) bool {
		return utils.ValidateTRN(fl.Field().String()) == nil
	})
	if err != nil {
		return fmt.Errorf("register trn tag: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ Validator = (*stepValidator)(nil)

func (v *stepValidator) ValidateStep(step entity.Step, snap entity.Snapshot) Errors {
	switch step {
	case entity.StepClientInfo:
		return v.check(v.clientInput(snap))
	case entity.StepServiceDetails:
		return v.check(serviceInputFrom(snap.ServiceDetails))
	case entity.StepTerms:
		return v.check(termsInputFrom(snap.Terms))
	default:
		return Errors{}
	}
}

func (v *stepValidator) ValidateDocument(snap entity.Snapshot) Errors {
	out := Errors{}
	for _, step := range entity.Steps() {
		out.Merge(v.ValidateStep(step, snap))
	}
	return out
}

func (v *stepValidator) clientInput(snap entity.Snapshot) interface{} {
	var info entity.ClientInfo
	if snap.ClientInfo != nil {
		info = *snap.ClientInfo
	}
	if v.strictClient {
		return strictClientInput{
			CompanyName:    info.CompanyName,
			TRNNumber:      info.TRNNumber,
			ContactPerson:  info.ContactPerson,
			Email:          info.Email,
			Phone:          info.Phone,
			BillingAddress: info.BillingAddress,
			InvoiceNumber:  snap.InvoiceNumber,
			InvoiceDate:    snap.InvoiceDate,
			ValidUntil:     snap.ValidUntil,
		}
	}
	return looseClientInput{
		CompanyName:    info.CompanyName,
		TRNNumber:      info.TRNNumber,
		ContactPerson:  info.ContactPerson,
		Email:          info.Email,
		Phone:          info.Phone,
		BillingAddress: info.BillingAddress,
		InvoiceNumber:  snap.InvoiceNumber,
		InvoiceDate:    snap.InvoiceDate,
		ValidUntil:     snap.ValidUntil,
	}
}

// check runs struct validation and converts failures into messages
func (v *stepValidator) check(input interface{}) Errors {
	out := Errors{}

	err := v.validate.Struct(input)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.Add("_", err.Error())
		return out
	}

	for _, fe := range fieldErrs {
		out.Add(fieldPath(fe), message(fe))
	}
	return out
}

// fieldPath drops the root struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
