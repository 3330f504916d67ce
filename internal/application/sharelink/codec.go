// Package sharelink encodes a snapshot into query parameters and back.
//
// Scalars travel as plain parameters, structured values as JSON strings.
// Decoding never fails as a whole: every missing or unreadable parameter
// falls back to the matching field of a default snapshot on its own.
package sharelink

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/domain/totals"
)

// Codec converts snapshots to and from link parameters
type Codec struct {
	logger port.Logger
}

// NewCodec creates a codec that logs the fields it had to fall back on
func NewCodec(logger port.Logger) *Codec {
	if logger == nil {
		logger = port.NopLogger{}
	}
	return &Codec{logger: logger}
}

// Encode serializes the snapshot. Absent structured values are left out.
func (c *Codec) Encode(snap entity.Snapshot) url.Values {
	values := url.Values{}
	values.Set(KeyDocumentType, string(snap.DocumentType))
	values.Set(KeyCurrentStep, strconv.Itoa(int(snap.CurrentStep)))
	values.Set(KeyInvoiceNumber, snap.InvoiceNumber)
	values.Set(KeyQuotationNumber, snap.QuotationNumber)
	values.Set(KeyInvoiceDate, snap.InvoiceDate)
	values.Set(KeyValidUntil, snap.ValidUntil)

	if snap.ClientInfo != nil {
		c.setJSON(values, KeyClientInfo, snap.ClientInfo)
	}
	if snap.ServiceDetails != nil {
		c.setJSON(values, KeyServiceDetails, snap.ServiceDetails)
	}
	if snap.Terms != nil {
		c.setJSON(values, KeyTerms, snap.Terms)
	}
	if snap.CompanyInfo != nil {
		c.setJSON(values, KeyCompanyInfo, snap.CompanyInfo)
	}
	if snap.DocumentTitle != "" {
		values.Set(KeyDocumentTitle, snap.DocumentTitle)
	}
	return values
}

func (c *Codec) setJSON(values url.Values, key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to encode link parameter", "key", key, "error", err)
		return
	}
	values.Set(key, string(raw))
}

// Recognizable reports whether values carry at least one link parameter
func Recognizable(values url.Values) bool {
	for _, key := range Keys {
		if _, ok := values[key]; ok {
			return true
		}
	}
	return false
}

// Decode rebuilds a snapshot from link parameters. It returns false when no
// link parameter is present, telling the caller to use another source.
func (c *Codec) Decode(values url.Values, fallback entity.Snapshot) (entity.Snapshot, bool) {
	if !Recognizable(values) {
		return entity.Snapshot{}, false
	}

	def := fallback.Clone()
	snap := entity.Snapshot{
		DocumentType:    def.DocumentType,
		CurrentStep:     def.CurrentStep,
		InvoiceNumber:   stringOr(values, KeyInvoiceNumber, def.InvoiceNumber),
		QuotationNumber: stringOr(values, KeyQuotationNumber, def.QuotationNumber),
		InvoiceDate:     stringOr(values, KeyInvoiceDate, def.InvoiceDate),
		ValidUntil:      stringOr(values, KeyValidUntil, def.ValidUntil),
		DocumentTitle:   stringOr(values, KeyDocumentTitle, def.DocumentTitle),
		ClientInfo:      def.ClientInfo,
		ServiceDetails:  def.ServiceDetails,
		Terms:           def.Terms,
		CompanyInfo:     def.CompanyInfo,
	}

	if raw := values.Get(KeyDocumentType); raw != "" {
		if docType := entity.DocumentType(raw); docType.IsValid() {
			snap.DocumentType = docType
		} else {
			c.logger.Info("Ignoring unknown document type in link", "value", raw)
		}
	}

	if raw := values.Get(KeyCurrentStep); raw != "" {
		step, err := strconv.Atoi(raw)
		if err == nil && entity.Step(step).IsValid() {
			snap.CurrentStep = entity.Step(step)
		} else {
			c.logger.Info("Ignoring invalid step in link", "value", raw)
		}
	}

	if v, ok := decodeJSON[entity.ClientInfo](c, values, KeyClientInfo); ok {
		snap.ClientInfo = v
	}
	if v, ok := decodeJSON[entity.ServiceDetails](c, values, KeyServiceDetails); ok {
		details := totals.Normalize(*v)
		snap.ServiceDetails = &details
	}
	if v, ok := decodeJSON[entity.TermsConditions](c, values, KeyTerms); ok {
		snap.Terms = v
	}
	if v, ok := decodeJSON[entity.CompanyInfo](c, values, KeyCompanyInfo); ok {
		snap.CompanyInfo = v
	}

	return snap, true
}

// decodeJSON parses one structured parameter; false means keep the default
func decodeJSON[T any](c *Codec, values url.Values, key string) (*T, bool) {
	raw := values.Get(key)
	if raw == "" {
		return nil, false
	}

	var v *T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		c.logger.Error("Failed to decode link parameter, using default", "key", key, "error", err)
		return nil, false
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// stringOr returns the parameter, or def when it is absent or empty. An empty
// date or title in a link therefore cannot clear the fallback's value.
func stringOr(values url.Values, key, def string) string {
	if v := values.Get(key); v != "" {
		return v
	}
	return def
}
