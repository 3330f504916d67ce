package sharelink

import (
	"net/url"
	"testing"
	"time"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() entity.Snapshot {
	return entity.DefaultValues().NewSnapshot(time.Date(2026, 2, 25, 12, 0, 0, 0, time.Local))
}

func fullSnapshot() entity.Snapshot {
	snap := defaults()
	snap.DocumentType = entity.DocumentTypeInquiry
	snap.CurrentStep = entity.StepTerms
	snap.ClientInfo = &entity.ClientInfo{
		CompanyName:    "Acme Events LLC",
		TRNNumber:      "100200300400500",
		ContactPerson:  "Sam",
		Email:          "sam@acme.test",
		Phone:          "+971500000000",
		BillingAddress: "Warehouse 4, Al Quoz, Dubai",
	}
	snap.ServiceDetails = &entity.ServiceDetails{
		ProjectName: "Launch night",
		LineItems: []entity.LineItem{
			{ID: "a", Description: "LED wall", SubDescriptions: []string{"4x3m", "operator"}, UnitPrice: entity.Float(100), Quantity: 2, Total: 200},
			{ID: "b", Description: "Haze machine", SubDescriptions: []string{}, Quantity: 1},
		},
		Subtotal:      200,
		Discount:      12.5,
		VATAmount:     9.38,
		VATPercentage: 5,
		NetTotal:      196.88,
	}
	snap.CompanyInfo = &entity.CompanyInfo{Name: "Pixelate Plus", TRNNumber: "100000000000003"}
	snap.DocumentTitle = "QUOTATION"
	snap.InvoiceNumber = "INV-1718000000000-X7K2"
	snap.QuotationNumber = "Q-2026-01"
	return snap
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec(nil)
	snap := fullSnapshot()

	decoded, ok := codec.Decode(codec.Encode(snap), defaults())

	require.True(t, ok)
	assert.Equal(t, snap, decoded)
}

func TestCodec_RoundTripThroughQueryString(t *testing.T) {
	codec := NewCodec(nil)
	snap := fullSnapshot()

	parsed, err := url.ParseQuery(codec.Encode(snap).Encode())
	require.NoError(t, err)

	decoded, ok := codec.Decode(parsed, defaults())
	require.True(t, ok)
	assert.Equal(t, snap, decoded)
}

func TestCodec_Encode(t *testing.T) {
	snap := defaults()
	values := NewCodec(nil).Encode(snap)

	assert.Equal(t, "invoice", values.Get(KeyDocumentType))
	assert.Equal(t, "0", values.Get(KeyCurrentStep))
	assert.Equal(t, "2026-02-25", values.Get(KeyInvoiceDate))
	assert.Contains(t, values, KeyInvoiceNumber)
	assert.NotContains(t, values, KeyClientInfo)
	assert.NotContains(t, values, KeyDocumentTitle)
	assert.JSONEq(t, `{"projectName":"","lineItems":[],"subtotal":0,"discount":0,"vatAmount":0,"vatPercentage":0,"netTotal":0}`, values.Get(KeyServiceDetails))
}

func TestCodec_Decode_NoRecognizableKeys(t *testing.T) {
	codec := NewCodec(nil)

	_, ok := codec.Decode(url.Values{}, defaults())
	assert.False(t, ok)

	_, ok = codec.Decode(url.Values{"utm_source": {"mail"}}, defaults())
	assert.False(t, ok)
}

func TestCodec_Decode_CorruptedServiceDetails(t *testing.T) {
	values := url.Values{}
	values.Set(KeyCurrentStep, "1")
	values.Set(KeyClientInfo, `{"companyName":"Acme","trnNumber":"100200300400500"}`)
	values.Set(KeyServiceDetails, `{"lineItems":[{"id":`)

	decoded, ok := NewCodec(nil).Decode(values, defaults())

	require.True(t, ok)
	require.NotNil(t, decoded.ClientInfo)
	assert.Equal(t, "Acme", decoded.ClientInfo.CompanyName)
	assert.Equal(t, defaults().ServiceDetails, decoded.ServiceDetails)
	assert.Equal(t, entity.StepClientInfo, decoded.CurrentStep)
}

func TestCodec_Decode_FieldFallbacks(t *testing.T) {
	def := defaults()

	tests := []struct {
		name   string
		values url.Values
		check  func(t *testing.T, snap entity.Snapshot)
	}{
		{
			name:   "unknown document type",
			values: url.Values{KeyDocumentType: {"receipt"}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, entity.DocumentTypeInvoice, snap.DocumentType)
			},
		},
		{
			name:   "step out of range",
			values: url.Values{KeyCurrentStep: {"9"}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, entity.StepDocumentType, snap.CurrentStep)
			},
		},
		{
			name:   "step not a number",
			values: url.Values{KeyCurrentStep: {"two"}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, entity.StepDocumentType, snap.CurrentStep)
			},
		},
		{
			name:   "empty scalars use defaults",
			values: url.Values{KeyInvoiceDate: {""}, KeyValidUntil: {""}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, def.InvoiceDate, snap.InvoiceDate)
				assert.Equal(t, def.ValidUntil, snap.ValidUntil)
			},
		},
		{
			name:   "null terms",
			values: url.Values{KeyTerms: {"null"}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, def.Terms, snap.Terms)
			},
		},
		{
			name:   "terms of the wrong shape",
			values: url.Values{KeyTerms: {`["ADCB"]`}},
			check: func(t *testing.T, snap entity.Snapshot) {
				assert.Equal(t, def.Terms, snap.Terms)
			},
		},
		{
			name:   "stale totals are recomputed",
			values: url.Values{KeyServiceDetails: {`{"lineItems":[{"id":"a","description":"Truss","unitPrice":20,"quantity":3,"total":1}],"subtotal":999,"vatPercentage":5}`}},
			check: func(t *testing.T, snap entity.Snapshot) {
				require.NotNil(t, snap.ServiceDetails)
				assert.Equal(t, 60.0, snap.ServiceDetails.LineItems[0].Total)
				assert.Equal(t, 60.0, snap.ServiceDetails.Subtotal)
				assert.Equal(t, 63.0, snap.ServiceDetails.NetTotal)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, ok := NewCodec(nil).Decode(tt.values, def)
			require.True(t, ok)
			tt.check(t, snap)
		})
	}
}

func TestCodec_Decode_EmptyScalarsKeepFallback(t *testing.T) {
	fallback := defaults()
	fallback.InvoiceNumber = "INV-FALLBACK"
	fallback.QuotationNumber = "QUO-FALLBACK"
	fallback.DocumentTitle = "Launch night"
	require.NotEmpty(t, fallback.InvoiceDate)
	require.NotEmpty(t, fallback.ValidUntil)

	values := url.Values{
		KeyInvoiceNumber:   {""},
		KeyQuotationNumber: {""},
		KeyInvoiceDate:     {""},
		KeyValidUntil:      {""},
		KeyDocumentTitle:   {""},
	}

	snap, ok := NewCodec(nil).Decode(values, fallback)
	require.True(t, ok)

	assert.Equal(t, "INV-FALLBACK", snap.InvoiceNumber)
	assert.Equal(t, "QUO-FALLBACK", snap.QuotationNumber)
	assert.Equal(t, fallback.InvoiceDate, snap.InvoiceDate)
	assert.Equal(t, fallback.ValidUntil, snap.ValidUntil)
	assert.Equal(t, "Launch night", snap.DocumentTitle)
}

func TestCodec_Decode_DoesNotAliasFallback(t *testing.T) {
	def := defaults()
	snap, ok := NewCodec(nil).Decode(url.Values{KeyCurrentStep: {"2"}}, def)
	require.True(t, ok)

	snap.Terms.BankName = "changed"
	assert.Equal(t, entity.DefaultBankName, def.Terms.BankName)
}
