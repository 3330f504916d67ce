package sharelink

// Query parameter names of the shareable link
const (
	KeyDocumentType    = "documentType"
	KeyCurrentStep     = "currentStep"
	KeyInvoiceNumber   = "invoiceNumber"
	KeyQuotationNumber = "quotationNumber"
	KeyInvoiceDate     = "invoiceDate"
	KeyValidUntil      = "validUntil"
	KeyClientInfo      = "clientInfo"
	KeyServiceDetails  = "serviceDetails"
	KeyTerms           = "terms"
	KeyCompanyInfo     = "companyInfo"
	KeyDocumentTitle   = "documentTitle"
)

// Keys lists every parameter the link understands
var Keys = []string{
	KeyDocumentType,
	KeyCurrentStep,
	KeyInvoiceNumber,
	KeyQuotationNumber,
	KeyInvoiceDate,
	KeyValidUntil,
	KeyClientInfo,
	KeyServiceDetails,
	KeyTerms,
	KeyCompanyInfo,
	KeyDocumentTitle,
}
