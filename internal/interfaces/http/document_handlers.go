package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/pkg/utils"
)

// DocumentTypeRequest selects invoice or inquiry labeling
type DocumentTypeRequest struct {
	DocumentType entity.DocumentType `json:"documentType" binding:"required"`
}

// MetaRequest sets the scalar document fields; absent fields are left alone
type MetaRequest struct {
	InvoiceNumber   *string `json:"invoiceNumber"`
	QuotationNumber *string `json:"quotationNumber"`
	InvoiceDate     *string `json:"invoiceDate"`
	ValidUntil      *string `json:"validUntil"`
	DocumentTitle   *string `json:"documentTitle"`
}

// DiscountRequest sets the absolute discount
type DiscountRequest struct {
	Discount *float64 `json:"discount" binding:"required"`
}

// LineItemRequest adds a line item. SubDescriptionsText, when present, is
// split into one sub-description per non-empty line and replaces SubDescriptions.
type LineItemRequest struct {
	entity.LineItemDraft
	SubDescriptionsText *string `json:"subDescriptionsText"`
}

// LineItemPatchRequest updates a line item; SubDescriptionsText works as in LineItemRequest
type LineItemPatchRequest struct {
	entity.LineItemPatch
	SubDescriptionsText *string `json:"subDescriptionsText"`
}

// ResetDocument handles POST /api/document/reset
func (h *Handlers) ResetDocument(c *gin.Context) {
	h.services.Store.Reset(c.Request.Context())
	h.logger.Info("Document reset")
	h.respondDocument(c, http.StatusOK)
}

// SetDocumentType handles PUT /api/document/type
func (h *Handlers) SetDocumentType(c *gin.Context) {
	var req DocumentTypeRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.services.Store.SetDocumentType(c.Request.Context(), req.DocumentType); err != nil {
		h.rejectInput(c, err)
		return
	}
	h.respondDocument(c, http.StatusOK)
}

// SetStep handles PUT /api/document/step. It moves without validation.
func (h *Handlers) SetStep(c *gin.Context) {
	var req StepRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.services.Store.SetStep(c.Request.Context(), entity.Step(*req.Step)); err != nil {
		h.rejectInput(c, err)
		return
	}
	h.respondDocument(c, http.StatusOK)
}

// UpdateMeta handles PATCH /api/document/meta
func (h *Handlers) UpdateMeta(c *gin.Context) {
	var req MetaRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	setters := []struct {
		value *string
		set   func(string)
	}{
		{req.InvoiceNumber, func(v string) { h.services.Store.SetInvoiceNumber(ctx, v) }},
		{req.QuotationNumber, func(v string) { h.services.Store.SetQuotationNumber(ctx, v) }},
		{req.InvoiceDate, func(v string) { h.services.Store.SetInvoiceDate(ctx, v) }},
		{req.ValidUntil, func(v string) { h.services.Store.SetValidUntil(ctx, v) }},
		{req.DocumentTitle, func(v string) { h.services.Store.SetDocumentTitle(ctx, v) }},
	}
	for _, s := range setters {
		if s.value != nil {
			s.set(utils.SanitizeString(*s.value))
		}
	}
	h.respondDocument(c, http.StatusOK)
}

// GenerateInvoiceNumber handles POST /api/document/invoice-number
func (h *Handlers) GenerateInvoiceNumber(c *gin.Context) {
	number := h.services.Store.GenerateInvoiceNumber(c.Request.Context())
	h.logger.Info("Invoice number generated", "invoice_number", number)
	h.respondDocument(c, http.StatusOK)
}

// UpdateClientInfo handles PATCH /api/document/client
func (h *Handlers) UpdateClientInfo(c *gin.Context) {
	var patch entity.ClientInfoPatch
	if !h.bind(c, &patch) {
		return
	}
	sanitize(patch.CompanyName, patch.TRNNumber, patch.ContactPerson, patch.Email, patch.Phone, patch.BillingAddress)
	h.services.Store.UpdateClientInfo(c.Request.Context(), patch)
	h.respondDocument(c, http.StatusOK)
}

// UpdateServiceDetails handles PATCH /api/document/service
func (h *Handlers) UpdateServiceDetails(c *gin.Context) {
	var patch entity.ServiceDetailsPatch
	if !h.bind(c, &patch) {
		return
	}
	sanitize(patch.ProjectName)
	h.services.Store.UpdateServiceDetails(c.Request.Context(), patch)
	h.respondDocument(c, http.StatusOK)
}

// UpdateTerms handles PATCH /api/document/terms
func (h *Handlers) UpdateTerms(c *gin.Context) {
	var patch entity.TermsPatch
	if !h.bind(c, &patch) {
		return
	}
	sanitize(patch.BankName, patch.AccountName, patch.AccountNumber, patch.IBAN, patch.SwiftCode, patch.AdditionalNotes)
	h.services.Store.UpdateTerms(c.Request.Context(), patch)
	h.respondDocument(c, http.StatusOK)
}

// UpdateCompanyInfo handles PATCH /api/document/company
func (h *Handlers) UpdateCompanyInfo(c *gin.Context) {
	var patch entity.CompanyInfoPatch
	if !h.bind(c, &patch) {
		return
	}
	sanitize(patch.Name, patch.Tagline, patch.Phone, patch.Email, patch.AddressLine1, patch.AddressLine2, patch.TRNNumber)
	h.services.Store.UpdateCompanyInfo(c.Request.Context(), patch)
	h.respondDocument(c, http.StatusOK)
}

// SetDiscount handles PUT /api/document/discount
func (h *Handlers) SetDiscount(c *gin.Context) {
	var req DiscountRequest
	if !h.bind(c, &req) {
		return
	}
	h.services.Store.SetDiscount(c.Request.Context(), *req.Discount)
	h.respondDocument(c, http.StatusOK)
}

// AddLineItem handles POST /api/document/line-items
func (h *Handlers) AddLineItem(c *gin.Context) {
	var req LineItemRequest
	if !h.bind(c, &req) {
		return
	}
	draft := req.LineItemDraft
	draft.Description = utils.SanitizeString(draft.Description)
	if req.SubDescriptionsText != nil {
		draft.SubDescriptions = entity.ParseSubDescriptions(utils.SanitizeString(*req.SubDescriptionsText))
	}

	id, ok := h.services.Store.AddLineItem(c.Request.Context(), draft)
	if !ok {
		h.fail(c, http.StatusConflict, "document has no service details")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    gin.H{"id": id, "snapshot": h.services.Store.Snapshot()},
	})
}

// UpdateLineItem handles PATCH /api/document/line-items/:id
func (h *Handlers) UpdateLineItem(c *gin.Context) {
	var req LineItemPatchRequest
	if !h.bind(c, &req) {
		return
	}
	patch := req.LineItemPatch
	sanitize(patch.Description)
	if req.SubDescriptionsText != nil {
		lines := entity.ParseSubDescriptions(utils.SanitizeString(*req.SubDescriptionsText))
		patch.SubDescriptions = &lines
	}

	if !h.services.Store.UpdateLineItem(c.Request.Context(), c.Param("id"), patch) {
		h.fail(c, http.StatusNotFound, "line item not found")
		return
	}
	h.respondDocument(c, http.StatusOK)
}

// RemoveLineItem handles DELETE /api/document/line-items/:id
func (h *Handlers) RemoveLineItem(c *gin.Context) {
	if !h.services.Store.RemoveLineItem(c.Request.Context(), c.Param("id")) {
		h.fail(c, http.StatusNotFound, "line item not found")
		return
	}
	h.respondDocument(c, http.StatusOK)
}

// rejectInput maps store input errors to 400
func (h *Handlers) rejectInput(c *gin.Context, err error) {
	if errors.Is(err, store.ErrInvalidStep) || errors.Is(err, store.ErrInvalidDocumentType) {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.Error("Store update failed", "error", err)
	h.fail(c, http.StatusInternalServerError, "update failed")
}

func sanitize(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = utils.SanitizeString(*v)
		}
	}
}
