package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-wizard/internal/application/backup"
	"github.com/garyjia/invoice-wizard/internal/application/dispatcher"
	"github.com/garyjia/invoice-wizard/internal/application/docsync"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/application/validation"
	"github.com/garyjia/invoice-wizard/internal/application/wizard"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/export"
	"github.com/garyjia/invoice-wizard/internal/infrastructure/navigation"
	"github.com/garyjia/invoice-wizard/internal/infrastructure/storage"
)

type testEnv struct {
	router http.Handler
	store  store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := port.ClockFunc(func() time.Time { return time.Date(2026, 2, 25, 9, 30, 0, 0, time.Local) })
	defaults := entity.DefaultValues()
	codec := sharelink.NewCodec(nil)
	backups := backup.NewService(storage.NewLocalFileStorage(t.TempDir(), zap.NewNop()))
	resolver := docsync.NewResolver(codec, backups, defaults, clock, nil)

	initial := resolver.Fresh()
	s := store.NewStore(defaults, dispatcher.NewDispatcher(), store.WithClock(clock), store.WithInitial(initial))
	history := navigation.NewHistory(codec.Encode(initial), 0)
	s.Subscribe("mirror", docsync.NewMirror(codec, history, backups, nil).Handle)

	server := NewServer(DefaultServerConfig(), Services{
		Store:      s,
		Navigator:  wizard.NewNavigator(s, validation.New(validation.WithStrictClient(false))),
		Validator:  validation.New(validation.WithStrictClient(false)),
		Codec:      codec,
		Reconciler: docsync.NewReconciler(resolver, s),
		History:    history,
		Exporter:   export.NewExporter(export.NewWorkbookWriter("", zap.NewNop()), zap.NewNop()),
	}, port.NopLogger{})

	return &testEnv{router: server.Router(), store: s}
}

type envelope struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   string              `json:"error"`
	Fields  map[string][]string `json:"fields"`
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") != export.ContentType {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func document(t *testing.T, env envelope) DocumentResponse {
	t.Helper()
	var doc DocumentResponse
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	return doc
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)
	rec, env := e.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestHealthCheck_NotReady(t *testing.T) {
	ready := false
	server := NewServer(DefaultServerConfig(), Services{Ready: func() bool { return ready }}, port.NopLogger{})

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "service not ready", env.Error)

	ready = true
	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/document/client", nil)
	rec := httptest.NewRecorder()

	e.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestGetDocument(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodGet, "/api/document", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, env)
	assert.Equal(t, entity.StepDocumentType, doc.Snapshot.CurrentStep)
	assert.Equal(t, "2026-02-25", doc.Snapshot.InvoiceDate)
	assert.Equal(t, "2026-03-04", doc.Snapshot.ValidUntil)
	assert.Equal(t, "INVOICE", doc.Labels.Title)
	assert.Contains(t, doc.Link, "currentStep=0")
}

func TestGetDocument_AdoptsLink(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodGet, "/api/document?documentType=inquiry&currentStep=3&invoiceNumber=INV-LINK", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, env)
	assert.Equal(t, entity.DocumentTypeInquiry, doc.Snapshot.DocumentType)
	assert.Equal(t, entity.StepTerms, doc.Snapshot.CurrentStep)
	assert.Equal(t, "INV-LINK", e.store.Snapshot().InvoiceNumber)
}

func TestLineItemRoutes(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodPost, "/api/document/line-items", entity.LineItemDraft{
		Description: "LED wall",
		UnitPrice:   entity.Float(19.99),
		Quantity:    3,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 59.97, e.store.Snapshot().ServiceDetails.Subtotal)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/line-items/"+created.ID, map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 19.99, e.store.Snapshot().ServiceDetails.Subtotal)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/line-items/missing", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = e.do(t, http.MethodDelete, "/api/document/line-items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.store.Snapshot().ServiceDetails.LineItems)

	rec, _ = e.do(t, http.MethodDelete, "/api/document/line-items/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLineItemRoutes_SubDescriptionsText(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodPost, "/api/document/line-items", map[string]interface{}{
		"description":         "Stage",
		"quantity":            1,
		"subDescriptionsText": "  8m x 4m \n\n skirting\r\n",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	items := e.store.Snapshot().ServiceDetails.LineItems
	require.Len(t, items, 1)
	assert.Equal(t, []string{"8m x 4m", "skirting"}, items[0].SubDescriptions)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/line-items/"+created.ID, map[string]interface{}{
		"subDescriptionsText": "carpet\nbacklit logo",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"carpet", "backlit logo"}, e.store.Snapshot().ServiceDetails.LineItems[0].SubDescriptions)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/line-items/"+created.ID, map[string]interface{}{
		"subDescriptionsText": "  \n ",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.store.Snapshot().ServiceDetails.LineItems[0].SubDescriptions)
	assert.Equal(t, "Stage", e.store.Snapshot().ServiceDetails.LineItems[0].Description)
}

func TestDocumentFieldRoutes(t *testing.T) {
	e := newTestEnv(t)

	rec, _ := e.do(t, http.MethodPut, "/api/document/type", map[string]string{"documentType": "receipt"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = e.do(t, http.MethodPut, "/api/document/type", map[string]string{"documentType": "inquiry"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/meta", map[string]string{
		"invoiceNumber": "INV-7",
		"documentTitle": "QUOTATION\x00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPatch, "/api/document/client", map[string]string{"companyName": "Acme"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPut, "/api/document/discount", map[string]float64{"discount": -10})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPut, "/api/document/step", map[string]int{"step": 7})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	snap := e.store.Snapshot()
	assert.Equal(t, entity.DocumentTypeInquiry, snap.DocumentType)
	assert.Equal(t, "INV-7", snap.InvoiceNumber)
	assert.Equal(t, "QUOTATION", snap.DocumentTitle)
	assert.Equal(t, "Acme", snap.ClientInfo.CompanyName)
	assert.Zero(t, snap.ServiceDetails.Discount)
}

func TestWizardRoutes(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodPost, "/api/wizard/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StepClientInfo, document(t, env).Snapshot.CurrentStep)

	rec, env = e.do(t, http.MethodPost, "/api/wizard/next", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Fields, "companyName")
	assert.Contains(t, env.Fields, "invoiceNumber")

	rec, _ = e.do(t, http.MethodPost, "/api/wizard/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = e.do(t, http.MethodPost, "/api/wizard/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = e.do(t, http.MethodPost, "/api/wizard/edit", map[string]int{"step": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.NoError(t, e.store.SetStep(context.Background(), entity.StepPreview))
	rec, env = e.do(t, http.MethodPost, "/api/wizard/edit", map[string]int{"step": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entity.StepServiceDetails, document(t, env).Snapshot.CurrentStep)
}

func TestHistoryRoutes(t *testing.T) {
	e := newTestEnv(t)

	rec, _ := e.do(t, http.MethodPost, "/api/history/back", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, _ = e.do(t, http.MethodPatch, "/api/document/meta", map[string]string{"invoiceNumber": "INV-OLD"})
	rec, _ = e.do(t, http.MethodPost, "/api/document/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.store.Snapshot().InvoiceNumber)

	rec, env := e.do(t, http.MethodPost, "/api/history/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INV-OLD", document(t, env).Snapshot.InvoiceNumber)

	rec, _ = e.do(t, http.MethodPost, "/api/history/forward", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, e.store.Snapshot().InvoiceNumber)
}

func TestExportRoutes(t *testing.T) {
	e := newTestEnv(t)
	_, _ = e.do(t, http.MethodPatch, "/api/document/meta", map[string]string{"invoiceNumber": "INV-9-ZZZZ"})

	rec, _ := e.do(t, http.MethodGet, "/api/document/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "invoice-INV-9-ZZZZ.xlsx")
	assert.NotZero(t, rec.Body.Len())

	rec, _ = e.do(t, http.MethodGet, "/api/exports", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidateDocumentRoute(t *testing.T) {
	e := newTestEnv(t)

	rec, env := e.do(t, http.MethodGet, "/api/document/validation", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Valid  bool                `json:"valid"`
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.False(t, body.Valid)
	assert.Contains(t, body.Fields, "lineItems")
}
