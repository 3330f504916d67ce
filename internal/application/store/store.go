package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/garyjia/invoice-wizard/internal/application/dispatcher"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/garyjia/invoice-wizard/internal/domain/event"
	"github.com/garyjia/invoice-wizard/internal/domain/totals"
	"github.com/google/uuid"
)

// Store owns the wizard snapshot and is the only way to change it.
// Every mutation builds a new snapshot, swaps it in atomically and then
// notifies subscribers synchronously before returning. Handlers must not
// call mutations on the store they are subscribed to.
type Store interface {
	// Snapshot returns a private copy of the current state
	Snapshot() entity.Snapshot
	// Subscribe registers a named handler for every change
	Subscribe(name string, handler dispatcher.Handler)

	SetDocumentType(ctx context.Context, docType entity.DocumentType) error
	SetStep(ctx context.Context, step entity.Step) error

	UpdateClientInfo(ctx context.Context, patch entity.ClientInfoPatch)
	UpdateServiceDetails(ctx context.Context, patch entity.ServiceDetailsPatch)
	UpdateTerms(ctx context.Context, patch entity.TermsPatch)
	UpdateCompanyInfo(ctx context.Context, patch entity.CompanyInfoPatch)

	AddLineItem(ctx context.Context, draft entity.LineItemDraft) (string, bool)
	RemoveLineItem(ctx context.Context, id string) bool
	UpdateLineItem(ctx context.Context, id string, patch entity.LineItemPatch) bool
	SetDiscount(ctx context.Context, amount float64)

	Reset(ctx context.Context)
	GenerateInvoiceNumber(ctx context.Context) string
	EnsureInvoiceNumber(ctx context.Context) (string, bool)

	SetInvoiceNumber(ctx context.Context, value string)
	SetQuotationNumber(ctx context.Context, value string)
	SetInvoiceDate(ctx context.Context, value string)
	SetValidUntil(ctx context.Context, value string)
	SetDocumentTitle(ctx context.Context, value string)

	// Adopt replaces the whole snapshot with one observed elsewhere when the
	// two differ. It reports whether the snapshot changed.
	Adopt(ctx context.Context, snapshot entity.Snapshot) bool
}

type invoiceStore struct {
	// mu serializes mutations including their notification
	mu         sync.Mutex
	current    atomic.Pointer[entity.Snapshot]
	defaults   entity.Defaults
	dispatcher dispatcher.Dispatcher
	clock      port.Clock
	newID      func() string
	newNumber  NumberGenerator
	logger     port.Logger
}

// Option configures the store
type Option func(*invoiceStore)

// WithClock sets the clock used for dates and invoice numbers
func WithClock(clock port.Clock) Option {
	return func(s *invoiceStore) { s.clock = clock }
}

// WithIDGenerator sets the line item id generator
func WithIDGenerator(fn func() string) Option {
	return func(s *invoiceStore) { s.newID = fn }
}

// WithNumberGenerator sets the invoice number generator
func WithNumberGenerator(fn NumberGenerator) Option {
	return func(s *invoiceStore) { s.newNumber = fn }
}

// WithLogger sets the logger
func WithLogger(logger port.Logger) Option {
	return func(s *invoiceStore) { s.logger = logger }
}

// WithInitial starts the session from snap instead of the defaults
func WithInitial(snap entity.Snapshot) Option {
	return func(s *invoiceStore) {
		initial := snap.Clone()
		s.current.Store(&initial)
	}
}

// NewStore creates a store holding a fresh document built from defaults
func NewStore(defaults entity.Defaults, d dispatcher.Dispatcher, opts ...Option) Store {
	s := &invoiceStore{
		defaults:   defaults,
		dispatcher: d,
		clock:      port.SystemClock,
		newID:      uuid.NewString,
		newNumber:  NewInvoiceNumber,
		logger:     port.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.current.Load() == nil {
		initial := defaults.NewSnapshot(s.clock.Now())
		s.current.Store(&initial)
	}
	return s
}

// Verify interface compliance
var _ Store = (*invoiceStore)(nil)

func (s *invoiceStore) Snapshot() entity.Snapshot {
	return s.current.Load().Clone()
}

func (s *invoiceStore) Subscribe(name string, handler dispatcher.Handler) {
	s.dispatcher.Subscribe(name, handler)
}

// mutate applies fn to a private copy of the current snapshot and commits it
// when fn reports a change.
func (s *invoiceStore) mutate(ctx context.Context, op string, eventType event.Type, fn func(next *entity.Snapshot) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Load().Clone()
	if !fn(&next) {
		return false
	}
	s.commit(ctx, op, eventType, next)
	return true
}

func (s *invoiceStore) commit(ctx context.Context, op string, eventType event.Type, next entity.Snapshot) {
	s.current.Store(&next)

	if err := s.dispatcher.Dispatch(ctx, event.NewEvent(eventType, op, next)); err != nil {
		s.logger.Error("Change notification failed", "operation", op, "error", err)
	}
}

func (s *invoiceStore) SetDocumentType(ctx context.Context, docType entity.DocumentType) error {
	if !docType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, docType)
	}
	s.mutate(ctx, "SetDocumentType", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		next.DocumentType = docType
		return true
	})
	return nil
}

func (s *invoiceStore) SetStep(ctx context.Context, step entity.Step) error {
	if !step.IsValid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, int(step))
	}
	s.mutate(ctx, "SetStep", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		next.CurrentStep = step
		return true
	})
	return nil
}

func (s *invoiceStore) UpdateClientInfo(ctx context.Context, patch entity.ClientInfoPatch) {
	s.mutate(ctx, "UpdateClientInfo", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		var base entity.ClientInfo
		if next.ClientInfo != nil {
			base = *next.ClientInfo
		}
		info := patch.Apply(base)
		next.ClientInfo = &info
		return true
	})
}

func (s *invoiceStore) UpdateServiceDetails(ctx context.Context, patch entity.ServiceDetailsPatch) {
	s.mutate(ctx, "UpdateServiceDetails", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		base := entity.NewServiceDetails(s.defaults.VATPercentage)
		if next.ServiceDetails != nil {
			base = *next.ServiceDetails
		}
		details := totals.Normalize(patch.Apply(base))
		next.ServiceDetails = &details
		return true
	})
}

func (s *invoiceStore) UpdateTerms(ctx context.Context, patch entity.TermsPatch) {
	s.mutate(ctx, "UpdateTerms", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		var base entity.TermsConditions
		if next.Terms != nil {
			base = *next.Terms
		}
		terms := patch.Apply(base)
		next.Terms = &terms
		return true
	})
}

func (s *invoiceStore) UpdateCompanyInfo(ctx context.Context, patch entity.CompanyInfoPatch) {
	s.mutate(ctx, "UpdateCompanyInfo", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		var base entity.CompanyInfo
		if next.CompanyInfo != nil {
			base = *next.CompanyInfo
		}
		company := patch.Apply(base)
		next.CompanyInfo = &company
		return true
	})
}

// AddLineItem appends a priced item and returns its id.
// It is a no-op returning false while the document has no service details.
func (s *invoiceStore) AddLineItem(ctx context.Context, draft entity.LineItemDraft) (string, bool) {
	var id string
	ok := s.mutate(ctx, "AddLineItem", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		if next.ServiceDetails == nil {
			return false
		}
		id = s.newID()
		item := entity.NewLineItem(id, draft)
		item.Total = totals.LineItemTotal(item.UnitPrice, item.Quantity)

		details := *next.ServiceDetails
		details.LineItems = append(details.LineItems, item)
		details = totals.Recompute(details)
		next.ServiceDetails = &details
		return true
	})
	if !ok {
		s.logger.Info("Line item not added, no service details")
		return "", false
	}
	return id, true
}

// RemoveLineItem drops the item with the given id; unknown ids are ignored
func (s *invoiceStore) RemoveLineItem(ctx context.Context, id string) bool {
	return s.mutate(ctx, "RemoveLineItem", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		if next.ServiceDetails == nil {
			return false
		}
		idx := next.ServiceDetails.FindLineItem(id)
		if idx < 0 {
			return false
		}

		details := *next.ServiceDetails
		details.LineItems = append(details.LineItems[:idx:idx], details.LineItems[idx+1:]...)
		details = totals.Recompute(details)
		next.ServiceDetails = &details
		return true
	})
}

// UpdateLineItem patches the item with the given id; unknown ids are ignored
func (s *invoiceStore) UpdateLineItem(ctx context.Context, id string, patch entity.LineItemPatch) bool {
	return s.mutate(ctx, "UpdateLineItem", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		if next.ServiceDetails == nil {
			return false
		}
		idx := next.ServiceDetails.FindLineItem(id)
		if idx < 0 {
			return false
		}

		details := *next.ServiceDetails
		item := patch.Apply(details.LineItems[idx])
		item.Total = totals.LineItemTotal(item.UnitPrice, item.Quantity)
		details.LineItems[idx] = item
		details = totals.Recompute(details)
		next.ServiceDetails = &details
		return true
	})
}

// SetDiscount stores the discount as given; range checks belong to validation
func (s *invoiceStore) SetDiscount(ctx context.Context, amount float64) {
	s.UpdateServiceDetails(ctx, entity.ServiceDetailsPatch{Discount: &amount})
}

// Reset starts a new document from the defaults
func (s *invoiceStore) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.commit(ctx, "Reset", event.TypeDocumentReset, s.defaults.NewSnapshot(s.clock.Now()))
}

// GenerateInvoiceNumber always assigns a fresh number
func (s *invoiceStore) GenerateInvoiceNumber(ctx context.Context) string {
	var number string
	s.mutate(ctx, "GenerateInvoiceNumber", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		number = s.newNumber(s.clock.Now())
		next.InvoiceNumber = number
		return true
	})
	return number
}

// EnsureInvoiceNumber assigns a number only when none is set.
// It returns the number in effect and whether a new one was generated.
func (s *invoiceStore) EnsureInvoiceNumber(ctx context.Context) (string, bool) {
	number := s.current.Load().InvoiceNumber
	generated := s.mutate(ctx, "EnsureInvoiceNumber", event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		if next.InvoiceNumber != "" {
			number = next.InvoiceNumber
			return false
		}
		number = s.newNumber(s.clock.Now())
		next.InvoiceNumber = number
		return true
	})
	return number, generated
}

func (s *invoiceStore) setScalar(ctx context.Context, op string, field func(*entity.Snapshot) *string, value string) {
	s.mutate(ctx, op, event.TypeSnapshotUpdated, func(next *entity.Snapshot) bool {
		*field(next) = value
		return true
	})
}

func (s *invoiceStore) SetInvoiceNumber(ctx context.Context, value string) {
	s.setScalar(ctx, "SetInvoiceNumber", func(n *entity.Snapshot) *string { return &n.InvoiceNumber }, value)
}

func (s *invoiceStore) SetQuotationNumber(ctx context.Context, value string) {
	s.setScalar(ctx, "SetQuotationNumber", func(n *entity.Snapshot) *string { return &n.QuotationNumber }, value)
}

func (s *invoiceStore) SetInvoiceDate(ctx context.Context, value string) {
	s.setScalar(ctx, "SetInvoiceDate", func(n *entity.Snapshot) *string { return &n.InvoiceDate }, value)
}

func (s *invoiceStore) SetValidUntil(ctx context.Context, value string) {
	s.setScalar(ctx, "SetValidUntil", func(n *entity.Snapshot) *string { return &n.ValidUntil }, value)
}

func (s *invoiceStore) SetDocumentTitle(ctx context.Context, value string) {
	s.setScalar(ctx, "SetDocumentTitle", func(n *entity.Snapshot) *string { return &n.DocumentTitle }, value)
}

// Adopt compares and replaces under the mutation lock, so a concurrent edit
// is never overwritten by a stale comparison.
func (s *invoiceStore) Adopt(ctx context.Context, snapshot entity.Snapshot) bool {
	candidate := snapshot.Clone()
	return s.mutate(ctx, "Adopt", event.TypeSnapshotAdopted, func(next *entity.Snapshot) bool {
		if reflect.DeepEqual(*next, candidate) {
			return false
		}
		*next = candidate
		return true
	})
}
