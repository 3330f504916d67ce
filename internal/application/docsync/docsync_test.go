package docsync

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/invoice-wizard/internal/application/backup"
	"github.com/garyjia/invoice-wizard/internal/application/dispatcher"
	"github.com/garyjia/invoice-wizard/internal/application/port"
	"github.com/garyjia/invoice-wizard/internal/application/sharelink"
	"github.com/garyjia/invoice-wizard/internal/application/store"
	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = port.ClockFunc(func() time.Time { return time.Date(2026, 2, 25, 8, 0, 0, 0, time.Local) })

type memoryBlobs struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memoryBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, port.ErrBlobNotFound
	}
	return v, nil
}

func (m *memoryBlobs) Put(ctx context.Context, key string, content []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = content
	return nil
}

func (m *memoryBlobs) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fakeHistory records pushes and replaces
type fakeHistory struct {
	entries  []url.Values
	pushes   int
	replaces int
}

func (h *fakeHistory) Push(values url.Values) {
	h.entries = append(h.entries, values)
	h.pushes++
}

func (h *fakeHistory) Replace(values url.Values) {
	if len(h.entries) == 0 {
		h.entries = append(h.entries, values)
	} else {
		h.entries[len(h.entries)-1] = values
	}
	h.replaces++
}

func (h *fakeHistory) Current() url.Values {
	if len(h.entries) == 0 {
		return url.Values{}
	}
	return h.entries[len(h.entries)-1]
}

type fixture struct {
	store      store.Store
	history    *fakeHistory
	backup     backup.Service
	codec      *sharelink.Codec
	resolver   *Resolver
	reconciler *Reconciler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		history: &fakeHistory{},
		backup:  backup.NewService(&memoryBlobs{data: map[string][]byte{}}),
		codec:   sharelink.NewCodec(nil),
	}
	defaults := entity.DefaultValues()
	defaults.VATPercentage = 5

	f.resolver = NewResolver(f.codec, f.backup, defaults, clock, nil)
	f.store = store.NewStore(defaults, dispatcher.NewDispatcher(), store.WithClock(clock))
	f.store.Subscribe("mirror", NewMirror(f.codec, f.history, f.backup, nil).Handle)
	f.reconciler = NewReconciler(f.resolver, f.store)
	return f
}

func TestMirror_EditsReplaceHistoryAndBackUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	name := "Acme"

	f.store.UpdateClientInfo(ctx, entity.ClientInfoPatch{CompanyName: &name})
	require.NoError(t, f.store.SetStep(ctx, entity.StepClientInfo))

	assert.Equal(t, 0, f.history.pushes)
	assert.Equal(t, 2, f.history.replaces)
	assert.Equal(t, "1", f.history.Current().Get(sharelink.KeyCurrentStep))

	saved := f.backup.Load(ctx)
	require.NotNil(t, saved)
	assert.Equal(t, f.store.Snapshot(), *saved)
}

func TestMirror_ResetPushesAndClearsBackup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddLineItem(ctx, entity.LineItemDraft{Description: "LED wall", UnitPrice: entity.Float(100), Quantity: 1})
	require.NotNil(t, f.backup.Load(ctx))

	f.store.Reset(ctx)

	assert.Nil(t, f.backup.Load(ctx))
	assert.Equal(t, 1, f.history.pushes)
	assert.Equal(t, "0", f.history.Current().Get(sharelink.KeyCurrentStep))
}

func TestMirror_AdoptOnlyBacksUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	external := f.resolver.Fresh()
	external.InvoiceNumber = "INV-42-ABCD"

	f.store.Adopt(ctx, external)

	assert.Zero(t, f.history.pushes+f.history.replaces)
	saved := f.backup.Load(ctx)
	require.NotNil(t, saved)
	assert.Equal(t, "INV-42-ABCD", saved.InvoiceNumber)
}

func TestResolver_Precedence(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		f := newFixture(t)
		snap, source := f.resolver.Resolve(ctx, url.Values{})

		assert.Equal(t, SourceDefaults, source)
		assert.Equal(t, "2026-02-25", snap.InvoiceDate)
		assert.Equal(t, 5.0, snap.ServiceDetails.VATPercentage)
	})

	t.Run("backup when no link parameters", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetInvoiceNumber(ctx, "INV-BACKUP")

		snap, source := f.resolver.Resolve(ctx, url.Values{"utm": {"x"}})

		assert.Equal(t, SourceBackup, source)
		assert.Equal(t, "INV-BACKUP", snap.InvoiceNumber)
	})

	t.Run("link wins over a newer backup", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetInvoiceNumber(ctx, "INV-BACKUP")

		snap, source := f.resolver.Resolve(ctx, url.Values{sharelink.KeyInvoiceNumber: {"INV-LINK"}})

		assert.Equal(t, SourceLink, source)
		assert.Equal(t, "INV-LINK", snap.InvoiceNumber)
	})
}

func TestReconciler(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts a different external snapshot", func(t *testing.T) {
		f := newFixture(t)
		external := f.store.Snapshot()
		external.CurrentStep = entity.StepTerms
		external.InvoiceNumber = "INV-OTHER"

		changed := f.reconciler.Reconcile(ctx, f.codec.Encode(external))

		assert.True(t, changed)
		assert.Equal(t, entity.StepTerms, f.store.Snapshot().CurrentStep)
		assert.Equal(t, "INV-OTHER", f.backup.Load(ctx).InvoiceNumber)
		assert.Zero(t, f.history.pushes+f.history.replaces)
	})

	t.Run("ignores the link of the current snapshot", func(t *testing.T) {
		f := newFixture(t)
		f.store.AddLineItem(ctx, entity.LineItemDraft{Description: "Truss", SubDescriptions: []string{"6m"}, UnitPrice: entity.Float(19.99), Quantity: 3})
		replaces := f.history.replaces

		changed := f.reconciler.Reconcile(ctx, f.history.Current())

		assert.False(t, changed)
		assert.Equal(t, replaces, f.history.replaces)
	})

	t.Run("adopts a link only once", func(t *testing.T) {
		f := newFixture(t)
		external := f.store.Snapshot()
		external.InvoiceNumber = "INV-ONCE"
		values := f.codec.Encode(external)

		require.True(t, f.reconciler.Reconcile(ctx, values))
		assert.False(t, f.reconciler.Reconcile(ctx, values))
		assert.Equal(t, "INV-ONCE", f.store.Snapshot().InvoiceNumber)
	})

	t.Run("ignores parameters without link keys", func(t *testing.T) {
		f := newFixture(t)
		assert.False(t, f.reconciler.Reconcile(ctx, url.Values{}))
	})
}
