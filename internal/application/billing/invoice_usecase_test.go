package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
)

func newUC(store *fakeStore, cache *fakeCache) *billing.InvoiceUseCase {
	cfg := billing.InvoiceUseCaseConfig{Timeout: time.Second}
	if cache == nil {
		// nil explícito: un *fakeCache nil dentro de la interfaz no sería nil.
		return billing.NewInvoiceUseCase(store, nil, cfg, nil)
	}
	return billing.NewInvoiceUseCase(store, cache, cfg, nil)
}

func validDraft(t *testing.T) invoice.Draft {
	t.Helper()
	d := invoice.NewDraft(invoice.Header{CustomerName: "Ram", CustomerAddress: "Kathmandu", InvoiceDate: "2024-05-01", ApplyVAT: true})
	for _, a := range []invoice.Action{
		invoice.SetItemField{Index: 0, Field: invoice.FieldDescription, Value: "Router"},
		invoice.SetItemField{Index: 0, Field: invoice.FieldRate, Value: "100"},
		invoice.SetItemField{Index: 0, Field: invoice.FieldQuantity, Value: "2"},
	} {
		var err error
		d, err = invoice.Reduce(d, a)
		require.NoError(t, err)
	}
	return d
}

func TestInvoiceUseCase_Create(t *testing.T) {
	store := newFakeStore()
	uc := newUC(store, nil)

	inv, err := uc.Create(context.Background(), validDraft(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.InvoiceNo)
	require.Len(t, store.created, 1)
	assert.Equal(t, "226.00", store.created[0].Invoice.GrandTotal.String())
}

func TestInvoiceUseCase_CreateInvalido(t *testing.T) {
	store := newFakeStore()
	uc := newUC(store, nil)

	_, err := uc.Create(context.Background(), invoice.NewDraft(invoice.Header{}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.created)
}

func TestInvoiceUseCase_ListNormalizaPaginacion(t *testing.T) {
	store := newFakeStore(sample(1))
	uc := newUC(store, nil)

	_, err := uc.List(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, billing.DefaultPageSize}, store.lastPage)

	_, err = uc.List(context.Background(), 3, 1000)
	require.NoError(t, err)
	assert.Equal(t, [2]int{3, billing.MaxPageSize}, store.lastPage)
}

func TestInvoiceUseCase_GetConCache(t *testing.T) {
	store := newFakeStore(sample(7))
	cache := newFakeCache()
	uc := newUC(store, cache)

	inv, err := uc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ram", inv.CustomerName)
	assert.Equal(t, 1, cache.puts)

	_, err = uc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 1, store.gets, "la segunda lectura sale de la caché")
}

func TestInvoiceUseCase_GetCacheFallaSeIgnora(t *testing.T) {
	store := newFakeStore(sample(7))
	cache := newFakeCache()
	cache.getErr, cache.putErr = errBoom, errBoom
	uc := newUC(store, cache)

	inv, err := uc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), inv.InvoiceNo)
}

func TestInvoiceUseCase_GetErrores(t *testing.T) {
	uc := newUC(newFakeStore(), nil)

	_, err := uc.Get(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(context.Background(), 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	store := newFakeStore()
	store.err = domain.ErrUpstream
	_, err = newUC(store, nil).Get(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestInvoiceUseCase_SearchVacioNoLlamaALaAPI(t *testing.T) {
	store := newFakeStore()
	called := false
	store.searchFn = func(context.Context, string) ([]entity.Invoice, error) {
		called = true
		return nil, nil
	}
	got, err := newUC(store, nil).Search(context.Background(), "c1", "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, called)
}
