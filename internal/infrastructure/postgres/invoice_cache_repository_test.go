package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// fakeQuerier guarda los argumentos del último Exec y responde QueryRow con row.
type fakeQuerier struct {
	execSQL  string
	execArgs []any
	execErr  error
	row      fakeRow
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL, f.execArgs = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return f.row }

type fakeRow struct {
	version string
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*string) = r.version
	*dest[1].(*[]byte) = r.payload
	return nil
}

func sampleInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID: "a", InvoiceNo: 7, CustomerName: "Ram", CustomerAddress: "Kathmandu", InvoiceDate: "2024-05-01",
		TotalAmount: decimal.NewNullDecimal(decimal.NewFromInt(200)),
		GrandTotal:  decimal.NewFromInt(200),
		InvoiceItems: []entity.InvoiceItem{
			{ID: "1", Description: "Router", Quantity: 2, Rate: decimal.NewFromInt(100)},
		},
	}
}

func TestInvoiceCache_PutGetRoundTrip(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewInvoiceCacheRepository(q)
	repo.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, repo.Put(context.Background(), sampleInvoice()))
	require.Len(t, q.execArgs, 6)
	assert.Equal(t, int64(7), q.execArgs[0])
	assert.Equal(t, entity.SchemaVersion, q.execArgs[1])
	assert.True(t, q.execArgs[3].(decimal.Decimal).Equal(decimal.NewFromInt(200)))

	q.row = fakeRow{version: entity.SchemaVersion, payload: q.execArgs[4].([]byte)}
	got, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ram", got.CustomerName)
	assert.True(t, got.Subtotal().Equal(decimal.NewFromInt(200)))
	assert.False(t, got.VATAmount.Valid)
}

func TestInvoiceCache_Miss(t *testing.T) {
	repo := NewInvoiceCacheRepository(&fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})
	got, err := repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	repo = NewInvoiceCacheRepository(&fakeQuerier{row: fakeRow{err: &pgconn.PgError{Code: "42P01"}}})
	got, err = repo.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInvoiceCache_VersionDistintaEsMiss(t *testing.T) {
	payload, _ := json.Marshal(sampleInvoice())
	repo := NewInvoiceCacheRepository(&fakeQuerier{row: fakeRow{version: "v0", payload: payload}})
	got, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInvoiceCache_Errores(t *testing.T) {
	repo := NewInvoiceCacheRepository(&fakeQuerier{row: fakeRow{err: errors.New("conn reset")}})
	_, err := repo.Get(context.Background(), 1)
	assert.Error(t, err)

	repo = NewInvoiceCacheRepository(&fakeQuerier{execErr: errors.New("read only")})
	assert.Error(t, repo.Put(context.Background(), sampleInvoice()))
	assert.Error(t, repo.EnsureSchema(context.Background()))
}
