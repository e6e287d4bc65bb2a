package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/repository"
)

var _ repository.InvoiceCache = (*InvoiceCacheRepo)(nil)

const invoiceCacheDDL = `
	CREATE TABLE IF NOT EXISTS invoice_cache (
		invoice_no     BIGINT PRIMARY KEY,
		schema_version TEXT NOT NULL,
		customer_name  TEXT NOT NULL,
		grand_total    NUMERIC(14, 2) NOT NULL,
		payload        JSONB NOT NULL,
		cached_at      TIMESTAMPTZ NOT NULL
	)`

// InvoiceCacheRepo caché read-through de facturas en PostgreSQL (usable con pool o tx).
type InvoiceCacheRepo struct {
	q   Querier
	now func() time.Time
}

// NewInvoiceCacheRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceCacheRepository(q Querier) *InvoiceCacheRepo {
	return &InvoiceCacheRepo{q: q, now: time.Now}
}

// EnsureSchema crea la tabla si no existe.
func (r *InvoiceCacheRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, invoiceCacheDDL); err != nil {
		return fmt.Errorf("create invoice_cache: %w", err)
	}
	return nil
}

// Get devuelve (nil, nil) si la factura no está en caché o fue guardada con otra versión del esquema.
func (r *InvoiceCacheRepo) Get(ctx context.Context, invoiceNo int64) (*entity.Invoice, error) {
	query := `SELECT schema_version, payload FROM invoice_cache WHERE invoice_no = $1`
	var (
		version string
		payload []byte
	)
	err := r.q.QueryRow(ctx, query, invoiceNo).Scan(&version, &payload)
	if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice_cache: %w", err)
	}
	if version != entity.SchemaVersion {
		return nil, nil
	}
	var inv entity.Invoice
	if err := json.Unmarshal(payload, &inv); err != nil {
		return nil, fmt.Errorf("decode invoice_cache payload: %w", err)
	}
	return &inv, nil
}

// Put guarda la factura; si ya existe la reemplaza.
func (r *InvoiceCacheRepo) Put(ctx context.Context, inv *entity.Invoice) error {
	if inv == nil {
		return nil
	}
	payload, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encode invoice_cache payload: %w", err)
	}
	query := `
		INSERT INTO invoice_cache (invoice_no, schema_version, customer_name, grand_total, payload, cached_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (invoice_no) DO UPDATE SET
			schema_version = EXCLUDED.schema_version,
			customer_name  = EXCLUDED.customer_name,
			grand_total    = EXCLUDED.grand_total,
			payload        = EXCLUDED.payload,
			cached_at      = EXCLUDED.cached_at`
	_, err = r.q.Exec(ctx, query,
		inv.InvoiceNo, entity.SchemaVersion, inv.CustomerName, inv.GrandTotal, payload, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put invoice_cache: %w", err)
	}
	return nil
}
