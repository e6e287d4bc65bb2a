package repository

import (
	"context"

	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// InvoiceStore define el puerto hacia la API externa de almacenamiento de facturas.
// La API es la única dueña de los datos; este servicio nunca persiste facturas por su cuenta.
type InvoiceStore interface {
	// Create puede devolver (nil, nil) si la API responde sin cuerpo.
	Create(ctx context.Context, req entity.NewInvoice) (*entity.Invoice, error)
	// List página 0-based.
	List(ctx context.Context, page, size int) (*entity.InvoicePage, error)
	// GetByNumber devuelve domain.ErrNotFound si la factura no existe.
	GetByNumber(ctx context.Context, invoiceNo int64) (*entity.Invoice, error)
	Search(ctx context.Context, query string) ([]entity.Invoice, error)
}

// InvoiceCache caché de lectura por número de factura. Las facturas son inmutables
// una vez creadas, así que no hay invalidación.
type InvoiceCache interface {
	// Get devuelve (nil, nil) si no hay entrada.
	Get(ctx context.Context, invoiceNo int64) (*entity.Invoice, error)
	Put(ctx context.Context, inv *entity.Invoice) error
}
