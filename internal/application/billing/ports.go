package billing

import (
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// Document documento generado listo para servir o escribir a disco.
type Document struct {
	Content     []byte
	ContentType string
	Filename    string
	// Pages páginas del PDF; 1 para HTML y XLSX.
	Pages int
	// RowsDrawn filas de detalle dibujadas (sin contar cabeceras repetidas).
	RowsDrawn int
}

// HTMLMode variante del documento HTML.
type HTMLMode int

const (
	// ModePrint abre el diálogo de impresión al cargar.
	ModePrint HTMLMode = iota
	// ModeDownload archivo autocontenido para descargar.
	ModeDownload
)

func (m HTMLMode) String() string {
	if m == ModeDownload {
		return "download"
	}
	return "print"
}

// InvoicePDFRenderer genera el PDF de una factura. Debe ser determinista:
// la misma factura produce los mismos bytes.
type InvoicePDFRenderer interface {
	Render(inv *entity.Invoice) (*Document, error)
}

// InvoiceHTMLRenderer genera el documento HTML de una factura.
type InvoiceHTMLRenderer interface {
	RenderInvoice(inv *entity.Invoice, mode HTMLMode) (*Document, error)
}

// RegisterRenderer genera el registro (listado) de una página de facturas.
type RegisterRenderer interface {
	RenderRegister(page *entity.InvoicePage) (*Document, error)
}
