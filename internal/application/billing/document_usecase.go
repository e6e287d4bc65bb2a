package billing

import (
	"context"
	"fmt"
)

// DocumentUseCase genera los documentos descargables (PDF, HTML, registros).
type DocumentUseCase struct {
	invoices *InvoiceUseCase
	pdf      InvoicePDFRenderer
	html     InvoiceHTMLRenderer
	// registerPDF y registerXLSX son opcionales: nil deshabilita la exportación.
	registerPDF  RegisterRenderer
	registerXLSX RegisterRenderer
}

// DocumentRenderers renderizadores inyectados.
type DocumentRenderers struct {
	PDF          InvoicePDFRenderer
	HTML         InvoiceHTMLRenderer
	RegisterPDF  RegisterRenderer
	RegisterXLSX RegisterRenderer
}

// NewDocumentUseCase construye el caso de uso inyectando sus dependencias.
func NewDocumentUseCase(invoices *InvoiceUseCase, r DocumentRenderers) *DocumentUseCase {
	return &DocumentUseCase{
		invoices:     invoices,
		pdf:          r.PDF,
		html:         r.HTML,
		registerPDF:  r.RegisterPDF,
		registerXLSX: r.RegisterXLSX,
	}
}

// InvoicePDF recupera la factura y genera su PDF.
//
// Retorna:
//   - domain.ErrNotFound      si la factura no existe.
//   - domain.ErrInvalidInput  si invoiceNo <= 0.
//   - domain.ErrUpstream      si la API de facturas falla.
func (uc *DocumentUseCase) InvoicePDF(ctx context.Context, invoiceNo int64) (*Document, error) {
	inv, err := uc.invoices.Get(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	doc, err := uc.pdf.Render(inv)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return doc, nil
}

// InvoiceHTML recupera la factura y genera el documento HTML en el modo pedido.
func (uc *DocumentUseCase) InvoiceHTML(ctx context.Context, invoiceNo int64, mode HTMLMode) (*Document, error) {
	inv, err := uc.invoices.Get(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	doc, err := uc.html.RenderInvoice(inv, mode)
	if err != nil {
		return nil, fmt.Errorf("html: generación fallida: %w", err)
	}
	return doc, nil
}

// RegisterPDF registro en PDF de una página del listado.
func (uc *DocumentUseCase) RegisterPDF(ctx context.Context, page, size int) (*Document, error) {
	return uc.register(ctx, uc.registerPDF, "pdf", page, size)
}

// RegisterXLSX registro en Excel de una página del listado.
func (uc *DocumentUseCase) RegisterXLSX(ctx context.Context, page, size int) (*Document, error) {
	return uc.register(ctx, uc.registerXLSX, "xlsx", page, size)
}

func (uc *DocumentUseCase) register(ctx context.Context, r RegisterRenderer, kind string, page, size int) (*Document, error) {
	if r == nil {
		return nil, fmt.Errorf("registro %s: exportación no configurada", kind)
	}
	p, err := uc.invoices.List(ctx, page, size)
	if err != nil {
		return nil, err
	}
	doc, err := r.RenderRegister(p)
	if err != nil {
		return nil, fmt.Errorf("registro %s: generación fallida: %w", kind, err)
	}
	return doc, nil
}
