package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
)

// DocumentHandler descargas: HTML de impresión, HTML descargable, PDF y registros.
type DocumentHandler struct {
	uc    *billing.DocumentUseCase
	views *view.Renderer
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *billing.DocumentUseCase, views *view.Renderer) *DocumentHandler {
	return &DocumentHandler{uc: uc, views: views}
}

// Print página que abre el diálogo de impresión al cargar.
// GET /invoices/:no/print
func (h *DocumentHandler) Print(c *fiber.Ctx) error {
	no, err := invoiceNoParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, err := h.uc.InvoiceHTML(c.UserContext(), no, billing.ModePrint)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDocument(c, doc, false)
}

// DownloadHTML documento HTML autocontenido como adjunto.
// GET /invoices/:no/download.html
func (h *DocumentHandler) DownloadHTML(c *fiber.Ctx) error {
	no, err := invoiceNoParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, err := h.uc.InvoiceHTML(c.UserContext(), no, billing.ModeDownload)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDocument(c, doc, true)
}

// PDF factura en PDF (invoice_NNN.pdf).
// GET /invoices/:no/invoice.pdf
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	no, err := invoiceNoParam(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, err := h.uc.InvoicePDF(c.UserContext(), no)
	if err != nil {
		return h.fail(c, err)
	}
	return sendDocument(c, doc, true)
}

// RegisterPDF registro de una página del listado en PDF.
// GET /invoices/register.pdf?page=&size=
func (h *DocumentHandler) RegisterPDF(c *fiber.Ctx) error {
	doc, err := h.uc.RegisterPDF(c.UserContext(), c.QueryInt("page", 0), c.QueryInt("size", billing.DefaultPageSize))
	if err != nil {
		return h.fail(c, err)
	}
	return sendDocument(c, doc, true)
}

// RegisterXLSX registro de una página del listado en Excel.
// GET /invoices/register.xlsx?page=&size=
func (h *DocumentHandler) RegisterXLSX(c *fiber.Ctx) error {
	doc, err := h.uc.RegisterXLSX(c.UserContext(), c.QueryInt("page", 0), c.QueryInt("size", billing.DefaultPageSize))
	if err != nil {
		return h.fail(c, err)
	}
	return sendDocument(c, doc, true)
}

// fail los documentos se piden navegando, así que el error sale en la página de detalle.
func (h *DocumentHandler) fail(c *fiber.Ctx, err error) error {
	e := classify(err)
	if e.status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Msg("documento no generado")
	}
	return renderPage(c, h.views, e.status, view.PageDetail, h.views.DetailPage(nil, e.message))
}

func sendDocument(c *fiber.Ctx, doc *billing.Document, attachment bool) error {
	if attachment {
		c.Attachment(doc.Filename)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	return c.Send(doc.Content)
}
