// Package view renderiza con html/template las páginas del front-end y el
// documento HTML autocontenido de una factura (impresión y descarga).
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	appbilling "github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

var _ appbilling.InvoiceHTMLRenderer = (*Renderer)(nil)

//go:embed templates/*.html
var templatesFS embed.FS

// Páginas disponibles para RenderPage.
const (
	PageList   = "list.html"
	PageDetail = "detail.html"
	PageForm   = "form.html"
)

const contentTypeHTML = "text/html; charset=utf-8"

var shared = []string{"templates/styles.html", "templates/invoice_body.html", "templates/layout.html"}

// Org datos del emisor.
type Org struct {
	Name    string
	Address string
	AppName string
}

// Renderer plantillas ya parseadas; seguro para uso concurrente.
type Renderer struct {
	org   Org
	doc   *template.Template
	pages map[string]*template.Template
}

// New parsea las plantillas embebidas.
func New(org Org) (*Renderer, error) {
	r := &Renderer{org: org, pages: map[string]*template.Template{}}
	doc, err := template.New("document.html").ParseFS(templatesFS, append([]string{"templates/document.html"}, shared...)...)
	if err != nil {
		return nil, fmt.Errorf("view: parse document: %w", err)
	}
	r.doc = doc
	for _, name := range []string{PageList, PageDetail, PageForm} {
		t, err := template.New(name).ParseFS(templatesFS, append([]string{"templates/" + name}, shared...)...)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// ── Documento de factura ──────────────────────────────────────────────────────

// RenderInvoice documento HTML autocontenido. En modo impresión abre el diálogo de
// impresión al cargar; en modo descarga se sirve como adjunto invoice_NNN.html.
func (r *Renderer) RenderInvoice(inv *entity.Invoice, mode appbilling.HTMLMode) (*appbilling.Document, error) {
	if inv == nil || inv.InvoiceNo <= 0 {
		return nil, fmt.Errorf("view: %w", domain.ErrMissingInput)
	}
	var buf bytes.Buffer
	data := struct {
		Invoice InvoiceView
		Print   bool
	}{Invoice: r.NewInvoiceView(inv), Print: mode == appbilling.ModePrint}
	if err := r.doc.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("view: render document: %w", err)
	}
	return &appbilling.Document{
		Content:     buf.Bytes(),
		ContentType: contentTypeHTML,
		Filename:    invoice.HTMLFilename(inv.InvoiceNo),
		Pages:       1,
		RowsDrawn:   len(inv.InvoiceItems),
	}, nil
}

// RenderPage ejecuta una página del front-end.
func (r *Renderer) RenderPage(w io.Writer, name string, data PageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: página desconocida %q", name)
	}
	return t.Execute(w, data)
}

// ── View models ───────────────────────────────────────────────────────────────

// ItemView línea formateada.
type ItemView struct {
	SN          int
	Description string
	Quantity    int64
	Rate        string
	Amount      string
}

// InvoiceView factura formateada para plantillas.
type InvoiceView struct {
	InvoiceNo       int64
	Number          string
	Date            string
	OrgName         string
	OrgAddress      string
	CustomerName    string
	CustomerAddress string
	Items           []ItemView
	SubTotal        string
	VAT             string
	VATLabel        string
	ShowVAT         bool
	GrandTotal      string
	Words           string
}

// NewInvoiceView formatea la factura.
func (r *Renderer) NewInvoiceView(inv *entity.Invoice) InvoiceView {
	words, err := numwords.Sentence(inv.GrandTotal)
	if err != nil {
		words = "N/A"
	}
	v := InvoiceView{
		InvoiceNo:       inv.InvoiceNo,
		Number:          invoice.FormatNumber(inv.InvoiceNo),
		Date:            orNA(inv.InvoiceDate),
		OrgName:         r.org.Name,
		OrgAddress:      r.org.Address,
		CustomerName:    orNA(inv.CustomerName),
		CustomerAddress: orNA(inv.CustomerAddress),
		SubTotal:        inv.Subtotal().StringFixed(2),
		VAT:             inv.VAT().StringFixed(2),
		VATLabel:        invoice.VATPercentLabel,
		ShowVAT:         inv.VAT().IsPositive(),
		GrandTotal:      inv.GrandTotal.StringFixed(2),
		Words:           words,
	}
	for i, it := range inv.InvoiceItems {
		v.Items = append(v.Items, ItemView{
			SN:          i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate.StringFixed(2),
			Amount:      it.LineTotal().StringFixed(2),
		})
	}
	return v
}

// RowView fila del listado.
type RowView struct {
	InvoiceNo    int64
	Number       string
	CustomerName string
	Date         string
	GrandTotal   string
}

// FormRowView fila del formulario de creación.
type FormRowView struct {
	Index       int
	SN          int
	Key         string
	Description string
	Rate        string
	Quantity    string
	Amount      string
}

// PageData datos de cualquier página; cada plantilla usa los campos que le tocan.
type PageData struct {
	Title   string
	AppName string
	Error   string

	// Listado
	Rows       []RowView
	Search     string
	Searching  bool
	Page       int
	PageLabel  int
	Size       int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int

	// Detalle
	Invoice *InvoiceView

	// Formulario
	CustomerName    string
	CustomerAddress string
	InvoiceDate     string
	ApplyVAT        bool
	CanRemove       bool
	FormRows        []FormRowView
	Problems        []string
	SubTotal        string
	VAT             string
	VATLabel        string
	GrandTotal      string
}

// ListPage datos del listado paginado (page 0-based) o de un resultado de búsqueda.
func (r *Renderer) ListPage(invoices []entity.Invoice, page, size, totalPages int, search string) PageData {
	d := PageData{
		Title:      "Invoice List",
		AppName:    r.org.AppName,
		Search:     search,
		Searching:  search != "",
		Page:       page,
		PageLabel:  page + 1,
		Size:       size,
		TotalPages: max(totalPages, 1),
		HasPrev:    page > 0,
		HasNext:    page < totalPages-1,
		PrevPage:   page - 1,
		NextPage:   page + 1,
		Rows:       make([]RowView, 0, len(invoices)),
	}
	for _, inv := range invoices {
		d.Rows = append(d.Rows, RowView{
			InvoiceNo:    inv.InvoiceNo,
			Number:       invoice.FormatNumber(inv.InvoiceNo),
			CustomerName: inv.CustomerName,
			Date:         orNA(inv.InvoiceDate),
			GrandTotal:   inv.GrandTotal.StringFixed(2),
		})
	}
	return d
}

// DetailPage datos del detalle; inv nil muestra solo el error.
func (r *Renderer) DetailPage(inv *entity.Invoice, errMsg string) PageData {
	d := PageData{Title: "Invoice Details", AppName: r.org.AppName, Error: errMsg}
	if inv != nil {
		v := r.NewInvoiceView(inv)
		d.Invoice = &v
		d.Title = "Invoice " + v.Number
	}
	return d
}

// FormPage datos del formulario a partir del borrador.
func (r *Renderer) FormPage(d invoice.Draft, problems []string, errMsg string) PageData {
	h := d.Header()
	tot := d.Totals()
	p := PageData{
		Title:           "New Invoice",
		AppName:         r.org.AppName,
		Error:           errMsg,
		CustomerName:    h.CustomerName,
		CustomerAddress: h.CustomerAddress,
		InvoiceDate:     h.InvoiceDate,
		ApplyVAT:        h.ApplyVAT,
		CanRemove:       d.Len() > 1,
		Problems:        problems,
		SubTotal:        tot.Subtotal.StringFixed(2),
		VAT:             tot.VAT.StringFixed(2),
		VATLabel:        invoice.VATPercentLabel,
		GrandTotal:      tot.GrandTotal.StringFixed(2),
	}
	for i, it := range d.Items() {
		p.FormRows = append(p.FormRows, FormRowView{
			Index:       i,
			SN:          i + 1,
			Key:         it.Key,
			Description: it.Description,
			Rate:        it.Rate.String(),
			Quantity:    strconv.FormatInt(it.Quantity, 10),
			Amount:      it.Total().StringFixed(2),
		})
	}
	return p
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
