// Package pdf genera los documentos PDF del front-end de facturas: la factura
// individual (gofpdf, coordenadas absolutas) y el registro de facturas (Maroto v2).
//
// Layout de la factura en A4 (desplazamientos en mm desde el margen superior):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ 0   Nombre de la organización (centrado, negrita 16)        │
//	│ 7   Dirección de la organización                            │
//	│ 13  "Invoice"                                               │
//	│ 24  Invoice No: NNN                          Date: AAAA-MM-DD│
//	│ 32  M/s: cliente                                            │
//	│ 38  Address: dirección del cliente                          │
//	│ 48  TABLA: S.N. | Description | Quantity | Rate | Amount    │
//	│     ...filas de 8 mm; al desbordar, página nueva con cabecera│
//	│     Sub Total / VAT (13%) / Grand Total / Amount in words   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

var _ appbilling.InvoicePDFRenderer = (*InvoiceRenderer)(nil)

// ── Geometría ─────────────────────────────────────────────────────────────────

const (
	MarginTop    = 19.05
	MarginBottom = 19.05
	MarginLeft   = 12.7
	MarginRight  = 12.7

	RowHeight = 8.0

	offsetOrgName  = 0.0
	offsetOrgAddr  = 7.0
	offsetDocLabel = 13.0
	offsetDetails  = 24.0
	offsetCustomer = 32.0
	offsetAddress  = 38.0
	offsetTable    = 48.0

	totalsLineHeight = 7.0
	wordsLineHeight  = 6.0
	totalsGap        = 4.0
	cellPadding      = 1.5
	ellipsis         = "..."
	fontFamily       = "Arial"
	utf8Family       = "InvoiceUTF8"
	contentTypePDF   = "application/pdf"
)

// Column columna de la tabla de líneas.
type Column struct {
	Title string
	// Share fracción del ancho útil.
	Share float64
	Align string
	X     float64
	Width float64
}

var tableColumns = []Column{
	{Title: "S.N.", Share: 0.11, Align: "C"},
	{Title: "Description", Share: 0.40, Align: "L"},
	{Title: "Quantity", Share: 0.15, Align: "R"},
	{Title: "Rate", Share: 0.15, Align: "R"},
	{Title: "Amount", Share: 0.19, Align: "R"},
}

// ColumnLayout calcula las columnas para un ancho útil dado. X es la suma acumulada
// de los anchos previos desde el margen izquierdo; la última columna termina
// exactamente en MarginLeft + usableWidth.
func ColumnLayout(usableWidth float64) []Column {
	cols := make([]Column, len(tableColumns))
	x := MarginLeft
	for i, c := range tableColumns {
		c.X = x
		c.Width = usableWidth * c.Share
		if i == len(tableColumns)-1 {
			c.Width = MarginLeft + usableWidth - x
		}
		x += c.Width
		cols[i] = c
	}
	return cols
}

// ── Renderer ──────────────────────────────────────────────────────────────────

// Options opciones del renderer.
type Options struct {
	OrgName    string
	OrgAddress string
	// FontFile TTF UTF-8 (ej. Noto Sans Devanagari). Vacío = Arial core, solo cp1252.
	FontFile string
	// Compress comprime los streams de contenido; los tests lo desactivan para inspeccionar el texto.
	Compress bool
}

// InvoiceRenderer genera el PDF de una factura con gofpdf.
type InvoiceRenderer struct {
	opts Options
}

// NewInvoiceRenderer construye el renderer.
func NewInvoiceRenderer(opts Options) *InvoiceRenderer {
	return &InvoiceRenderer{opts: opts}
}

// layout estado de una generación: cursor vertical y métricas de página.
type layout struct {
	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string
	cols   []Column
	usable float64
	limitY float64
	y      float64
	rows   int
}

// Render genera el PDF. La misma factura produce siempre los mismos bytes.
func (r *InvoiceRenderer) Render(inv *entity.Invoice) (*appbilling.Document, error) {
	if inv == nil || inv.InvoiceNo <= 0 {
		return nil, fmt.Errorf("pdf: %w", domain.ErrMissingInput)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(MarginLeft, MarginTop, MarginRight)
	pdf.SetAutoPageBreak(false, MarginBottom)
	pdf.SetCompression(r.opts.Compress)
	pdf.SetCatalogSort(true)
	stamp := documentDate(inv.InvoiceDate)
	pdf.SetCreationDate(stamp)
	pdf.SetModificationDate(stamp)
	pdf.SetTitle("Invoice "+invoice.FormatNumber(inv.InvoiceNo), true)
	pdf.SetCreator(r.opts.OrgName, true)

	pageW, pageH := pdf.GetPageSize()
	usable := pageW - MarginLeft - MarginRight
	l := &layout{
		pdf:    pdf,
		family: fontFamily,
		tr:     cp1252(pdf.UnicodeTranslatorFromDescriptor("")),
		cols:   ColumnLayout(usable),
		usable: usable,
		limitY: pageH - MarginBottom,
	}
	if r.opts.FontFile != "" {
		pdf.AddUTF8Font(utf8Family, "", r.opts.FontFile)
		pdf.AddUTF8Font(utf8Family, "B", r.opts.FontFile)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("pdf: fuente %s: %w", r.opts.FontFile, err)
		}
		l.family = utf8Family
		l.tr = func(s string) string { return s }
	}

	pdf.AddPage()
	l.header(r.opts, inv)
	l.y = MarginTop + offsetTable
	l.tableHeader()
	for i, it := range inv.InvoiceItems {
		l.itemRow(i, it)
	}
	if err := l.totals(inv); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return &appbilling.Document{
		Content:     buf.Bytes(),
		ContentType: contentTypePDF,
		Filename:    invoice.PDFFilename(inv.InvoiceNo),
		Pages:       pdf.PageNo(),
		RowsDrawn:   l.rows,
	}, nil
}

// documentDate fecha fija de metadatos: la de la factura, o el epoch si no se puede leer.
func documentDate(s string) time.Time {
	if t, err := time.Parse(invoice.DateLayout, s); err == nil {
		return t.UTC()
	}
	return time.Unix(0, 0).UTC()
}

// cp1252 envuelve el traductor de gofpdf: un rune sin equivalente en cp1252 sale como
// "?" en lugar de desaparecer del documento.
func cp1252(tr func(string) string) func(string) string {
	return func(s string) string {
		var b strings.Builder
		for _, r := range s {
			if r < utf8.RuneSelf || tr(string(r)) != "" {
				b.WriteRune(r)
			} else {
				b.WriteByte('?')
			}
		}
		return tr(b.String())
	}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (l *layout) text(x, y, w, h float64, s, align string) {
	l.pdf.SetXY(x, y)
	l.pdf.CellFormat(w, h, l.tr(s), "", 0, align, false, 0, "")
}

func (l *layout) header(opts Options, inv *entity.Invoice) {
	pdf := l.pdf
	pdf.SetFont(l.family, "B", 16)
	l.text(MarginLeft, MarginTop+offsetOrgName, l.usable, 7, opts.OrgName, "C")

	pdf.SetFont(l.family, "", 10)
	l.text(MarginLeft, MarginTop+offsetOrgAddr, l.usable, 6, opts.OrgAddress, "C")

	pdf.SetFont(l.family, "B", 12)
	l.text(MarginLeft, MarginTop+offsetDocLabel, l.usable, 7, "Invoice", "C")

	pdf.SetFont(l.family, "", 10)
	l.text(MarginLeft, MarginTop+offsetDetails, l.usable/2, 6, "Invoice No: "+invoice.FormatNumber(inv.InvoiceNo), "L")
	l.text(MarginLeft+l.usable/2, MarginTop+offsetDetails, l.usable/2, 6, "Date: "+orNA(inv.InvoiceDate), "R")

	l.text(MarginLeft, MarginTop+offsetCustomer, l.usable, 6, l.clip("M/s: "+orNA(inv.CustomerName), l.usable), "L")
	l.text(MarginLeft, MarginTop+offsetAddress, l.usable, 6, l.clip("Address: "+orNA(inv.CustomerAddress), l.usable), "L")
}

func (l *layout) tableHeader() {
	l.pdf.SetFont(l.family, "B", 10)
	for _, c := range l.cols {
		l.cell(c, l.y, c.Title, c.Align)
	}
	l.y += RowHeight
}

// ensureRoom agrega una página si h no cabe sobre el margen inferior.
func (l *layout) ensureRoom(h float64, repeatHeader bool) {
	if l.y+h <= l.limitY {
		return
	}
	l.pdf.AddPage()
	l.y = MarginTop
	if repeatHeader {
		l.tableHeader()
	}
}

func (l *layout) itemRow(i int, it entity.InvoiceItem) {
	l.ensureRoom(RowHeight, true)
	values := []string{
		strconv.Itoa(i + 1),
		it.Description,
		strconv.FormatInt(it.Quantity, 10),
		it.Rate.StringFixed(2),
		it.LineTotal().StringFixed(2),
	}
	l.pdf.SetFont(l.family, "", 10)
	for j, c := range l.cols {
		l.cell(c, l.y, values[j], c.Align)
	}
	l.y += RowHeight
	l.rows++
}

// cell rectángulo con borde y texto recortado al ancho de la columna.
func (l *layout) cell(c Column, y float64, s, align string) {
	l.pdf.Rect(c.X, y, c.Width, RowHeight, "D")
	inner := c.Width - 2*cellPadding
	l.text(c.X+cellPadding, y, inner, RowHeight, l.clip(s, inner), align)
}

// clip recorta s con "..." hasta que entre en w (con la fuente actual).
func (l *layout) clip(s string, w float64) string {
	if l.pdf.GetStringWidth(l.tr(s)) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		cand := string(runes) + ellipsis
		if l.pdf.GetStringWidth(l.tr(cand)) <= w {
			return cand
		}
	}
	return ""
}

func (l *layout) totals(inv *entity.Invoice) error {
	pdf := l.pdf
	sub, vat := inv.Subtotal(), inv.VAT()

	words, err := numwords.Sentence(inv.GrandTotal)
	if err != nil {
		words = "N/A"
	}
	pdf.SetFont(l.family, "", 10)
	wordLines := pdf.SplitLines([]byte(l.tr("Amount in words: "+words)), l.usable)

	lines := 2
	if vat.GreaterThan(decimal.Zero) {
		lines++
	}
	block := totalsGap + float64(lines)*totalsLineHeight + float64(len(wordLines))*wordsLineHeight
	l.ensureRoom(block, false)
	l.y += totalsGap

	l.text(MarginLeft, l.y, l.usable, totalsLineHeight, "Sub Total: Rs. "+sub.StringFixed(2), "R")
	l.y += totalsLineHeight
	if vat.GreaterThan(decimal.Zero) {
		l.text(MarginLeft, l.y, l.usable, totalsLineHeight,
			fmt.Sprintf("VAT (%s): Rs. %s", invoice.VATPercentLabel, vat.StringFixed(2)), "R")
		l.y += totalsLineHeight
	}

	pdf.SetFont(l.family, "B", 11)
	l.text(MarginLeft, l.y, l.usable, totalsLineHeight, "Grand Total: Rs. "+inv.GrandTotal.StringFixed(2), "R")
	l.y += totalsLineHeight

	pdf.SetFont(l.family, "", 10)
	for _, ln := range wordLines {
		pdf.SetXY(MarginLeft, l.y)
		pdf.CellFormat(l.usable, wordsLineHeight, string(ln), "", 0, "L", false, 0, "")
		l.y += wordsLineHeight
	}

	if pdf.Err() {
		return fmt.Errorf("pdf: %w", pdf.Error())
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
