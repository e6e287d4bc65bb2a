package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appbilling "github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
)

var _ appbilling.RegisterRenderer = (*MarotoRegisterGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoRegisterGenerator registro de facturas (una página del listado) usando Maroto v2.
type MarotoRegisterGenerator struct {
	orgName    string
	orgAddress string
}

// NewMarotoRegisterGenerator construye el generador.
func NewMarotoRegisterGenerator(orgName, orgAddress string) *MarotoRegisterGenerator {
	return &MarotoRegisterGenerator{orgName: orgName, orgAddress: orgAddress}
}

// RenderRegister genera el PDF del registro.
func (g *MarotoRegisterGenerator) RenderRegister(page *entity.InvoicePage) (*appbilling.Document, error) {
	if page == nil {
		return nil, fmt.Errorf("registro pdf: %w", domain.ErrMissingInput)
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(MarginLeft).WithRightMargin(MarginRight).
		WithTopMargin(MarginTop).WithBottomMargin(MarginBottom).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice Register", true).
		WithAuthor(g.orgName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(page))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(registerHeaderRow())
	for _, inv := range page.Content {
		m.AddRows(registerDetailRow(inv))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(pageTotalRow(page))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("registro pdf: generar documento: %w", err)
	}
	return &appbilling.Document{
		Content:     doc.GetBytes(),
		ContentType: contentTypePDF,
		Filename:    invoice.RegisterFilename(page.Number, "pdf"),
		RowsDrawn:   len(page.Content),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización (izq) y número de página del listado (der).
func (g *MarotoRegisterGenerator) headerRow(page *entity.InvoicePage) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.orgName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(g.orgAddress, props.Text{
				Size: 9, Top: 8, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE REGISTER", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Page %d of %d", page.Number+1, max(page.TotalPages, 1)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func registerHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Invoice No", 2, align.Left),
		h("Customer", 5, align.Left),
		h("Date", 2, align.Center),
		h("Amount", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func registerDetailRow(inv entity.Invoice) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(invoice.FormatNumber(inv.InvoiceNo),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(5).Add(text.New(nonEmpty(inv.CustomerName, "N/A"),
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(2).Add(text.New(nonEmpty(inv.InvoiceDate, "N/A"),
			props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(3).Add(text.New("Rs. "+FormatMoney(inv.GrandTotal),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// pageTotalRow suma de grandTotal de las facturas de la página.
func pageTotalRow(page *entity.InvoicePage) core.Row {
	return row.New(10).Add(
		col.New(9).Add(text.New(fmt.Sprintf("Page total (%d invoices):", len(page.Content)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("Rs. "+FormatMoney(PageTotal(page)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// PageTotal suma de grandTotal de la página.
func PageTotal(page *entity.InvoicePage) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range page.Content {
		sum = sum.Add(inv.GrandTotal)
	}
	return sum
}

var moneyPrinter = message.NewPrinter(language.English)

// FormatMoney separador de miles y 2 decimales: 1234567.5 → "1,234,567.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return d.StringFixed(2)
	}
	out := moneyPrinter.Sprintf("%d", n) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
