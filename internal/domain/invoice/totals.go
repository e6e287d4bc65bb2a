// Package invoice reglas de negocio del lado del front-end: totales, IVA,
// numeración visible y el estado inmutable del formulario de creación.
package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// VATRate tarifa de IVA de Nepal (13 %).
var VATRate = decimal.RequireFromString("0.13")

// VATPercentLabel etiqueta impresa junto al IVA.
const VATPercentLabel = "13%"

// Totals totales de una factura.
type Totals struct {
	Subtotal   decimal.Decimal
	VAT        decimal.Decimal
	GrandTotal decimal.Decimal
}

// LineTotal round(rate * quantity, 2).
func LineTotal(rate decimal.Decimal, quantity int64) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(quantity)).Round(2)
}

// ComputeTotals suma las líneas y aplica IVA si applyVAT.
func ComputeTotals(lineTotals []decimal.Decimal, applyVAT bool) Totals {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	vat := decimal.Zero
	if applyVAT {
		vat = subtotal.Mul(VATRate).Round(2)
	}
	return Totals{Subtotal: subtotal, VAT: vat, GrandTotal: subtotal.Add(vat)}
}

// CheckTotals verifica grandTotal == round(totalAmount + vatAmount, 2).
func CheckTotals(inv *entity.Invoice) error {
	if inv == nil {
		return domain.ErrMissingInput
	}
	want := inv.Subtotal().Add(inv.VAT()).Round(2)
	if !inv.GrandTotal.Round(2).Equal(want) {
		return fmt.Errorf("%w: grandTotal %s != totalAmount + vatAmount %s",
			domain.ErrInvalidInput, inv.GrandTotal.StringFixed(2), want.StringFixed(2))
	}
	return nil
}

// FormatNumber número de factura visible, con ceros a la izquierda hasta 3 dígitos.
func FormatNumber(invoiceNo int64) string {
	return fmt.Sprintf("%03d", invoiceNo)
}

// PDFFilename nombre de archivo del PDF: invoice_007.pdf.
func PDFFilename(invoiceNo int64) string {
	return "invoice_" + FormatNumber(invoiceNo) + ".pdf"
}

// HTMLFilename nombre de archivo de la descarga HTML: invoice_007.html.
func HTMLFilename(invoiceNo int64) string {
	return "invoice_" + FormatNumber(invoiceNo) + ".html"
}

// RegisterFilename nombre del registro de una página del listado (page 0-based): invoice_register_p1.pdf.
func RegisterFilename(page int, ext string) string {
	return fmt.Sprintf("invoice_register_p%d.%s", page+1, ext)
}
