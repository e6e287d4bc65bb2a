package pdf_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/pdf"
)

func samplePage() *entity.InvoicePage {
	return &entity.InvoicePage{
		Number: 1, Size: 10, TotalPages: 4,
		Content: []entity.Invoice{
			{InvoiceNo: 11, CustomerName: "Ram", InvoiceDate: "2024-05-01", GrandTotal: decimal.RequireFromString("1226.50")},
			{InvoiceNo: 12, CustomerName: "Sita", InvoiceDate: "2024-05-02", GrandTotal: decimal.RequireFromString("100")},
		},
	}
}

func TestMarotoRegister_Render(t *testing.T) {
	g := pdf.NewMarotoRegisterGenerator("MSP Solution", "Kathmandu, Nepal")
	doc, err := g.RenderRegister(samplePage())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF-")))
	assert.Equal(t, "invoice_register_p2.pdf", doc.Filename)
	assert.Equal(t, 2, doc.RowsDrawn)
}

func TestMarotoRegister_PaginaVacia(t *testing.T) {
	g := pdf.NewMarotoRegisterGenerator("MSP Solution", "")
	doc, err := g.RenderRegister(&entity.InvoicePage{Content: []entity.Invoice{}})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.RowsDrawn)

	_, err = g.RenderRegister(nil)
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestPageTotalYFormatMoney(t *testing.T) {
	assert.Equal(t, "1326.50", pdf.PageTotal(samplePage()).StringFixed(2))
	assert.Equal(t, "1,234,567.50", pdf.FormatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "0.00", pdf.FormatMoney(decimal.Zero))
	assert.Equal(t, "-1,000.00", pdf.FormatMoney(decimal.NewFromInt(-1000)))
}
