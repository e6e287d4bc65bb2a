package xlsx_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/xlsx"
)

func TestRegisterExporter_Render(t *testing.T) {
	page := &entity.InvoicePage{
		Number: 0, TotalPages: 1,
		Content: []entity.Invoice{
			{InvoiceNo: 7, CustomerName: "Ram", InvoiceDate: "2024-05-01",
				TotalAmount: decimal.NewNullDecimal(decimal.NewFromInt(200)),
				VATAmount:   decimal.NewNullDecimal(decimal.NewFromInt(26)),
				GrandTotal:  decimal.NewFromInt(226)},
			{InvoiceNo: 8, CustomerName: "Sita", GrandTotal: decimal.RequireFromString("10.5")},
		},
	}
	doc, err := xlsx.NewRegisterExporter().RenderRegister(page)
	require.NoError(t, err)
	assert.Equal(t, "invoice_register_p1.xlsx", doc.Filename)
	assert.Equal(t, 2, doc.RowsDrawn)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(xlsx.SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, "Invoice No", rows[0][0])
	assert.Equal(t, "007", rows[1][0])
	assert.Equal(t, "Ram", rows[1][1])
	assert.Equal(t, "008", rows[2][0])

	formula, err := f.GetCellFormula(xlsx.SheetName, "G4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(G2:G3)", formula)
	label, _ := f.GetCellValue(xlsx.SheetName, "F4")
	assert.Equal(t, "Page total", label)
}

func TestRegisterExporter_Vacio(t *testing.T) {
	doc, err := xlsx.NewRegisterExporter().RenderRegister(&entity.InvoicePage{})
	require.NoError(t, err)
	assert.Equal(t, 0, doc.RowsDrawn)

	_, err = xlsx.NewRegisterExporter().RenderRegister(nil)
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}
