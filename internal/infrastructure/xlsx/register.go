// Package xlsx exporta el registro de facturas a Excel.
package xlsx

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
)

var _ appbilling.RegisterRenderer = (*RegisterExporter)(nil)

// SheetName hoja del registro.
const SheetName = "Invoices"

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// numFmt 4 = "#,##0.00".
const numFmtMoney = 4

var headers = []string{"Invoice No", "Customer", "Address", "Date", "Sub Total", "VAT", "Grand Total", "Items"}

// RegisterExporter registro de una página del listado como libro XLSX.
type RegisterExporter struct{}

// NewRegisterExporter construye el exportador.
func NewRegisterExporter() *RegisterExporter { return &RegisterExporter{} }

// RenderRegister genera el libro: cabecera, una fila por factura y fila de total.
func (e *RegisterExporter) RenderRegister(page *entity.InvoicePage) (*appbilling.Document, error) {
	if page == nil {
		return nil, fmt.Errorf("registro xlsx: %w", domain.ErrMissingInput)
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("registro xlsx: hoja: %w", err)
	}
	idx, _ := f.GetSheetIndex(SheetName)
	f.SetActiveSheet(idx)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("registro xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("registro xlsx: estilo: %w", err)
	}
	boldMoney, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtMoney})
	if err != nil {
		return nil, fmt.Errorf("registro xlsx: estilo: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	_ = f.SetCellStyle(SheetName, "A1", "H1", bold)

	row := 2
	for _, inv := range page.Content {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, invoice.FormatNumber(inv.InvoiceNo))
		write(2, inv.CustomerName)
		write(3, inv.CustomerAddress)
		write(4, inv.InvoiceDate)
		write(5, inv.Subtotal().InexactFloat64())
		write(6, inv.VAT().InexactFloat64())
		write(7, inv.GrandTotal.InexactFloat64())
		write(8, len(inv.InvoiceItems))
		row++
	}
	if row > 2 {
		_ = f.SetCellStyle(SheetName, "E2", "G"+strconv.Itoa(row-1), money)
	}

	// Fila de total de la página.
	totalLabel, _ := excelize.CoordinatesToCellName(6, row)
	totalCell, _ := excelize.CoordinatesToCellName(7, row)
	_ = f.SetCellValue(SheetName, totalLabel, "Page total")
	if row > 2 {
		_ = f.SetCellFormula(SheetName, totalCell, fmt.Sprintf("SUM(G2:G%d)", row-1))
	} else {
		_ = f.SetCellValue(SheetName, totalCell, 0)
	}
	_ = f.SetCellStyle(SheetName, totalLabel, totalLabel, bold)
	_ = f.SetCellStyle(SheetName, totalCell, totalCell, boldMoney)

	_ = f.SetColWidth(SheetName, "A", "A", 12) // número
	_ = f.SetColWidth(SheetName, "B", "C", 28) // cliente y dirección
	_ = f.SetColWidth(SheetName, "D", "D", 12) // fecha
	_ = f.SetColWidth(SheetName, "E", "G", 14) // importes

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return &appbilling.Document{
		Content:     buf.Bytes(),
		ContentType: contentTypeXLSX,
		Filename:    invoice.RegisterFilename(page.Number, "xlsx"),
		Pages:       1,
		RowsDrawn:   len(page.Content),
	}, nil
}
