package entity

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// SchemaVersion versión del esquema canónico de factura que entiende este front-end.
const SchemaVersion = "v1"

// ID identificador opaco de la API de facturas; llega como string o como número.
type ID string

// UnmarshalJSON acepta "abc", 12 o null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: se esperaba string o número: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// InvoiceItem línea de factura. TotalAmount es opcional: revisiones antiguas de la API no lo envían.
type InvoiceItem struct {
	ID          ID                  `json:"id"`
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	Rate        decimal.Decimal     `json:"rate"`
	TotalAmount decimal.NullDecimal `json:"totalAmount"`
}

// LineTotal total de la línea: el almacenado o round(rate*quantity, 2).
func (it InvoiceItem) LineTotal() decimal.Decimal {
	if it.TotalAmount.Valid {
		return it.TotalAmount.Decimal
	}
	return it.Rate.Mul(decimal.NewFromInt(it.Quantity)).Round(2)
}

// Invoice factura tal como la devuelve la API de almacenamiento (esquema v1).
// Una vez creada es inmutable.
type Invoice struct {
	ID              ID                  `json:"id"`
	InvoiceNo       int64               `json:"invoiceNo"`
	CustomerName    string              `json:"customerName"`
	CustomerAddress string              `json:"customerAddress"`
	InvoiceDate     string              `json:"invoiceDate"`
	TotalAmount     decimal.NullDecimal `json:"totalAmount"`
	VATAmount       decimal.NullDecimal `json:"vatAmount"`
	GrandTotal      decimal.Decimal     `json:"grandTotal"`
	InvoiceItems    []InvoiceItem       `json:"invoiceItems"`
}

// Subtotal el totalAmount almacenado o la suma de los totales de línea.
func (inv *Invoice) Subtotal() decimal.Decimal {
	if inv.TotalAmount.Valid {
		return inv.TotalAmount.Decimal
	}
	sum := decimal.Zero
	for _, it := range inv.InvoiceItems {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// VAT el vatAmount almacenado o cero.
func (inv *Invoice) VAT() decimal.Decimal {
	if inv.VATAmount.Valid {
		return inv.VATAmount.Decimal
	}
	return decimal.Zero
}

// InvoicePage página de listado (forma de Spring Data: content + totalPages).
type InvoicePage struct {
	Content    []Invoice `json:"content"`
	TotalPages int       `json:"totalPages"`
	Number     int       `json:"number"`
	Size       int       `json:"size"`
}
