package entity

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// NewInvoiceHeader cabecera del cuerpo de creación.
type NewInvoiceHeader struct {
	InvoiceDate     string      `json:"invoiceDate"`
	CustomerName    string      `json:"customerName"`
	CustomerAddress string      `json:"customerAddress"`
	TotalAmount     json.Number `json:"totalAmount"`
	VATAmount       json.Number `json:"vatAmount"`
	GrandTotal      json.Number `json:"grandTotal"`
}

// NewInvoiceItem línea del cuerpo de creación.
type NewInvoiceItem struct {
	Description string      `json:"description"`
	Rate        json.Number `json:"rate"`
	Quantity    int64       `json:"quantity"`
}

// NewInvoice cuerpo de POST a la API de almacenamiento. El número de factura lo asigna la API.
type NewInvoice struct {
	Invoice         NewInvoiceHeader `json:"invoice"`
	InvoiceItemList []NewInvoiceItem `json:"invoiceItemList"`
}

// Amount importe con 2 decimales como número JSON.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}
