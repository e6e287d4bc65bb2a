package dto

import (
	"encoding/json"

	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerName    string                     `json:"customerName"`
	CustomerAddress string                     `json:"customerAddress"`
	InvoiceDate     string                     `json:"invoiceDate"` // AAAA-MM-DD
	ApplyVAT        bool                       `json:"applyVat"`
	Items           []CreateInvoiceItemRequest `json:"items"`
}

// CreateInvoiceItemRequest línea del body de creación.
type CreateInvoiceItemRequest struct {
	Description string      `json:"description"`
	Rate        json.Number `json:"rate" swaggertype:"number"`
	Quantity    int64       `json:"quantity"`
}

// Draft arma el borrador del dominio; los montos se parsean con las mismas reglas del formulario.
func (r CreateInvoiceRequest) Draft() (invoice.Draft, error) {
	items := make([]invoice.DraftItem, 0, len(r.Items))
	for _, it := range r.Items {
		rate, err := invoice.ParseRate(it.Rate.String())
		if err != nil {
			return invoice.Draft{}, err
		}
		items = append(items, invoice.DraftItem{Description: it.Description, Rate: rate, Quantity: it.Quantity})
	}
	return invoice.NewDraft(invoice.Header{
		CustomerName:    r.CustomerName,
		CustomerAddress: r.CustomerAddress,
		InvoiceDate:     r.InvoiceDate,
		ApplyVAT:        r.ApplyVAT,
	}, items...), nil
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	SN          int    `json:"sn"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

// InvoiceResponse factura con totales ya formateados para GET /api/invoices/:no.
type InvoiceResponse struct {
	InvoiceNo       int64                 `json:"invoiceNo"`
	Number          string                `json:"number"`
	CustomerName    string                `json:"customerName"`
	CustomerAddress string                `json:"customerAddress"`
	InvoiceDate     string                `json:"invoiceDate"`
	SubTotal        string                `json:"subTotal"`
	VATAmount       string                `json:"vatAmount"`
	GrandTotal      string                `json:"grandTotal"`
	AmountInWords   string                `json:"amountInWords,omitempty"`
	Items           []InvoiceItemResponse `json:"items"`
}

// NewInvoiceResponse mapea la entidad a la respuesta.
func NewInvoiceResponse(inv *entity.Invoice) InvoiceResponse {
	out := InvoiceResponse{
		InvoiceNo:       inv.InvoiceNo,
		Number:          invoice.FormatNumber(inv.InvoiceNo),
		CustomerName:    inv.CustomerName,
		CustomerAddress: inv.CustomerAddress,
		InvoiceDate:     inv.InvoiceDate,
		SubTotal:        inv.Subtotal().StringFixed(2),
		VATAmount:       inv.VAT().StringFixed(2),
		GrandTotal:      inv.GrandTotal.StringFixed(2),
		Items:           make([]InvoiceItemResponse, 0, len(inv.InvoiceItems)),
	}
	if words, err := numwords.Sentence(inv.GrandTotal); err == nil {
		out.AmountInWords = words
	}
	for i, it := range inv.InvoiceItems {
		out.Items = append(out.Items, InvoiceItemResponse{
			SN:          i + 1,
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate.StringFixed(2),
			Amount:      it.LineTotal().StringFixed(2),
		})
	}
	return out
}

// NewInvoiceList mapea un listado.
func NewInvoiceList(invs []entity.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invs))
	for i := range invs {
		out = append(out, NewInvoiceResponse(&invs[i]))
	}
	return out
}

// InvoicePageResponse página del listado para GET /api/invoices.
type InvoicePageResponse struct {
	Content []InvoiceResponse `json:"content"`
	Page    PageResponse      `json:"page"`
}

// NewInvoicePageResponse mapea una página.
func NewInvoicePageResponse(p *entity.InvoicePage) InvoicePageResponse {
	return InvoicePageResponse{
		Content: NewInvoiceList(p.Content),
		Page:    PageResponse{Page: p.Number, Size: p.Size, TotalPages: p.TotalPages},
	}
}

// WordsResponse respuesta de GET /api/words/:n.
type WordsResponse struct {
	Number int64  `json:"number"`
	Words  string `json:"words"`
}
