package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// DateLayout formato de fecha que envía el formulario y espera la API.
const DateLayout = "2006-01-02"

// Field campo editable del formulario.
type Field string

const (
	FieldCustomerName    Field = "customerName"
	FieldCustomerAddress Field = "customerAddress"
	FieldInvoiceDate     Field = "invoiceDate"
	FieldDescription     Field = "description"
	FieldRate            Field = "rate"
	FieldQuantity        Field = "quantity"
)

// DraftItem línea del formulario.
type DraftItem struct {
	Key         string
	Description string
	Rate        decimal.Decimal
	Quantity    int64
}

// Total round(rate * quantity, 2).
func (it DraftItem) Total() decimal.Decimal {
	return LineTotal(it.Rate, it.Quantity)
}

// Header datos de cabecera del formulario.
type Header struct {
	CustomerName    string
	CustomerAddress string
	InvoiceDate     string
	ApplyVAT        bool
}

// Draft estado del formulario de creación. Es un valor: Reduce devuelve siempre
// una copia nueva y nunca modifica la original.
type Draft struct {
	header Header
	items  []DraftItem
}

// NewDraft construye un borrador; sin líneas arranca con una línea vacía.
func NewDraft(h Header, items ...DraftItem) Draft {
	d := Draft{header: h, items: make([]DraftItem, 0, len(items)+1)}
	for _, it := range items {
		if it.Key == "" {
			it.Key = uuid.NewString()
		}
		d.items = append(d.items, it)
	}
	if len(d.items) == 0 {
		d.items = append(d.items, emptyItem())
	}
	return d
}

func emptyItem() DraftItem {
	return DraftItem{Key: uuid.NewString(), Rate: decimal.Zero}
}

// Header devuelve la cabecera.
func (d Draft) Header() Header { return d.header }

// Items devuelve una copia de las líneas.
func (d Draft) Items() []DraftItem {
	out := make([]DraftItem, len(d.items))
	copy(out, d.items)
	return out
}

// Len número de líneas.
func (d Draft) Len() int { return len(d.items) }

// Totals totales en vivo del formulario.
func (d Draft) Totals() Totals {
	lines := make([]decimal.Decimal, len(d.items))
	for i, it := range d.items {
		lines[i] = it.Total()
	}
	return ComputeTotals(lines, d.header.ApplyVAT)
}

func (d Draft) clone() Draft {
	return Draft{header: d.header, items: d.Items()}
}

// ── Acciones ──────────────────────────────────────────────────────────────────

// Action edición sobre el borrador.
type Action interface {
	apply(d Draft) (Draft, error)
}

// SetField cambia un campo de cabecera.
type SetField struct {
	Field Field
	Value string
}

// SetItemField cambia un campo de una línea.
type SetItemField struct {
	Index int
	Field Field
	Value string
}

// AddItem agrega una línea vacía al final.
type AddItem struct{}

// RemoveItem elimina la línea Index; la última línea restante no se puede eliminar.
type RemoveItem struct {
	Index int
}

// SetVAT activa o desactiva el IVA.
type SetVAT struct {
	Enabled bool
}

// Reduce aplica la acción y devuelve el nuevo borrador. d no se modifica.
func Reduce(d Draft, a Action) (Draft, error) {
	if a == nil {
		return d, nil
	}
	next, err := a.apply(d.clone())
	if err != nil {
		return d, err
	}
	return next, nil
}

func (a SetField) apply(d Draft) (Draft, error) {
	switch a.Field {
	case FieldCustomerName:
		d.header.CustomerName = a.Value
	case FieldCustomerAddress:
		d.header.CustomerAddress = a.Value
	case FieldInvoiceDate:
		d.header.InvoiceDate = strings.TrimSpace(a.Value)
	default:
		return d, fmt.Errorf("%w: campo de cabecera desconocido %q", domain.ErrInvalidInput, a.Field)
	}
	return d, nil
}

func (a SetItemField) apply(d Draft) (Draft, error) {
	if a.Index < 0 || a.Index >= len(d.items) {
		return d, fmt.Errorf("%w: línea %d no existe", domain.ErrInvalidInput, a.Index)
	}
	it := d.items[a.Index]
	switch a.Field {
	case FieldDescription:
		it.Description = a.Value
	case FieldRate:
		rate, err := ParseRate(a.Value)
		if err != nil {
			return d, err
		}
		it.Rate = rate
	case FieldQuantity:
		qty, err := ParseQuantity(a.Value)
		if err != nil {
			return d, err
		}
		it.Quantity = qty
	default:
		return d, fmt.Errorf("%w: campo de línea desconocido %q", domain.ErrInvalidInput, a.Field)
	}
	d.items[a.Index] = it
	return d, nil
}

func (AddItem) apply(d Draft) (Draft, error) {
	d.items = append(d.items, emptyItem())
	return d, nil
}

func (a RemoveItem) apply(d Draft) (Draft, error) {
	if a.Index < 0 || a.Index >= len(d.items) {
		return d, fmt.Errorf("%w: línea %d no existe", domain.ErrInvalidInput, a.Index)
	}
	if len(d.items) == 1 {
		return d, fmt.Errorf("%w: la factura necesita al menos una línea", domain.ErrInvalidInput)
	}
	d.items = append(d.items[:a.Index], d.items[a.Index+1:]...)
	return d, nil
}

func (a SetVAT) apply(d Draft) (Draft, error) {
	d.header.ApplyVAT = a.Enabled
	return d, nil
}

// ── Parseo de entradas numéricas ──────────────────────────────────────────────

// ParseRate vacío = 0.
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tarifa %q no es un número", domain.ErrInvalidInput, s)
	}
	return rate, nil
}

// ParseQuantity vacío = 0; acepta "2" y "2.0" pero no "2.5" ni valores fuera de int64.
func ParseQuantity(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%w: cantidad %q debe ser un entero", domain.ErrInvalidInput, s)
	}
	if !d.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: cantidad %q fuera de rango", domain.ErrInvalidInput, s)
	}
	return d.IntPart(), nil
}

// ── Validación ────────────────────────────────────────────────────────────────

// ValidationError agrupa todos los problemas del formulario.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "entrada inválida: " + strings.Join(e.Problems, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Validate revisa el borrador antes de enviarlo a la API.
func (d Draft) Validate() error {
	var problems []string
	if strings.TrimSpace(d.header.CustomerName) == "" {
		problems = append(problems, "customer name is required")
	}
	if strings.TrimSpace(d.header.CustomerAddress) == "" {
		problems = append(problems, "customer address is required")
	}
	if _, err := time.Parse(DateLayout, d.header.InvoiceDate); err != nil {
		problems = append(problems, "invoice date must be YYYY-MM-DD")
	}
	if len(d.items) == 0 {
		problems = append(problems, "at least one item is required")
	}
	for i, it := range d.items {
		if strings.TrimSpace(it.Description) == "" {
			problems = append(problems, fmt.Sprintf("item %d: description is required", i+1))
		}
		if it.Quantity < 0 {
			problems = append(problems, fmt.Sprintf("item %d: quantity must be >= 0", i+1))
		}
		if it.Rate.IsNegative() {
			problems = append(problems, fmt.Sprintf("item %d: rate must be >= 0", i+1))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// AsValidationError extrae la lista de problemas si err es de validación.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// ToCreateRequest cuerpo de creación con los totales calculados.
func (d Draft) ToCreateRequest() entity.NewInvoice {
	tot := d.Totals()
	req := entity.NewInvoice{
		Invoice: entity.NewInvoiceHeader{
			InvoiceDate:     d.header.InvoiceDate,
			CustomerName:    strings.TrimSpace(d.header.CustomerName),
			CustomerAddress: strings.TrimSpace(d.header.CustomerAddress),
			TotalAmount:     entity.Amount(tot.Subtotal),
			VATAmount:       entity.Amount(tot.VAT),
			GrandTotal:      entity.Amount(tot.GrandTotal),
		},
		InvoiceItemList: make([]entity.NewInvoiceItem, 0, len(d.items)),
	}
	for _, it := range d.items {
		req.InvoiceItemList = append(req.InvoiceItemList, entity.NewInvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Rate:        json.Number(it.Rate.String()),
			Quantity:    it.Quantity,
		})
	}
	return req
}
