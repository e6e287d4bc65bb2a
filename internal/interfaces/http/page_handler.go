package http

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
)

// Acciones del formulario de creación (valor del botón "action").
const (
	actionAddItem     = "add_item"
	actionRemoveItem  = "remove_item:"
	actionToggleVAT   = "toggle_vat"
	actionRecalculate = "recalculate"
	actionSubmit      = "submit"
)

// PageHandler páginas HTML renderizadas en el servidor.
type PageHandler struct {
	uc    *billing.InvoiceUseCase
	views *view.Renderer
	now   func() time.Time
}

// NewPageHandler construye el handler. now nil = time.Now.
func NewPageHandler(uc *billing.InvoiceUseCase, views *view.Renderer, now func() time.Time) *PageHandler {
	if now == nil {
		now = time.Now
	}
	return &PageHandler{uc: uc, views: views, now: now}
}

// List listado paginado o resultado de búsqueda.
// GET /invoices?page=&size=&search=
func (h *PageHandler) List(c *fiber.Ctx) error {
	page, size := billing.NormalizePage(c.QueryInt("page", 0), c.QueryInt("size", billing.DefaultPageSize))
	search := utils.CopyString(strings.TrimSpace(c.Query("search")))

	if search != "" {
		res, err := h.uc.Search(c.UserContext(), "web:"+c.IP(), search)
		if err != nil {
			data := h.views.ListPage(nil, page, size, 0, search)
			return h.renderError(c, view.PageList, data, err)
		}
		return h.render(c, fiber.StatusOK, view.PageList, h.views.ListPage(res, 0, size, 1, search))
	}

	p, err := h.uc.List(c.UserContext(), page, size)
	if err != nil {
		return h.renderError(c, view.PageList, h.views.ListPage(nil, page, size, 0, ""), err)
	}
	return h.render(c, fiber.StatusOK, view.PageList, h.views.ListPage(p.Content, page, size, p.TotalPages, ""))
}

// Details detalle de una factura.
// GET /invoices/details?invoiceNo=
func (h *PageHandler) Details(c *fiber.Ctx) error {
	no, err := strconv.ParseInt(c.Query("invoiceNo"), 10, 64)
	if err != nil || no <= 0 {
		return h.renderError(c, view.PageDetail, h.views.DetailPage(nil, ""),
			fmt.Errorf("%w: invoiceNo %q", domain.ErrInvalidInput, c.Query("invoiceNo")))
	}
	inv, err := h.uc.Get(c.UserContext(), no)
	if err != nil {
		return h.renderError(c, view.PageDetail, h.views.DetailPage(nil, ""), err)
	}
	return h.render(c, fiber.StatusOK, view.PageDetail, h.views.DetailPage(inv, ""))
}

// NewForm formulario vacío con la fecha de hoy.
// GET /invoices/new
func (h *PageHandler) NewForm(c *fiber.Ctx) error {
	d := invoice.NewDraft(invoice.Header{InvoiceDate: h.now().Format(invoice.DateLayout)})
	return h.render(c, fiber.StatusOK, view.PageForm, h.views.FormPage(d, nil, ""))
}

// SubmitForm aplica la acción del botón pulsado sobre el borrador enviado.
// Solo "submit" llama a la API; el resto vuelve a pintar el formulario con los totales al día.
// POST /invoices/new
func (h *PageHandler) SubmitForm(c *fiber.Ctx) error {
	d, problems := decodeDraft(c)
	action := c.FormValue("action")

	switch {
	case action == actionAddItem:
		d, _ = invoice.Reduce(d, invoice.AddItem{})
	case strings.HasPrefix(action, actionRemoveItem):
		idx, err := strconv.Atoi(strings.TrimPrefix(action, actionRemoveItem))
		if err != nil {
			idx = -1
		}
		next, err := invoice.Reduce(d, invoice.RemoveItem{Index: idx})
		if err != nil {
			problems = append(problems, "this item cannot be removed")
		}
		d = next
	case action == actionToggleVAT:
		d, _ = invoice.Reduce(d, invoice.SetVAT{Enabled: !d.Header().ApplyVAT})
	case action == actionSubmit:
		if len(problems) > 0 {
			return h.render(c, fiber.StatusBadRequest, view.PageForm, h.views.FormPage(d, problems, ""))
		}
		if _, err := h.uc.Create(c.UserContext(), d); err != nil {
			if ve, ok := invoice.AsValidationError(err); ok {
				return h.render(c, fiber.StatusBadRequest, view.PageForm, h.views.FormPage(d, ve.Problems, ""))
			}
			return h.renderError(c, view.PageForm, h.views.FormPage(d, nil, ""), err)
		}
		return c.Redirect("/invoices", fiber.StatusSeeOther)
	case action == actionRecalculate, action == "":
	default:
		problems = append(problems, "unknown action")
	}
	return h.render(c, fiber.StatusOK, view.PageForm, h.views.FormPage(d, problems, ""))
}

// decodeDraft arma el borrador desde el formulario. Los números mal escritos
// quedan en cero y se informan como problemas en vez de cortar la edición.
func decodeDraft(c *fiber.Ctx) (invoice.Draft, []string) {
	args := c.Request().PostArgs()
	keys := peekAll(args.PeekMulti("itemKey"))
	descs := peekAll(args.PeekMulti("description"))
	rates := peekAll(args.PeekMulti("rate"))
	qtys := peekAll(args.PeekMulti("quantity"))

	n := max(len(keys), len(descs), len(rates), len(qtys))
	items := make([]invoice.DraftItem, n)
	for i := range items {
		items[i] = invoice.DraftItem{Key: at(keys, i), Description: at(descs, i)}
	}
	d := invoice.NewDraft(invoice.Header{
		CustomerName:    c.FormValue("customerName"),
		CustomerAddress: c.FormValue("customerAddress"),
		InvoiceDate:     strings.TrimSpace(c.FormValue("invoiceDate")),
		ApplyVAT:        c.FormValue("applyVat") == "on",
	}, items...)

	var problems []string
	for i := 0; i < n; i++ {
		if next, err := invoice.Reduce(d, invoice.SetItemField{Index: i, Field: invoice.FieldRate, Value: at(rates, i)}); err == nil {
			d = next
		} else {
			problems = append(problems, fmt.Sprintf("item %d: rate must be a number", i+1))
		}
		if next, err := invoice.Reduce(d, invoice.SetItemField{Index: i, Field: invoice.FieldQuantity, Value: at(qtys, i)}); err == nil {
			d = next
		} else {
			problems = append(problems, fmt.Sprintf("item %d: quantity must be a whole number", i+1))
		}
	}
	return d, problems
}

func peekAll(vals [][]byte) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

func at(s []string, i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

// ── Render ────────────────────────────────────────────────────────────────────

func (h *PageHandler) render(c *fiber.Ctx, status int, page string, data view.PageData) error {
	return renderPage(c, h.views, status, page, data)
}

// renderError pinta la página con el banner de error; el usuario puede reintentar.
func (h *PageHandler) renderError(c *fiber.Ctx, page string, data view.PageData, err error) error {
	e := classify(err)
	if errors.Is(err, domain.ErrSuperseded) {
		// Otra pestaña del mismo cliente buscó después; no es un fallo.
		e.status = fiber.StatusOK
	}
	if e.status >= fiber.StatusInternalServerError {
		requestLogger(c).Error().Err(err).Str("page", page).Msg("página con error")
	}
	data.Error = e.message
	return renderPage(c, h.views, e.status, page, data)
}

func renderPage(c *fiber.Ctx, views *view.Renderer, status int, page string, data view.PageData) error {
	var buf bytes.Buffer
	if err := views.RenderPage(&buf, page, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
