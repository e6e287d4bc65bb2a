package http

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/application/dto"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

// InvoiceHandler API JSON de facturas.
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create godoc
// @Summary      Crear factura
// @Description  Valida el borrador, calcula subtotal, IVA (13 %) y total y lo envía a la API de almacenamiento.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "cabecera, applyVat e items"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      504   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	draft, err := in.Draft()
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.Create(c.UserContext(), draft)
	if err != nil {
		return writeError(c, err)
	}
	if inv == nil {
		return c.SendStatus(fiber.StatusCreated)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInvoiceResponse(inv))
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        page  query     int  false  "página 0-based (default 0)"
// @Param        size  query     int  false  "tamaño de página (default 10, max 100)"
// @Success      200   {object}  dto.InvoicePageResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	p, err := h.uc.List(c.UserContext(), c.QueryInt("page", 0), c.QueryInt("size", billing.DefaultPageSize))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInvoicePageResponse(p))
}

// GetByNumber godoc
// @Summary      Obtener factura por número
// @Tags         invoices
// @Produce      json
// @Param        no   path      int  true  "número de factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/invoices/{no} [get]
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	no, err := invoiceNoParam(c)
	if err != nil {
		return writeError(c, err)
	}
	inv, err := h.uc.Get(c.UserContext(), no)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInvoiceResponse(inv))
}

// Search godoc
// @Summary      Buscar facturas
// @Description  Búsqueda incremental. Una búsqueda nueva con el mismo X-Client-ID cancela la anterior,
// @Description  que responde 409. Consulta vacía devuelve una lista vacía sin llamar a la API.
// @Tags         invoices
// @Produce      json
// @Param        searchValue  query     string  false  "texto a buscar"
// @Param        X-Client-ID  header    string  false  "clave de coalescencia"
// @Success      200          {array}   dto.InvoiceResponse
// @Failure      409          {object}  dto.ErrorResponse
// @Failure      502          {object}  dto.ErrorResponse
// @Router       /api/invoices/search [get]
func (h *InvoiceHandler) Search(c *fiber.Ctx) error {
	res, err := h.uc.Search(c.UserContext(), clientKey(c), utils.CopyString(c.Query("searchValue")))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInvoiceList(res))
}

// Words godoc
// @Summary      Número en palabras
// @Description  Escala corta en inglés (thousand, million, billion); admite 0 a 999999999999.
// @Tags         words
// @Produce      json
// @Param        n    path      int  true  "entero no negativo"
// @Success      200  {object}  dto.WordsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/words/{n} [get]
func (h *InvoiceHandler) Words(c *fiber.Ctx) error {
	n, err := strconv.ParseInt(c.Params("n"), 10, 64)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: n debe ser entero", domain.ErrInvalidInput))
	}
	words, err := numwords.Convert(n)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.WordsResponse{Number: n, Words: words})
}

func invoiceNoParam(c *fiber.Ctx) (int64, error) {
	no, err := strconv.ParseInt(c.Params("no"), 10, 64)
	if err != nil || no <= 0 {
		return 0, fmt.Errorf("%w: número de factura inválido %q", domain.ErrInvalidInput, c.Params("no"))
	}
	return no, nil
}
