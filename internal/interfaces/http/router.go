package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Invoices  *billing.InvoiceUseCase
	Documents *billing.DocumentUseCase
	Views     *view.Renderer
	// APIJWTSecret protege la API JSON con Bearer Token; vacío = API abierta.
	APIJWTSecret string
	// Now reloj para la fecha por defecto del formulario (tests).
	Now func() time.Time
}

// Router registra las páginas, las descargas y la API JSON.
func Router(app *fiber.App, deps RouterDeps) {
	pages := NewPageHandler(deps.Invoices, deps.Views, deps.Now)
	docs := NewDocumentHandler(deps.Documents, deps.Views)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/invoices", fiber.StatusFound)
	})

	invoices := app.Group("/invoices")
	invoices.Get("/", pages.List)
	invoices.Get("/new", pages.NewForm)
	invoices.Post("/new", pages.SubmitForm)
	invoices.Get("/details", pages.Details)
	// Registros antes de /:no para que "register.pdf" no se lea como número.
	invoices.Get("/register.pdf", docs.RegisterPDF)
	invoices.Get("/register.xlsx", docs.RegisterXLSX)
	invoices.Get("/:no/print", docs.Print)
	invoices.Get("/:no/download.html", docs.DownloadHTML)
	invoices.Get("/:no/invoice.pdf", docs.PDF)

	api := app.Group("/api")
	if deps.APIJWTSecret != "" {
		api.Use(AuthMiddleware(deps.APIJWTSecret))
	}
	invoiceHandler := NewInvoiceHandler(deps.Invoices)
	apiInvoices := api.Group("/invoices")
	apiInvoices.Post("/", invoiceHandler.Create)
	apiInvoices.Get("/", invoiceHandler.List)
	apiInvoices.Get("/search", invoiceHandler.Search)
	apiInvoices.Get("/:no", invoiceHandler.GetByNumber)
	api.Get("/words/:n", invoiceHandler.Words)
}
