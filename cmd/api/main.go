package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/msp-invoices/docs"
	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain/repository"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/invoiceapi"
	infrapdf "github.com/jhoicas/msp-invoices/internal/infrastructure/pdf"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/postgres"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/msp-invoices/internal/interfaces/http"
	"github.com/jhoicas/msp-invoices/pkg/config"
	"github.com/jhoicas/msp-invoices/pkg/jwt"
	"github.com/jhoicas/msp-invoices/pkg/logger"
)

// @title        MSP Invoices API
// @version      1.0
// @description  Front-end de facturas sobre la API de almacenamiento: listado, búsqueda, creación y documentos.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("invoice_api", cfg.InvoiceAPI.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()

	clientOpts := []invoiceapi.Option{invoiceapi.WithLogger(log.Named("invoiceapi").Zerolog())}
	if cfg.InvoiceAPI.JWTSecret != "" {
		clientOpts = append(clientOpts, invoiceapi.WithTokenSource(jwt.TokenSource{
			Secret:     cfg.InvoiceAPI.JWTSecret,
			Issuer:     cfg.InvoiceAPI.JWTIssuer,
			Subject:    cfg.App.Name,
			ExpMinutes: cfg.InvoiceAPI.JWTExpMinutes,
		}))
	}
	store := invoiceapi.NewClient(cfg.InvoiceAPI.BaseURL, cfg.InvoiceAPI.Timeout(), clientOpts...)

	// Caché de detalle en PostgreSQL: opcional, un fallo al arrancar la deja apagada.
	var cache repository.InvoiceCache
	if cfg.Cache.Enabled && cfg.DB.Configured() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Warn().Err(err).Msg("caché deshabilitada: conexión a PostgreSQL")
		} else {
			defer pool.Close()
			repo := postgres.NewInvoiceCacheRepository(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("caché deshabilitada: crear tabla invoice_cache")
			} else {
				cache = repo
				log.Info().Msg("caché de facturas habilitada")
			}
		}
	}

	invoiceUC := billing.NewInvoiceUseCase(store, cache, billing.InvoiceUseCaseConfig{
		Timeout:  cfg.InvoiceAPI.Timeout(),
		Debounce: cfg.Search.Debounce(),
	}, log.Named("billing"))

	views, err := view.New(view.Org{Name: cfg.Org.Name, Address: cfg.Org.Address, AppName: cfg.App.Name})
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas HTML")
	}
	documentUC := billing.NewDocumentUseCase(invoiceUC, billing.DocumentRenderers{
		PDF: infrapdf.NewInvoiceRenderer(infrapdf.Options{
			OrgName:    cfg.Org.Name,
			OrgAddress: cfg.Org.Address,
			FontFile:   cfg.Org.PDFFontFile,
			Compress:   true,
		}),
		HTML:         views,
		RegisterPDF:  infrapdf.NewMarotoRegisterGenerator(cfg.Org.Name, cfg.Org.Address),
		RegisterXLSX: xlsx.NewRegisterExporter(),
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
		// El borrador del formulario y las búsquedas guardan strings de la petición.
		Immutable:    true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MSP Invoices API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "cache": cache != nil})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Invoices:     invoiceUC,
		Documents:    documentUC,
		Views:        views,
		APIJWTSecret: cfg.API.JWTSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
