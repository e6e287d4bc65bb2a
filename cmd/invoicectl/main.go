// Command invoicectl genera documentos de facturas desde la terminal: PDF, HTML,
// registros de una página del listado y montos en palabras.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/invoiceapi"
	infrapdf "github.com/jhoicas/msp-invoices/internal/infrastructure/pdf"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/xlsx"
	"github.com/jhoicas/msp-invoices/pkg/config"
	"github.com/jhoicas/msp-invoices/pkg/jwt"
	"github.com/jhoicas/msp-invoices/pkg/logger"
	"github.com/jhoicas/msp-invoices/pkg/numwords"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "invoicectl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "documentos de facturas desde la API de almacenamiento",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "URL base de la API de facturas", EnvVars: []string{"INVOICE_API_BASE_URL"}},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "directorio de salida", EnvVars: []string{"EXPORT_DIR"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log de cada llamada a la API"},
		},
		Commands: []*cli.Command{
			{
				Name:      "words",
				Usage:     "escribe un entero en palabras",
				ArgsUsage: "<n>",
				Action:    wordsCmd,
			},
			{
				Name:      "pdf",
				Usage:     "genera invoice_NNN.pdf",
				ArgsUsage: "<invoiceNo>",
				Action: func(c *cli.Context) error {
					return invoiceCmd(c, func(ctx context.Context, docs *billing.DocumentUseCase, no int64) (*billing.Document, error) {
						return docs.InvoicePDF(ctx, no)
					})
				},
			},
			{
				Name:      "html",
				Usage:     "genera invoice_NNN.html autocontenido",
				ArgsUsage: "<invoiceNo>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "print", Usage: "abre el diálogo de impresión al cargar"},
				},
				Action: func(c *cli.Context) error {
					mode := billing.ModeDownload
					if c.Bool("print") {
						mode = billing.ModePrint
					}
					return invoiceCmd(c, func(ctx context.Context, docs *billing.DocumentUseCase, no int64) (*billing.Document, error) {
						return docs.InvoiceHTML(ctx, no, mode)
					})
				},
			},
			{
				Name:  "register",
				Usage: "registro de una página del listado",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Usage: "página 0-based"},
					&cli.IntFlag{Name: "size", Value: billing.DefaultPageSize, Usage: "facturas por página"},
					&cli.StringFlag{Name: "format", Value: "pdf", Usage: "pdf o xlsx"},
				},
				Action: registerCmd,
			},
		},
	}
}

func wordsCmd(c *cli.Context) error {
	n, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return cli.Exit("se esperaba un entero: "+c.Args().First(), 2)
	}
	words, err := numwords.Convert(n)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, words)
	return err
}

type invoiceDocFunc func(ctx context.Context, docs *billing.DocumentUseCase, no int64) (*billing.Document, error)

func invoiceCmd(c *cli.Context, fn invoiceDocFunc) error {
	no, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || no <= 0 {
		return cli.Exit("se esperaba un número de factura: "+c.Args().First(), 2)
	}
	docs, dir, err := wire(c)
	if err != nil {
		return err
	}
	doc, err := fn(c.Context, docs, no)
	if err != nil {
		return err
	}
	return write(c, dir, doc)
}

func registerCmd(c *cli.Context) error {
	docs, dir, err := wire(c)
	if err != nil {
		return err
	}
	var doc *billing.Document
	switch c.String("format") {
	case "pdf":
		doc, err = docs.RegisterPDF(c.Context, c.Int("page"), c.Int("size"))
	case "xlsx":
		doc, err = docs.RegisterXLSX(c.Context, c.Int("page"), c.Int("size"))
	default:
		return cli.Exit("formato desconocido: "+c.String("format"), 2)
	}
	if err != nil {
		return err
	}
	return write(c, dir, doc)
}

// wire arma los casos de uso igual que cmd/api, sin caché.
func wire(c *cli.Context) (*billing.DocumentUseCase, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	baseURL := cfg.InvoiceAPI.BaseURL
	if v := c.String("api"); v != "" {
		baseURL = v
	}
	dir := cfg.Export.Dir
	if v := c.String("out"); v != "" {
		dir = v
	}

	log := logger.Nop()
	if c.Bool("verbose") {
		log = logger.New(logger.Config{Env: "development", Level: "debug", Output: os.Stderr})
	}
	opts := []invoiceapi.Option{invoiceapi.WithLogger(log.Zerolog())}
	if cfg.InvoiceAPI.JWTSecret != "" {
		opts = append(opts, invoiceapi.WithTokenSource(jwt.TokenSource{
			Secret:     cfg.InvoiceAPI.JWTSecret,
			Issuer:     cfg.InvoiceAPI.JWTIssuer,
			Subject:    "invoicectl",
			ExpMinutes: cfg.InvoiceAPI.JWTExpMinutes,
		}))
	}
	store := invoiceapi.NewClient(baseURL, cfg.InvoiceAPI.Timeout(), opts...)
	invoices := billing.NewInvoiceUseCase(store, nil, billing.InvoiceUseCaseConfig{Timeout: cfg.InvoiceAPI.Timeout()}, log)

	views, err := view.New(view.Org{Name: cfg.Org.Name, Address: cfg.Org.Address, AppName: cfg.App.Name})
	if err != nil {
		return nil, "", err
	}
	docs := billing.NewDocumentUseCase(invoices, billing.DocumentRenderers{
		PDF:          infrapdf.NewInvoiceRenderer(infrapdf.Options{OrgName: cfg.Org.Name, OrgAddress: cfg.Org.Address, Compress: true}),
		HTML:         views,
		RegisterPDF:  infrapdf.NewMarotoRegisterGenerator(cfg.Org.Name, cfg.Org.Address),
		RegisterXLSX: xlsx.NewRegisterExporter(),
	})
	return docs, dir, nil
}

func write(c *cli.Context, dir string, doc *billing.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear %s: %w", dir, err)
	}
	path := filepath.Join(dir, doc.Filename)
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	_, err := fmt.Fprintln(c.App.Writer, path)
	return err
}
