package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/pdf"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/view"
	"github.com/jhoicas/msp-invoices/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/msp-invoices/internal/interfaces/http"
)

// fakeStore API de facturas en memoria.
type fakeStore struct {
	mu       sync.Mutex
	invoices map[int64]entity.Invoice
	created  []entity.NewInvoice
	queries  []string
	err      error
}

func newFakeStore(invs ...entity.Invoice) *fakeStore {
	s := &fakeStore{invoices: map[int64]entity.Invoice{}}
	for _, inv := range invs {
		s.invoices[inv.InvoiceNo] = inv
	}
	return s
}

func (s *fakeStore) Create(_ context.Context, req entity.NewInvoice) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, req)
	inv := entity.Invoice{
		InvoiceNo:    int64(len(s.invoices) + 1),
		CustomerName: req.Invoice.CustomerName,
		InvoiceDate:  req.Invoice.InvoiceDate,
		GrandTotal:   decimal.RequireFromString(req.Invoice.GrandTotal.String()),
	}
	s.invoices[inv.InvoiceNo] = inv
	return &inv, nil
}

func (s *fakeStore) List(_ context.Context, page, size int) (*entity.InvoicePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := &entity.InvoicePage{Content: []entity.Invoice{}, TotalPages: 1, Number: page, Size: size}
	for i := int64(1); i <= int64(len(s.invoices)); i++ {
		if inv, ok := s.invoices[i]; ok {
			out.Content = append(out.Content, inv)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByNumber(_ context.Context, n int64) (*entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	inv, ok := s.invoices[n]
	if !ok {
		return nil, fmt.Errorf("factura %d: %w", n, domain.ErrNotFound)
	}
	return &inv, nil
}

func (s *fakeStore) Search(_ context.Context, q string) ([]entity.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	if s.err != nil {
		return nil, s.err
	}
	out := []entity.Invoice{}
	for _, inv := range s.invoices {
		if strings.Contains(strings.ToLower(inv.CustomerName), strings.ToLower(q)) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func sampleInvoice(no int64, customer string) entity.Invoice {
	return entity.Invoice{
		InvoiceNo:       no,
		CustomerName:    customer,
		CustomerAddress: "Kathmandu",
		InvoiceDate:     "2024-05-01",
		TotalAmount:     decimal.NewNullDecimal(decimal.RequireFromString("200")),
		VATAmount:       decimal.NewNullDecimal(decimal.RequireFromString("26")),
		GrandTotal:      decimal.RequireFromString("226"),
		InvoiceItems: []entity.InvoiceItem{
			{ID: "1", Description: "Router", Quantity: 2, Rate: decimal.RequireFromString("100")},
		},
	}
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

// newTestApp arma la aplicación completa sobre el store en memoria, como cmd/api.
func newTestApp(t *testing.T, store *fakeStore) *fiber.App {
	t.Helper()
	return newTestAppWithConfig(t, store, fiber.Config{Immutable: true})
}

// newTestAppWithConfig como newTestApp con la configuración de fiber indicada.
func newTestAppWithConfig(t *testing.T, store *fakeStore, cfg fiber.Config) *fiber.App {
	t.Helper()
	uc := billing.NewInvoiceUseCase(store, nil, billing.InvoiceUseCaseConfig{Timeout: time.Second}, nil)
	views, err := view.New(view.Org{Name: "MSP Solution", Address: "Kathmandu, Nepal", AppName: "msp-invoices"})
	require.NoError(t, err)
	docs := billing.NewDocumentUseCase(uc, billing.DocumentRenderers{
		PDF:          pdf.NewInvoiceRenderer(pdf.Options{OrgName: "MSP Solution", OrgAddress: "Kathmandu, Nepal"}),
		HTML:         views,
		RegisterPDF:  pdf.NewMarotoRegisterGenerator("MSP Solution", "Kathmandu, Nepal"),
		RegisterXLSX: xlsx.NewRegisterExporter(),
	})

	cfg.ErrorHandler = apphttp.ErrorHandler
	app := fiber.New(cfg)
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(nil))
	apphttp.Router(app, apphttp.RouterDeps{Invoices: uc, Documents: docs, Views: views, Now: fixedNow})
	return app
}

func doGet(t *testing.T, app *fiber.App, target string, headers ...string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return send(t, app, req)
}

func doPostForm(t *testing.T, app *fiber.App, target string, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return send(t, app, req)
}

func doPostJSON(t *testing.T, app *fiber.App, target, body string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(b)
}
