// Package invoiceapi adaptador HTTP hacia la API externa de almacenamiento de facturas.
package invoiceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/repository"
)

// Verificar en tiempo de compilación que Client implementa InvoiceStore.
var _ repository.InvoiceStore = (*Client)(nil)

// Límite de lectura de respuestas; una página de 100 facturas cabe holgada.
const maxBodyBytes = 4 << 20

// TokenSource entrega el token de servicio para Authorization. "" = sin cabecera.
type TokenSource interface {
	Token() (string, error)
}

// Client cliente de la API de facturas. Sin reintentos: cada fallo se reporta tal cual.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        zerolog.Logger
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el http.Client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource agrega el token de servicio a cada llamada.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger logger para trazas de debug de cada llamada.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// NewClient construye el adaptador. baseURL sin barra final, p. ej. http://localhost:8080/api/invoice.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Create POST {base}/ con el cuerpo de creación; devuelve la factura asignada por la API.
func (c *Client) Create(ctx context.Context, req entity.NewInvoice) (*entity.Invoice, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("invoiceapi: serializar request: %w", err)
	}
	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/", nil, body)
	if err != nil {
		return nil, err
	}
	// Algunas versiones de la API responden 201 sin cuerpo.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var inv entity.Invoice
	if err := decode(invoiceValidator, raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// List GET {base}/?page=&size=.
func (c *Client) List(ctx context.Context, page, size int) (*entity.InvoicePage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/", q, nil)
	if err != nil {
		return nil, err
	}
	var p entity.InvoicePage
	if err := decode(pageValidator, raw, &p); err != nil {
		return nil, err
	}
	if p.Content == nil {
		p.Content = []entity.Invoice{}
	}
	p.Number, p.Size = page, size
	return &p, nil
}

// GetByNumber GET {base}/?invoiceNo=.
func (c *Client) GetByNumber(ctx context.Context, invoiceNo int64) (*entity.Invoice, error) {
	q := url.Values{}
	q.Set("invoiceNo", strconv.FormatInt(invoiceNo, 10))
	raw, err := c.do(ctx, http.MethodGet, c.baseURL+"/", q, nil)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("factura %d: %w", invoiceNo, domain.ErrNotFound)
	}
	var inv entity.Invoice
	if err := decode(invoiceValidator, raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Search POST {base}/search?searchValue=.
func (c *Client) Search(ctx context.Context, query string) ([]entity.Invoice, error) {
	q := url.Values{}
	q.Set("searchValue", query)
	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/search", q, nil)
	if err != nil {
		return nil, err
	}
	var out []entity.Invoice
	if err := decode(listValidator, raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Invoice{}
	}
	return out, nil
}

// ── Transporte ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, endpoint string, q url.Values, body []byte) ([]byte, error) {
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("invoiceapi: crear HTTP request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("invoiceapi: token de servicio: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("invoiceapi: timeout o cancelación: %w", ctx.Err())
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return nil, fmt.Errorf("invoiceapi: %w", context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("invoiceapi: llamada HTTP fallida: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("invoiceapi: leer respuesta: %v: %w", err, domain.ErrUpstream)
	}
	c.log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("llamada a la API de facturas")

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("invoiceapi: %s %s: %w", method, endpoint, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("invoiceapi: HTTP %d: %s: %w", resp.StatusCode, excerpt(raw), domain.ErrUpstream)
	}
	return raw, nil
}

func decode(v *validator, raw []byte, out any) error {
	if err := v.Validate(raw); err != nil {
		return fmt.Errorf("invoiceapi: respuesta inválida: %v: %w", err, domain.ErrUpstream)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invoiceapi: decodificar respuesta: %v: %w", err, domain.ErrUpstream)
	}
	return nil
}

func excerpt(b []byte) string {
	const n = 200
	s := strings.TrimSpace(string(b))
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
