package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
	"github.com/jhoicas/msp-invoices/internal/domain/invoice"
	"github.com/jhoicas/msp-invoices/internal/domain/repository"
	"github.com/jhoicas/msp-invoices/pkg/logger"
)

// Paginación del listado (la API cuenta páginas desde 0).
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// InvoiceUseCase orquesta las operaciones de facturas contra la API de almacenamiento.
type InvoiceUseCase struct {
	store   repository.InvoiceStore
	cache   repository.InvoiceCache // opcional
	search  *SearchCoalescer
	timeout time.Duration
	log     *logger.Logger
}

// InvoiceUseCaseConfig parámetros de construcción.
type InvoiceUseCaseConfig struct {
	// Timeout por llamada a la API; 0 = sin límite propio (se usa el del contexto).
	Timeout  time.Duration
	Debounce time.Duration
}

// NewInvoiceUseCase construye el caso de uso. cache puede ser nil.
func NewInvoiceUseCase(
	store repository.InvoiceStore,
	cache repository.InvoiceCache,
	cfg InvoiceUseCaseConfig,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		store:   store,
		cache:   cache,
		search:  NewSearchCoalescer(cfg.Debounce),
		timeout: cfg.Timeout,
		log:     log,
	}
}

func (uc *InvoiceUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, uc.timeout)
}

// Create valida el borrador, calcula totales y lo envía a la API.
// El resultado puede ser nil si la API no devuelve la factura creada.
func (uc *InvoiceUseCase) Create(ctx context.Context, d invoice.Draft) (*entity.Invoice, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	inv, err := uc.store.Create(ctx, d.ToCreateRequest())
	if err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}
	if inv != nil {
		uc.log.Info().Int64("invoice_no", inv.InvoiceNo).Msg("factura creada")
	}
	return inv, nil
}

// NormalizePage aplica los valores por defecto de paginación.
func NormalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// List devuelve una página del listado.
func (uc *InvoiceUseCase) List(ctx context.Context, page, size int) (*entity.InvoicePage, error) {
	page, size = NormalizePage(page, size)
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	p, err := uc.store.List(ctx, page, size)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	return p, nil
}

// Get obtiene una factura por número pasando por la caché si está configurada.
func (uc *InvoiceUseCase) Get(ctx context.Context, invoiceNo int64) (*entity.Invoice, error) {
	if invoiceNo <= 0 {
		return nil, fmt.Errorf("%w: número de factura debe ser positivo", domain.ErrInvalidInput)
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, invoiceNo)
		if err != nil {
			uc.log.Warn().Err(err).Int64("invoice_no", invoiceNo).Msg("caché de facturas: lectura fallida")
		} else if cached != nil {
			return cached, nil
		}
	}

	inv, err := uc.store.GetByNumber(ctx, invoiceNo)
	if err != nil {
		return nil, fmt.Errorf("obtener factura %d: %w", invoiceNo, err)
	}
	if err := invoice.CheckTotals(inv); err != nil {
		// Dato de la API: se muestra igual, pero queda registrado.
		uc.log.Warn().Err(err).Int64("invoice_no", invoiceNo).Msg("totales inconsistentes")
	}

	if uc.cache != nil {
		if err := uc.cache.Put(ctx, inv); err != nil {
			uc.log.Warn().Err(err).Int64("invoice_no", invoiceNo).Msg("caché de facturas: escritura fallida")
		}
	}
	return inv, nil
}

// Search búsqueda incremental. clientID agrupa las búsquedas de un mismo usuario;
// vacío comparte la clave anónima.
func (uc *InvoiceUseCase) Search(ctx context.Context, clientID, query string) ([]entity.Invoice, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Invoice{}, nil
	}
	res, err := uc.search.Do(ctx, clientID, query, func(ctx context.Context, q string) ([]entity.Invoice, error) {
		ctx, cancel := uc.withTimeout(ctx)
		defer cancel()
		return uc.store.Search(ctx, q)
	})
	if err != nil {
		if errors.Is(err, domain.ErrSuperseded) {
			uc.log.Debug().Str("client_id", clientID).Str("query", query).Msg("búsqueda reemplazada")
			return nil, err
		}
		return nil, fmt.Errorf("buscar facturas: %w", err)
	}
	return res, nil
}
