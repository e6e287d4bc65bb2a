package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/msp-invoices/internal/application/billing"
	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// fakeStore API de facturas en memoria.
type fakeStore struct {
	mu       sync.Mutex
	invoices map[int64]entity.Invoice
	created  []entity.NewInvoice
	gets     int
	lastPage [2]int
	err      error
	// searchFn permite bloquear o instrumentar la búsqueda.
	searchFn func(ctx context.Context, q string) ([]entity.Invoice, error)
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
		GrandTotal:   decimal.RequireFromString(req.Invoice.GrandTotal.String()),
	}
	s.invoices[inv.InvoiceNo] = inv
	return &inv, nil
}

func (s *fakeStore) List(_ context.Context, page, size int) (*entity.InvoicePage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastPage = [2]int{page, size}
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
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	inv, ok := s.invoices[n]
	if !ok {
		return nil, fmt.Errorf("factura %d: %w", n, domain.ErrNotFound)
	}
	return &inv, nil
}

func (s *fakeStore) Search(ctx context.Context, q string) ([]entity.Invoice, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, q)
	}
	return []entity.Invoice{{InvoiceNo: 1, CustomerName: q}}, nil
}

// fakeCache caché en memoria con errores inyectables.
type fakeCache struct {
	mu     sync.Mutex
	items  map[int64]entity.Invoice
	getErr error
	putErr error
	puts   int
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[int64]entity.Invoice{}} }

func (c *fakeCache) Get(_ context.Context, n int64) (*entity.Invoice, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	inv, ok := c.items[n]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (c *fakeCache) Put(_ context.Context, inv *entity.Invoice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.items[inv.InvoiceNo] = *inv
	return nil
}

// fakeRenderer registra lo que recibe.
type fakeRenderer struct {
	lastInvoice *entity.Invoice
	lastMode    billing.HTMLMode
	lastPage    *entity.InvoicePage
	err         error
}

func (r *fakeRenderer) Render(inv *entity.Invoice) (*billing.Document, error) {
	r.lastInvoice = inv
	if r.err != nil {
		return nil, r.err
	}
	return &billing.Document{Content: []byte("%PDF"), ContentType: "application/pdf", Filename: "x.pdf", Pages: 1}, nil
}

func (r *fakeRenderer) RenderInvoice(inv *entity.Invoice, mode billing.HTMLMode) (*billing.Document, error) {
	r.lastInvoice, r.lastMode = inv, mode
	if r.err != nil {
		return nil, r.err
	}
	return &billing.Document{Content: []byte("<html>"), ContentType: "text/html; charset=utf-8"}, nil
}

func (r *fakeRenderer) RenderRegister(p *entity.InvoicePage) (*billing.Document, error) {
	r.lastPage = p
	if r.err != nil {
		return nil, r.err
	}
	return &billing.Document{Content: []byte("reg")}, nil
}

var errBoom = errors.New("boom")

func sample(n int64) entity.Invoice {
	return entity.Invoice{
		InvoiceNo:    n,
		CustomerName: "Ram",
		TotalAmount:  decimal.NewNullDecimal(decimal.NewFromInt(200)),
		VATAmount:    decimal.NewNullDecimal(decimal.NewFromInt(26)),
		GrandTotal:   decimal.NewFromInt(226),
	}
}
