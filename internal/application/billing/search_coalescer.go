package billing

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/msp-invoices/internal/domain"
	"github.com/jhoicas/msp-invoices/internal/domain/entity"
)

// SearchFunc consulta real contra la API de facturas.
type SearchFunc func(ctx context.Context, query string) ([]entity.Invoice, error)

// SearchCoalescer búsqueda incremental por cliente: cada búsqueda nueva cancela la que
// está en curso para la misma clave y espera una ventana de debounce antes de consultar.
// Solo la última búsqueda de cada clave entrega resultado; las reemplazadas devuelven
// domain.ErrSuperseded.
type SearchCoalescer struct {
	debounce time.Duration

	mu       sync.Mutex
	seq      uint64
	inflight map[string]*searchCall
}

type searchCall struct {
	id     uint64
	cancel context.CancelCauseFunc
}

// NewSearchCoalescer debounce <= 0 consulta de inmediato.
func NewSearchCoalescer(debounce time.Duration) *SearchCoalescer {
	return &SearchCoalescer{debounce: debounce, inflight: make(map[string]*searchCall)}
}

// Do ejecuta fn para key, reemplazando cualquier búsqueda previa de la misma clave.
func (s *SearchCoalescer) Do(ctx context.Context, key, query string, fn SearchFunc) ([]entity.Invoice, error) {
	callCtx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	if prev := s.inflight[key]; prev != nil {
		prev.cancel(domain.ErrSuperseded)
	}
	s.seq++
	me := &searchCall{id: s.seq, cancel: cancel}
	s.inflight[key] = me
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if cur := s.inflight[key]; cur != nil && cur.id == me.id {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel(nil)
	}()

	if s.debounce > 0 {
		t := time.NewTimer(s.debounce)
		defer t.Stop()
		select {
		case <-t.C:
		case <-callCtx.Done():
			return nil, cause(callCtx)
		}
	}

	res, err := fn(callCtx, query)
	if superseded(callCtx) {
		return nil, domain.ErrSuperseded
	}
	return res, err
}

// InFlight número de claves con búsqueda en curso.
func (s *SearchCoalescer) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inflight)
}

func superseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), domain.ErrSuperseded)
}

func cause(ctx context.Context) error {
	if superseded(ctx) {
		return domain.ErrSuperseded
	}
	return ctx.Err()
}
