package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/msp-invoices/internal/application/dto"
	"github.com/jhoicas/msp-invoices/internal/domain"
)

func TestAPI_Create(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)

	resp, body := doPostJSON(t, app, "/api/invoices", `{
		"customerName": "Ram", "customerAddress": "Kathmandu", "invoiceDate": "2024-05-01",
		"applyVat": true,
		"items": [{"description": "Router", "rate": 100, "quantity": 2}]
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var out dto.InvoiceResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "001", out.Number)
	assert.Equal(t, "226.00", out.GrandTotal)

	require.Len(t, store.created, 1)
	assert.Equal(t, "200.00", store.created[0].Invoice.TotalAmount.String())
	assert.Equal(t, "26.00", store.created[0].Invoice.VATAmount.String())
}

func TestAPI_CreateInvalido(t *testing.T) {
	store := newFakeStore()
	app := newTestApp(t, store)

	resp, body := doPostJSON(t, app, "/api/invoices", `{"items": [{"description": "", "rate": 1, "quantity": 1}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Problems, "customer name is required")
	assert.Contains(t, out.Problems, "item 1: description is required")
	assert.Empty(t, store.created, "un borrador inválido no llega a la API")

	resp, _ = doPostJSON(t, app, "/api/invoices", `{"items": [`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListYDetalle(t *testing.T) {
	app := newTestApp(t, newFakeStore(sampleInvoice(1, "Ram"), sampleInvoice(2, "Sita")))

	resp, body := doGet(t, app, "/api/invoices?page=0&size=500")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page dto.InvoicePageResponse
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 100, page.Page.Size, "size se limita a 100")

	resp, body = doGet(t, app, "/api/invoices/2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var inv dto.InvoiceResponse
	require.NoError(t, json.Unmarshal([]byte(body), &inv))
	assert.Equal(t, "Sita", inv.CustomerName)
	assert.Equal(t, "Rupees Two Hundred Twenty Six Only", inv.AmountInWords)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "200.00", inv.Items[0].Amount)
}

func TestAPI_ErroresMapeados(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
		code   string
	}{
		{"no existe", "/api/invoices/9", nil, http.StatusNotFound, "NOT_FOUND"},
		{"número inválido", "/api/invoices/abc", nil, http.StatusBadRequest, "VALIDATION"},
		{"número cero", "/api/invoices/0", nil, http.StatusBadRequest, "VALIDATION"},
		{"api caída", "/api/invoices/1", domain.ErrUpstream, http.StatusBadGateway, "UPSTREAM"},
		{"listado api caída", "/api/invoices", domain.ErrUpstream, http.StatusBadGateway, "UPSTREAM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(sampleInvoice(1, "Ram"))
			store.err = tt.err
			resp, body := doGet(t, newTestApp(t, store), tt.target)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, body, `"code":"`+tt.code+`"`)
		})
	}
}

func TestAPI_Search(t *testing.T) {
	store := newFakeStore(sampleInvoice(1, "Ram Bahadur"), sampleInvoice(2, "Sita"))
	app := newTestApp(t, store)

	resp, body := doGet(t, app, "/api/invoices/search?searchValue=ram", "X-Client-ID", "tab-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []dto.InvoiceResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Ram Bahadur", out[0].CustomerName)

	resp, body = doGet(t, app, "/api/invoices/search?searchValue=%20%20")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)
	assert.Equal(t, []string{"ram"}, store.queries, "consulta vacía no llama a la API")
}

func TestAPI_SearchConservaLaConsulta(t *testing.T) {
	store := newFakeStore(sampleInvoice(1, "Ram"), sampleInvoice(2, "Sita"))
	// Sin Immutable: el handler debe copiar lo que sale de la petición.
	app := newTestAppWithConfig(t, store, fiber.Config{})

	for _, q := range []string{"ram", "sita", "ra"} {
		resp, _ := doGet(t, app, "/api/invoices/search?searchValue="+q, "X-Client-ID", "tab-"+q)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	assert.Equal(t, []string{"ram", "sita", "ra"}, store.queries)
}

func TestAPI_Words(t *testing.T) {
	app := newTestApp(t, newFakeStore())

	resp, body := doGet(t, app, "/api/words/1250")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"number":1250,"words":"one thousand two hundred fifty"}`, body)

	resp, _ = doGet(t, app, "/api/words/-5")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, app, "/api/words/1000000000000")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doGet(t, app, "/api/words/diez")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
