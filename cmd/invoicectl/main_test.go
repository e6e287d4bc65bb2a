package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const invoiceJSON = `{"id":"a","invoiceNo":7,"customerName":"Ram","customerAddress":"Kathmandu",
"invoiceDate":"2024-05-01","totalAmount":200,"vatAmount":26,"grandTotal":226,
"invoiceItems":[{"id":1,"description":"Router","quantity":2,"rate":100}]}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"invoicectl"}, args...))
	return out.String(), err
}

func TestWords(t *testing.T) {
	out, err := run(t, "words", "1250")
	require.NoError(t, err)
	assert.Equal(t, "one thousand two hundred fifty\n", out)

	_, err = run(t, "words", "-1")
	assert.Error(t, err)

	_, err = run(t, "words", "mil")
	assert.Error(t, err)
}

func TestPDFyRegistro(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("invoiceNo") != "" {
			_, _ = io.WriteString(w, invoiceJSON)
			return
		}
		_, _ = io.WriteString(w, `{"content":[`+invoiceJSON+`],"totalPages":1}`)
	}))
	defer srv.Close()
	dir := t.TempDir()

	out, err := run(t, "--api", srv.URL+"/api/invoice", "--out", dir, "pdf", "7")
	require.NoError(t, err)
	path := filepath.Join(dir, "invoice_007.pdf")
	assert.Equal(t, path, strings.TrimSpace(out))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))

	out, err = run(t, "--api", srv.URL+"/api/invoice", "--out", dir, "register", "--format", "xlsx")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "invoice_register_p1.xlsx"), strings.TrimSpace(out))

	_, err = run(t, "--api", srv.URL+"/api/invoice", "--out", dir, "register", "--format", "csv")
	assert.Error(t, err)
}
