package invoiceapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Esquemas v1 de las respuestas de la API de almacenamiento. Se construyen como mapas
// y se incrustan unos en otros en lugar de usar $ref.

func numberProp(nullable bool) map[string]any {
	if nullable {
		return map[string]any{"type": []string{"number", "null"}, "minimum": 0}
	}
	return map[string]any{"type": "number", "minimum": 0}
}

func idProp() map[string]any {
	return map[string]any{"type": []string{"string", "integer", "null"}}
}

// InvoiceSchema esquema de una factura (v1).
func InvoiceSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          idProp(),
			"description": map[string]any{"type": []string{"string", "null"}},
			"quantity":    map[string]any{"type": "integer", "minimum": 0},
			"rate":        numberProp(false),
			"totalAmount": numberProp(true),
		},
		"required": []string{"quantity", "rate"},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":              idProp(),
			"invoiceNo":       map[string]any{"type": "integer", "minimum": 1},
			"customerName":    map[string]any{"type": []string{"string", "null"}},
			"customerAddress": map[string]any{"type": []string{"string", "null"}},
			"invoiceDate":     map[string]any{"type": []string{"string", "null"}},
			"totalAmount":     numberProp(true),
			"vatAmount":       numberProp(true),
			"grandTotal":      numberProp(false),
			"invoiceItems": map[string]any{
				"type":  []string{"array", "null"},
				"items": item,
			},
		},
		"required": []string{"invoiceNo", "grandTotal"},
	}
}

// PageSchema esquema del listado paginado.
func PageSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":    map[string]any{"type": "array", "items": InvoiceSchema()},
			"totalPages": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []string{"content", "totalPages"},
	}
}

// ListSchema esquema de un arreglo de facturas (búsqueda).
func ListSchema() map[string]any {
	return map[string]any{"type": "array", "items": InvoiceSchema()}
}

// validator esquema compilado una sola vez.
type validator struct {
	schema *jsonschema.Schema
}

func compile(name string, schemaMap map[string]any) (*validator, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

func mustCompile(name string, schemaMap map[string]any) *validator {
	v, err := compile(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate valida el JSON crudo contra el esquema.
func (v *validator) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

var (
	invoiceValidator = mustCompile("invoice.v1.json", InvoiceSchema())
	pageValidator    = mustCompile("invoice-page.v1.json", PageSchema())
	listValidator    = mustCompile("invoice-list.v1.json", ListSchema())
)
