package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrMissingInput = errors.New("faltan datos de la factura")
	ErrUpstream     = errors.New("el servicio de facturas respondió con error")
	ErrSuperseded   = errors.New("búsqueda reemplazada por una más reciente")
)
