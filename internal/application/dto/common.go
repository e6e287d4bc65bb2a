package dto

// PageResponse metadatos de página en respuestas (page 0-based, como la API de facturas).
type PageResponse struct {
	Page       int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"totalPages"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Problems detalle por campo cuando el borrador no valida.
	Problems []string `json:"problems,omitempty"`
}
