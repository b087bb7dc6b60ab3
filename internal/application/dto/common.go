package dto

// Límites de paginación.
const (
	DefaultPageLimit     = 20
	MaxPageLimit         = 100
	DefaultMovementLimit = 50
	MaxMovementLimit     = 500 // el historial de auditoría se revisa en páginas más grandes
)

// PageRequest limit/offset de un listado.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Clamp usa def si Limit no es positivo, acota Limit a max y descarta offsets negativos.
func (p *PageRequest) Clamp(def, max int) {
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Field nombra el campo o la fila a resaltar en la UI.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
