package dto

// maxPageLimit tope de página para los listados (cuentas, ventas, kardex).
const maxPageLimit = 100

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=1,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto y recorta Limit al tope permitido.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Code es un identificador estable para
// que el frontend distinga, por ejemplo, NO_AVAILABLE_PROFILE (agotado) de
// NEGATIVE_INVENTORY o CAPACITY_BELOW_SOLD (operación inválida sobre la cuenta).
type ErrorResponse struct {
	Code    string `json:"code" example:"NO_AVAILABLE_PROFILE"`
	Message string `json:"message" example:"no hay perfiles disponibles en la cuenta"`
}
