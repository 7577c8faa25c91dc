package dto

// PageRequest paginación por número de página (1-based).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalize aplica valores por defecto: página 1 y tamaño defaultSize (máx. 100).
func (p *PageRequest) Normalize(defaultSize int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultSize
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

// Offset filas a saltar.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse calcula el número de páginas (mínimo 1).
func NewPageResponse(req PageRequest, total int) PageResponse {
	pages := 1
	if req.PageSize > 0 && total > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}
	return PageResponse{Page: req.Page, PageSize: req.PageSize, Total: total, TotalPages: pages}
}

// Paginate devuelve el tramo de la página pedida (slice vacío fuera de rango).
func Paginate[T any](items []T, req PageRequest) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}
