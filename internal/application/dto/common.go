package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RejectionResponse rechazo por disponibilidad (HTTP 409). No es una falla del sistema.
type RejectionResponse struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	LineID     string `json:"line_id"`
	Requested  int    `json:"requested"`
	Allowed    int    `json:"allowed"`
	Bottleneck string `json:"bottleneck,omitempty"`
}
