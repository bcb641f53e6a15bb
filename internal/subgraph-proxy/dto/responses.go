package dto

type HealthResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
