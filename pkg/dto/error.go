package dto

// ErrorResponse is the single error envelope the API renders.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
