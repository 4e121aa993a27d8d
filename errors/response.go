package errors

// Response is the envelope every failing request receives. Data is always
// null so clients can share one decoder for success and failure.
type Response struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Message string    `json:"message"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody is the machine-readable part of Response.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse converts e to its client envelope.
func (e *AppError) ToResponse() Response {
	return Response{
		Success: false,
		Message: e.Message,
		Error: ErrorBody{
			Code:      e.Code,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}
