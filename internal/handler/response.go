package handler

// ErrorResponse is the uniform error body of the messaging API: a stable
// machine-readable code plus a human-oriented message.
type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// unauthorizedResponse is the shared body for every missing-session rejection.
func unauthorizedResponse() ErrorResponse {
	return NewErrorResponse("unauthorized", "missing session")
}
